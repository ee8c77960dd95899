package controller

import (
	"testing"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAttemptLog(t *testing.T) {
	req := &CheckRequest{LevelID: 3, Query: "SELECT * FROM suspects"}

	tests := []struct {
		name      string
		verdict   *service.CheckResult
		isValid   bool
		errorType string
		withMsg   bool
	}{
		{
			name:    "correct answer",
			verdict: &service.CheckResult{Correct: true, Message: "Solved!"},
			isValid: true,
		},
		{
			name:    "wrong but executable answer",
			verdict: &service.CheckResult{Correct: false, Message: "Row count mismatch"},
			isValid: true,
		},
		{
			name:      "validation rejection",
			verdict:   &service.CheckResult{Correct: false, Message: "Query Error: forbidden", FailureKind: service.ErrKindValidation},
			isValid:   false,
			errorType: service.ErrKindValidation,
			withMsg:   true,
		},
		{
			name:      "execution failure keeps its kind",
			verdict:   &service.CheckResult{Correct: false, Message: "Query Error: Table not found", FailureKind: service.ErrKindUnknownObject},
			isValid:   true,
			errorType: service.ErrKindUnknownObject,
			withMsg:   true,
		},
		{
			name:      "timeout keeps its kind",
			verdict:   &service.CheckResult{Correct: false, Message: "Query Error: timed out", FailureKind: service.ErrKindTimeout},
			isValid:   true,
			errorType: service.ErrKindTimeout,
			withMsg:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := checkAttemptLog("session-1", req, tt.verdict, 12)

			assert.Equal(t, "session-1", attempt.SessionID)
			assert.Equal(t, 3, attempt.LevelID)
			assert.Equal(t, tt.isValid, attempt.IsValid)
			assert.Equal(t, tt.errorType, attempt.ErrorType)
			require.NotNil(t, attempt.IsCorrect)
			assert.Equal(t, tt.verdict.Correct, *attempt.IsCorrect)
			assert.Equal(t, int64(12), attempt.ExecutionTimeMs)
			if tt.withMsg {
				assert.Equal(t, tt.verdict.Message, attempt.ErrorMessage)
			} else {
				assert.Empty(t, attempt.ErrorMessage)
			}
		})
	}
}
