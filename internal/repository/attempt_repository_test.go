package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockRepo(t *testing.T) (*AttemptRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewAttemptRepository(gdb), mock
}

func TestLogAttempt(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `query_attempts`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	correct := true
	err := repo.LogAttempt(&model.QueryAttemptLog{
		SessionID: "11111111-2222-3333-4444-555555555555",
		LevelID:   1,
		QueryText: "SELECT * FROM suspects",
		IsValid:   true,
		IsCorrect: &correct,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountAttempts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `query_attempts`").
		WithArgs("abc", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountAttempts("abc", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTouchSession(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `session_logs`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.TouchSession("abc")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorFrequencies(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT error_type, COUNT\\(\\*\\) AS count FROM `query_attempts`").
		WillReturnRows(sqlmock.NewRows([]string{"error_type", "count"}).
			AddRow("validation", 12).
			AddRow("syntax", 7))

	rows, err := repo.ErrorFrequencies()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "validation", rows[0].ErrorType)
	assert.Equal(t, int64(12), rows[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
