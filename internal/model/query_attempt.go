package model

// QueryAttemptLog records a single submitted query for the analytics funnel.
// IsCorrect is nil for ad hoc exploration queries that never went through a
// level check.
type QueryAttemptLog struct {
	BaseModel

	SessionID       string `gorm:"index;size:36" json:"sessionId"`
	LevelID         int    `gorm:"index" json:"levelId"`
	QueryText       string `gorm:"type:text" json:"queryText"`
	IsValid         bool   `json:"isValid"`
	IsCorrect       *bool  `json:"isCorrect,omitempty"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
	ErrorType       string `gorm:"size:64" json:"errorType,omitempty"`
	ErrorMessage    string `gorm:"size:1024" json:"errorMessage,omitempty"`
}

func (QueryAttemptLog) TableName() string {
	return "query_attempts"
}
