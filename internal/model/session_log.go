package model

import "time"

// SessionLog is one anonymous player session, keyed by the cookie-borne UUID.
type SessionLog struct {
	BaseModel

	SessionID    string    `gorm:"uniqueIndex;size:36" json:"sessionId"`
	UserAgent    string    `gorm:"size:512" json:"userAgent"`
	StartedAt    time.Time `json:"startedAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
	TotalQueries int       `json:"totalQueries"`
}

func (SessionLog) TableName() string {
	return "session_logs"
}
