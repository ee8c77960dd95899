package model

// PlayerProgress is the durable copy of a session's game state. The Redis
// cache in front of it holds the same fields for the hot path.
type PlayerProgress struct {
	BaseModel

	SessionID       string `gorm:"uniqueIndex;size:36" json:"sessionId"`
	CurrentLevel    int    `json:"currentLevel"`
	CompletedLevels string `gorm:"type:json" json:"completedLevels"`
	TotalQueries    int    `json:"totalQueries"`
	CorrectAnswers  int    `json:"correctAnswers"`
}

func (PlayerProgress) TableName() string {
	return "player_progress"
}
