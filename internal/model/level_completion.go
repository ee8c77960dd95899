package model

// LevelCompletion is written once per session per solved level.
type LevelCompletion struct {
	BaseModel

	SessionID        string `gorm:"index;size:36" json:"sessionId"`
	LevelID          int    `gorm:"index" json:"levelId"`
	AttemptsUsed     int    `json:"attemptsUsed"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}

func (LevelCompletion) TableName() string {
	return "level_completions"
}
