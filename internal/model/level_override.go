package model

// LevelOverride lets an admin adjust a level without redeploying. Nil fields
// leave the static definition untouched.
type LevelOverride struct {
	BaseModel

	LevelID       int     `gorm:"uniqueIndex" json:"levelId"`
	ExpectedQuery *string `gorm:"type:text" json:"expectedQuery,omitempty"`
	Hint          *string `gorm:"size:1024" json:"hint,omitempty"`
	OrderMatters  *bool   `json:"orderMatters,omitempty"`
}

func (LevelOverride) TableName() string {
	return "level_overrides"
}
