package model

// AnalyticsConfig is a tunable weight for the suspect scoring engine.
type AnalyticsConfig struct {
	BaseModel

	ConfigKey   string  `gorm:"uniqueIndex;size:64" json:"configKey"`
	ConfigValue float64 `json:"configValue"`
	Description string  `gorm:"size:255" json:"description"`
}

func (AnalyticsConfig) TableName() string {
	return "analytics_config"
}
