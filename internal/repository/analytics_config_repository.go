package repository

import (
	"github.com/ananyabshetty/SQL-Detective-Game/internal/model"
	"gorm.io/gorm"
)

type AnalyticsConfigRepository struct {
	DB *gorm.DB
}

func NewAnalyticsConfigRepository(db *gorm.DB) *AnalyticsConfigRepository {
	return &AnalyticsConfigRepository{DB: db}
}

func (r *AnalyticsConfigRepository) All() ([]model.AnalyticsConfig, error) {
	var configs []model.AnalyticsConfig
	err := r.DB.Order("config_key").Find(&configs).Error
	return configs, err
}

// Weights returns the scoring weights as a lookup map.
func (r *AnalyticsConfigRepository) Weights() (map[string]float64, error) {
	configs, err := r.All()
	if err != nil {
		return nil, err
	}
	weights := make(map[string]float64, len(configs))
	for _, c := range configs {
		weights[c.ConfigKey] = c.ConfigValue
	}
	return weights, nil
}

func (r *AnalyticsConfigRepository) Update(key string, value float64) (bool, error) {
	res := r.DB.Model(&model.AnalyticsConfig{}).
		Where("config_key = ?", key).
		Update("config_value", value)
	return res.RowsAffected > 0, res.Error
}
