package repository

import (
	"github.com/ananyabshetty/SQL-Detective-Game/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LevelOverrideRepository struct {
	DB *gorm.DB
}

func NewLevelOverrideRepository(db *gorm.DB) *LevelOverrideRepository {
	return &LevelOverrideRepository{DB: db}
}

func (r *LevelOverrideRepository) All() ([]model.LevelOverride, error) {
	var overrides []model.LevelOverride
	err := r.DB.Find(&overrides).Error
	return overrides, err
}

func (r *LevelOverrideRepository) Upsert(override *model.LevelOverride) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "level_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"expected_query", "hint", "order_matters",
		}),
	}).Create(override).Error
}
