package repository

import (
	"github.com/ananyabshetty/SQL-Detective-Game/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(sessionID string) (*model.PlayerProgress, error) {
	var progress model.PlayerProgress
	err := r.DB.Where("session_id = ?", sessionID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Upsert keeps one durable row per session.
func (r *ProgressRepository) Upsert(progress *model.PlayerProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_level", "completed_levels", "total_queries", "correct_answers",
		}),
	}).Create(progress).Error
}

func (r *ProgressRepository) Delete(sessionID string) error {
	return r.DB.Where("session_id = ?", sessionID).Delete(&model.PlayerProgress{}).Error
}
