package repository

import (
	"time"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// EnsureSession inserts the session log row on first sight of a session id.
func (r *AttemptRepository) EnsureSession(sessionID, userAgent string) error {
	var existing model.SessionLog
	err := r.DB.Where("session_id = ?", sessionID).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	now := time.Now()
	return r.DB.Create(&model.SessionLog{
		SessionID:    sessionID,
		UserAgent:    userAgent,
		StartedAt:    now,
		LastActiveAt: now,
	}).Error
}

// TouchSession bumps activity and the query counter for a session.
func (r *AttemptRepository) TouchSession(sessionID string) error {
	return r.DB.Model(&model.SessionLog{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"last_active_at": time.Now(),
			"total_queries":  gorm.Expr("total_queries + 1"),
		}).Error
}

func (r *AttemptRepository) LogAttempt(attempt *model.QueryAttemptLog) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) LogCompletion(completion *model.LevelCompletion) error {
	return r.DB.Create(completion).Error
}

func (r *AttemptRepository) CountAttempts(sessionID string, levelID int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QueryAttemptLog{}).
		Where("session_id = ? AND level_id = ?", sessionID, levelID).
		Count(&count).Error
	return count, err
}

// FirstAttemptAt returns when a session first tried a level, for computing
// time-to-solve. Zero time when the session has no attempts there.
func (r *AttemptRepository) FirstAttemptAt(sessionID string, levelID int) (time.Time, error) {
	var first struct {
		CreatedAt *time.Time
	}
	err := r.DB.Model(&model.QueryAttemptLog{}).
		Select("MIN(created_at) AS created_at").
		Where("session_id = ? AND level_id = ?", sessionID, levelID).
		Scan(&first).Error
	if err != nil || first.CreatedAt == nil {
		return time.Time{}, err
	}
	return *first.CreatedAt, nil
}

func (r *AttemptRepository) RecentAttempts(limit int) ([]model.QueryAttemptLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var attempts []model.QueryAttemptLog
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&attempts).Error
	return attempts, err
}

// FunnelRow is one level of the completion funnel.
type FunnelRow struct {
	LevelID        int     `json:"level_id"`
	Sessions       int64   `json:"sessions"`
	Completions    int64   `json:"completions"`
	AvgAttempts    float64 `json:"avg_attempts"`
	AvgTimeSeconds float64 `json:"avg_time_seconds"`
}

func (r *AttemptRepository) CompletionFunnel() ([]FunnelRow, error) {
	var rows []FunnelRow
	err := r.DB.Raw(`
		SELECT a.level_id                                    AS level_id,
		       COUNT(DISTINCT a.session_id)                  AS sessions,
		       COUNT(DISTINCT c.session_id)                  AS completions,
		       COALESCE(AVG(c.attempts_used), 0)             AS avg_attempts,
		       COALESCE(AVG(c.time_spent_seconds), 0)        AS avg_time_seconds
		FROM query_attempts a
		LEFT JOIN level_completions c
		       ON c.level_id = a.level_id AND c.session_id = a.session_id
		GROUP BY a.level_id
		ORDER BY a.level_id`).Scan(&rows).Error
	return rows, err
}

// ErrorFrequency counts invalid attempts per error type.
type ErrorFrequency struct {
	ErrorType string `json:"error_type"`
	Count     int64  `json:"count"`
}

func (r *AttemptRepository) ErrorFrequencies() ([]ErrorFrequency, error) {
	var rows []ErrorFrequency
	err := r.DB.Model(&model.QueryAttemptLog{}).
		Select("error_type, COUNT(*) AS count").
		Where("is_valid = ? OR error_type <> ''", false).
		Group("error_type").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// CurvePoint is a session's per-level learning curve entry.
type CurvePoint struct {
	LevelID          int `json:"level_id"`
	Attempts         int `json:"attempts"`
	TimeSpentSeconds int `json:"time_spent_seconds"`
}

func (r *AttemptRepository) LearningCurve(sessionID string) ([]CurvePoint, error) {
	var points []CurvePoint
	err := r.DB.Raw(`
		SELECT a.level_id                            AS level_id,
		       COUNT(*)                              AS attempts,
		       COALESCE(MAX(c.time_spent_seconds),0) AS time_spent_seconds
		FROM query_attempts a
		LEFT JOIN level_completions c
		       ON c.level_id = a.level_id AND c.session_id = a.session_id
		WHERE a.session_id = ?
		GROUP BY a.level_id
		ORDER BY a.level_id`, sessionID).Scan(&points).Error
	return points, err
}
