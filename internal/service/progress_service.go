package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/levels"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/model"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/repository"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/util"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	progressKeyPrefix = "progress:"
	progressTTL       = 24 * time.Hour
)

// Progress is a session's game state as served to the client. Redis holds the
// same JSON in front of the player_progress table.
type Progress struct {
	CurrentLevel    int      `json:"current_level"`
	CompletedLevels []int    `json:"completed_levels"`
	TotalQueries    int      `json:"total_queries"`
	CorrectAnswers  int      `json:"correct_answers"`
	TotalLevels     int      `json:"total_levels"`
	UnlockedTables  []string `json:"unlocked_tables"`
}

type ProgressService struct {
	rdb      *redis.Client
	repo     *repository.ProgressRepository
	attempts *repository.AttemptRepository
	registry *levels.Registry
	log      *zap.Logger
}

func NewProgressService(rdb *redis.Client, repo *repository.ProgressRepository, attempts *repository.AttemptRepository, registry *levels.Registry, log *zap.Logger) *ProgressService {
	return &ProgressService{
		rdb:      rdb,
		repo:     repo,
		attempts: attempts,
		registry: registry,
		log:      log,
	}
}

// Get returns the session's progress, reading through the Redis cache and
// falling back to MySQL. A brand new session starts at level 1.
func (s *ProgressService) Get(ctx context.Context, sessionID string) (*Progress, error) {
	if cached, err := s.rdb.Get(ctx, progressKeyPrefix+sessionID).Result(); err == nil {
		var p Progress
		if jsonErr := json.Unmarshal([]byte(cached), &p); jsonErr == nil {
			s.decorate(&p)
			return &p, nil
		}
	}

	row, err := s.repo.Find(sessionID)
	if err == gorm.ErrRecordNotFound {
		p := s.fresh()
		s.cache(ctx, sessionID, p)
		return p, nil
	}
	if err != nil {
		return nil, err
	}

	p := &Progress{
		CurrentLevel:   row.CurrentLevel,
		TotalQueries:   row.TotalQueries,
		CorrectAnswers: row.CorrectAnswers,
	}
	if row.CompletedLevels != "" {
		if jsonErr := json.Unmarshal([]byte(row.CompletedLevels), &p.CompletedLevels); jsonErr != nil {
			s.log.Warn("corrupt completed_levels json, resetting",
				zap.String("session_id", sessionID), zap.Error(jsonErr))
			p.CompletedLevels = nil
		}
	}
	s.decorate(p)
	s.cache(ctx, sessionID, p)
	return p, nil
}

// Reset wipes the session back to level 1 in both stores.
func (s *ProgressService) Reset(ctx context.Context, sessionID string) (*Progress, error) {
	if err := s.repo.Delete(sessionID); err != nil {
		return nil, err
	}
	s.rdb.Del(ctx, progressKeyPrefix+sessionID)
	p := s.fresh()
	s.cache(ctx, sessionID, p)
	return p, nil
}

// Unlock jumps the session to the given level. Meant for replaying earlier
// cases or instructor demos; it never grants levels beyond the catalog.
func (s *ProgressService) Unlock(ctx context.Context, sessionID string, levelID int) (*Progress, error) {
	if _, ok := s.registry.Get(levelID); !ok {
		return nil, util.ErrLevelNotFound
	}
	p, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	p.CurrentLevel = levelID
	s.decorate(p)
	if err := s.persist(ctx, sessionID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordCheck folds one answer-check outcome into the session's progress and
// writes the completion row the first time a level is solved.
func (s *ProgressService) RecordCheck(ctx context.Context, sessionID string, levelID int, correct bool) (*Progress, error) {
	p, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p.TotalQueries++
	if correct {
		p.CorrectAnswers++
		if !containsLevel(p.CompletedLevels, levelID) {
			p.CompletedLevels = append(p.CompletedLevels, levelID)
			sort.Ints(p.CompletedLevels)
			s.logCompletion(sessionID, levelID)
		}
		if next := s.registry.NextID(levelID); next != 0 && next > p.CurrentLevel {
			p.CurrentLevel = next
		}
	}

	s.decorate(p)
	if err := s.persist(ctx, sessionID, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProgressService) logCompletion(sessionID string, levelID int) {
	attempts, err := s.attempts.CountAttempts(sessionID, levelID)
	if err != nil {
		s.log.Warn("count attempts failed", zap.Error(err))
	}
	var spent int
	if first, ferr := s.attempts.FirstAttemptAt(sessionID, levelID); ferr == nil && !first.IsZero() {
		spent = int(time.Since(first).Seconds())
	}
	if err := s.attempts.LogCompletion(&model.LevelCompletion{
		SessionID:        sessionID,
		LevelID:          levelID,
		AttemptsUsed:     int(attempts) + 1,
		TimeSpentSeconds: spent,
	}); err != nil {
		s.log.Warn("log completion failed", zap.Error(err))
	}
}

func (s *ProgressService) fresh() *Progress {
	p := &Progress{
		CurrentLevel:    1,
		CompletedLevels: []int{},
	}
	s.decorate(p)
	return p
}

// decorate fills the derived fields that are never stored.
func (s *ProgressService) decorate(p *Progress) {
	if p.CompletedLevels == nil {
		p.CompletedLevels = []int{}
	}
	p.TotalLevels = s.registry.Count()
	p.UnlockedTables = s.registry.TablesFor(p.CurrentLevel)
}

func (s *ProgressService) persist(ctx context.Context, sessionID string, p *Progress) error {
	completed, err := json.Marshal(p.CompletedLevels)
	if err != nil {
		return err
	}
	if err := s.repo.Upsert(&model.PlayerProgress{
		SessionID:       sessionID,
		CurrentLevel:    p.CurrentLevel,
		CompletedLevels: string(completed),
		TotalQueries:    p.TotalQueries,
		CorrectAnswers:  p.CorrectAnswers,
	}); err != nil {
		return err
	}
	s.cache(ctx, sessionID, p)
	return nil
}

// cache failures are logged and swallowed; MySQL remains the source of truth.
func (s *ProgressService) cache(ctx context.Context, sessionID string, p *Progress) {
	payload, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, progressKeyPrefix+sessionID, payload, progressTTL).Err(); err != nil {
		s.log.Warn("progress cache write failed", zap.Error(err))
	}
}

func containsLevel(list []int, id int) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
