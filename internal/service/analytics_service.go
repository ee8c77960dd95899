package service

import (
	"github.com/ananyabshetty/SQL-Detective-Game/internal/repository"
	"go.uber.org/zap"
)

// FunnelReport is the level-by-level drop-off view for instructors.
type FunnelReport struct {
	Levels []repository.FunnelRow `json:"levels"`
}

// AnalyticsService reports on how players move through the case.
type AnalyticsService struct {
	attempts *repository.AttemptRepository
	log      *zap.Logger
}

func NewAnalyticsService(attempts *repository.AttemptRepository, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{attempts: attempts, log: log}
}

func (s *AnalyticsService) Funnel() (*FunnelReport, error) {
	rows, err := s.attempts.CompletionFunnel()
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.FunnelRow{}
	}
	return &FunnelReport{Levels: rows}, nil
}

func (s *AnalyticsService) ErrorBreakdown() ([]repository.ErrorFrequency, error) {
	rows, err := s.attempts.ErrorFrequencies()
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.ErrorFrequency{}
	}
	return rows, nil
}

func (s *AnalyticsService) LearningCurve(sessionID string) ([]repository.CurvePoint, error) {
	points, err := s.attempts.LearningCurve(sessionID)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []repository.CurvePoint{}
	}
	return points, nil
}
