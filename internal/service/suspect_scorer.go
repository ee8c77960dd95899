package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/repository"
	"go.uber.org/zap"
)

// Default weights used when the analytics_config table is unreachable or a
// key is missing. Kept in sync with the rows seeded at migration time.
var defaultWeights = map[string]float64{
	"weight_criminal_record":      25,
	"weight_crime_calls":          10,
	"weight_bank_presence":        15,
	"weight_large_transaction":    12,
	"large_transaction_threshold": 5000,
}

// SuspectScore is one suspect's weighted suspicion score with the factors
// that contributed to it.
type SuspectScore struct {
	SuspectID int      `json:"suspect_id"`
	Name      string   `json:"name"`
	Score     float64  `json:"score"`
	Factors   []string `json:"factors"`
}

// SuspectScorer ranks suspects by combining evidence signals from the case
// database under admin-tunable weights.
type SuspectScorer struct {
	db      *sql.DB
	weights *repository.AnalyticsConfigRepository
	log     *zap.Logger
}

func NewSuspectScorer(db *sql.DB, weights *repository.AnalyticsConfigRepository, log *zap.Logger) *SuspectScorer {
	return &SuspectScorer{db: db, weights: weights, log: log}
}

type suspectSignals struct {
	id         int
	name       string
	record     int
	crimeCalls int
	bankVisits int
	largeTxns  int
}

// Rank returns all suspects ordered by descending score.
func (s *SuspectScorer) Rank(ctx context.Context) ([]SuspectScore, error) {
	weights := s.loadWeights()
	threshold := weights["large_transaction_threshold"]

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id,
		       s.name,
		       s.criminal_record,
		       (SELECT COUNT(*) FROM phone_records p
		         WHERE p.caller_id = s.id
		           AND p.timestamp >= '2024-03-15 23:00:00'
		           AND p.timestamp < '2024-03-16 02:00:00')        AS crime_calls,
		       (SELECT COUNT(*) FROM cctv_logs c
		         JOIN locations l ON l.id = c.location_id
		        WHERE c.person_id = s.id
		          AND l.name = 'Downtown Bank')                    AS bank_visits,
		       (SELECT COUNT(*) FROM bank_transactions b
		         WHERE b.account_id = s.id AND b.amount > ?)       AS large_txns
		FROM suspects s
		ORDER BY s.id`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []SuspectScore
	for rows.Next() {
		var sig suspectSignals
		if err := rows.Scan(&sig.id, &sig.name, &sig.record, &sig.crimeCalls, &sig.bankVisits, &sig.largeTxns); err != nil {
			return nil, err
		}
		scores = append(scores, score(sig, weights))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores, nil
}

func score(sig suspectSignals, weights map[string]float64) SuspectScore {
	out := SuspectScore{
		SuspectID: sig.id,
		Name:      sig.name,
		Factors:   []string{},
	}
	if sig.record == 1 {
		out.Score += weights["weight_criminal_record"]
		out.Factors = append(out.Factors, "has a criminal record")
	}
	if sig.crimeCalls > 0 {
		out.Score += weights["weight_crime_calls"] * float64(sig.crimeCalls)
		out.Factors = append(out.Factors, "made calls during the heist window")
	}
	if sig.bankVisits > 0 {
		out.Score += weights["weight_bank_presence"] * float64(sig.bankVisits)
		out.Factors = append(out.Factors, "was seen at the Downtown Bank")
	}
	if sig.largeTxns > 0 {
		out.Score += weights["weight_large_transaction"] * float64(sig.largeTxns)
		out.Factors = append(out.Factors, "moved unusually large sums")
	}
	return out
}

func (s *SuspectScorer) loadWeights() map[string]float64 {
	merged := make(map[string]float64, len(defaultWeights))
	for k, v := range defaultWeights {
		merged[k] = v
	}
	stored, err := s.weights.Weights()
	if err != nil {
		s.log.Warn("scoring weights unavailable, using defaults", zap.Error(err))
		return merged
	}
	for k, v := range stored {
		merged[k] = v
	}
	return merged
}
