package service

import (
	"context"
	"database/sql"
)

// HourBucket is the call volume for one hour of the case timeline.
type HourBucket struct {
	Hour  string `json:"hour"`
	Calls int    `json:"calls"`
}

// ActivitySpike flags an hour whose call volume is at least double the
// timeline average.
type ActivitySpike struct {
	Hour    string  `json:"hour"`
	Calls   int     `json:"calls"`
	Average float64 `json:"average"`
}

// TimeAnalyzer surfaces temporal patterns in the phone evidence.
type TimeAnalyzer struct {
	db *sql.DB
}

func NewTimeAnalyzer(db *sql.DB) *TimeAnalyzer {
	return &TimeAnalyzer{db: db}
}

// HourlyCallVolume buckets every phone record by hour.
func (t *TimeAnalyzer) HourlyCallVolume(ctx context.Context) ([]HourBucket, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d %H:00', timestamp) AS hour, COUNT(*) AS calls
		FROM phone_records
		GROUP BY hour
		ORDER BY hour`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []HourBucket
	for rows.Next() {
		var b HourBucket
		if err := rows.Scan(&b.Hour, &b.Calls); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// Spikes returns the hours with at least twice the average call volume.
func (t *TimeAnalyzer) Spikes(ctx context.Context) ([]ActivitySpike, error) {
	buckets, err := t.HourlyCallVolume(ctx)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		return []ActivitySpike{}, nil
	}

	var total int
	for _, b := range buckets {
		total += b.Calls
	}
	avg := float64(total) / float64(len(buckets))

	spikes := []ActivitySpike{}
	for _, b := range buckets {
		if float64(b.Calls) >= avg*2 {
			spikes = append(spikes, ActivitySpike{Hour: b.Hour, Calls: b.Calls, Average: avg})
		}
	}
	return spikes, nil
}
