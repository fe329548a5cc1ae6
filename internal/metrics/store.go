package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"herbal-infusion-ai/internal/shared"
)

// GenerationMetric records metadata for a single generation attempt.
type GenerationMetric struct {
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Outcome          string
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO generation_metrics (model, prompt_tokens, completion_tokens, latency_ms, outcome, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
		m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS, m.Outcome, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation metric: %w", err)
	}
	return nil
}

// RecordMeta records a metric directly from generation metadata.
func (s *Store) RecordMeta(ctx context.Context, meta shared.GenerationMeta, outcome string) error {
	return s.Record(ctx, GenerationMetric{
		Model:            meta.Model,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
		Outcome:          outcome,
	})
}

// DailyUsage represents attempt and token totals for a single day.
type DailyUsage struct {
	Date            string
	TotalPrompt     int
	TotalCompletion int
	TotalAttempts   int
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx,
		`SELECT date(timestamp) AS day,
		        COALESCE(SUM(prompt_tokens), 0),
		        COALESCE(SUM(completion_tokens), 0),
		        COUNT(*)
		 FROM generation_metrics
		 WHERE timestamp >= ?
		 GROUP BY day
		 ORDER BY day DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.TotalPrompt, &u.TotalCompletion, &u.TotalAttempts); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage row: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// reports how many were removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(ctx, "DELETE FROM generation_metrics WHERE timestamp < ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}
