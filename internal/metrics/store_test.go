package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"herbal-infusion-ai/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("RecordAndDailyUsage", func(t *testing.T) {
		metrics := []GenerationMetric{
			{Model: "gemini", PromptTokens: 100, CompletionTokens: 200, LatencyMS: 1500, Outcome: "success"},
			{Model: "gemini", PromptTokens: 50, CompletionTokens: 0, LatencyMS: 300, Outcome: "quota_exceeded"},
		}
		for _, m := range metrics {
			if err := store.Record(ctx, m); err != nil {
				t.Fatalf("Failed to record metric: %v", err)
			}
		}

		usage, err := store.GetDailyUsage(ctx, 7)
		if err != nil {
			t.Fatalf("Failed to get daily usage: %v", err)
		}
		if len(usage) != 1 {
			t.Fatalf("Expected 1 day of usage, got %d", len(usage))
		}
		if usage[0].TotalAttempts != 2 {
			t.Errorf("Expected 2 attempts, got %d", usage[0].TotalAttempts)
		}
		if usage[0].TotalPrompt != 150 {
			t.Errorf("Expected 150 prompt tokens, got %d", usage[0].TotalPrompt)
		}
		if usage[0].TotalCompletion != 200 {
			t.Errorf("Expected 200 completion tokens, got %d", usage[0].TotalCompletion)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		old := GenerationMetric{
			Model:     "gemini",
			Outcome:   "success",
			Timestamp: time.Now().UTC().AddDate(0, 0, -60),
		}
		if err := store.Record(ctx, old); err != nil {
			t.Fatalf("Failed to record old metric: %v", err)
		}

		affected, err := store.Cleanup(ctx, 30)
		if err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}
		if affected != 1 {
			t.Errorf("Expected 1 removed record, got %d", affected)
		}

		usage, err := store.GetDailyUsage(ctx, 90)
		if err != nil {
			t.Fatalf("Failed to get daily usage: %v", err)
		}
		if len(usage) != 1 {
			t.Errorf("Expected only today's usage to remain, got %d days", len(usage))
		}
	})
}
