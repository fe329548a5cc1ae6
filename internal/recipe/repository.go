package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one generated recipe with its persistence metadata.
type HistoryEntry struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Recipe    Recipe
}

// Repository is a database-backed history of generated recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save stores a generated recipe and returns its assigned ID.
func (r *Repository) Save(ctx context.Context, rec Recipe) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO recipes (id, title, data, created_at) VALUES (?, ?, ?, ?)",
		id, rec.Title, string(data), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert recipe: %w", err)
	}
	return id, nil
}

// Get retrieves a recipe by its ID. Returns nil when not found.
func (r *Repository) Get(ctx context.Context, id string) (*HistoryEntry, error) {
	var entry HistoryEntry
	var data string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, data, created_at FROM recipes WHERE id = ?", id,
	).Scan(&entry.ID, &entry.Title, &data, &entry.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &entry.Recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &entry, nil
}

// List retrieves the most recently generated recipes, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, data, created_at FROM recipes ORDER BY created_at DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var data string
		if err := rows.Scan(&entry.ID, &entry.Title, &data, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &entry.Recipe); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe JSON for ID %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
