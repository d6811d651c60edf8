package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HistoryStore = (*HistoryRepo)(nil)

// HistoryRepo is the SQLite implementation of the HistoryStore port interface.
// Rows are only ever inserted.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new HistoryRepo backed by the given DB.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Append records a seen dog and returns the entry with its assigned ID.
// A zero SeenAt is stamped with the current time.
func (r *HistoryRepo) Append(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error) {
	const query = `INSERT INTO history_entries (image_url, breed, seen_at) VALUES (?, ?, ?)`

	if entry.SeenAt.IsZero() {
		entry.SeenAt = time.Now()
	}
	entry.SeenAt = entry.SeenAt.UTC()

	result, err := r.db.Writer.ExecContext(ctx, query, entry.Dog.ImageURL, entry.Dog.Breed, formatTime(entry.SeenAt))
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("append history %q: %w", entry.Dog.Breed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("read history id: %w", err)
	}
	entry.ID = id

	return entry, nil
}

// ListRecent returns entries newest first. limit <= 0 returns all entries.
func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	const query = `SELECT id, image_url, breed, seen_at FROM history_entries ORDER BY id DESC LIMIT ?`

	// SQLite treats a negative LIMIT as no limit.
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var seenAt string
		if err := rows.Scan(&entry.ID, &entry.Dog.ImageURL, &entry.Dog.Breed, &seenAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.SeenAt, err = parseTime(seenAt)
		if err != nil {
			return nil, fmt.Errorf("parse seen_at for entry %d: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}

// Count returns the number of recorded entries.
func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM history_entries`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}
