package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HistoryStore = (*HistoryRepo)(nil)

// HistoryRepo is the Redis implementation of the HistoryStore port interface.
// Entries are JSON documents pushed onto the head of a list, so the list is
// always newest first.
type HistoryRepo struct {
	store *Store
}

// NewHistoryRepo creates a new HistoryRepo backed by the given Store.
func NewHistoryRepo(store *Store) *HistoryRepo {
	return &HistoryRepo{store: store}
}

type historyDoc struct {
	ID       int64     `json:"id"`
	ImageURL string    `json:"image_url"`
	Breed    string    `json:"breed"`
	SeenAt   time.Time `json:"seen_at"`
}

func (r *HistoryRepo) listKey() string { return r.store.key("history") }
func (r *HistoryRepo) seqKey() string  { return r.store.key("history:seq") }

// Append records a seen dog and returns the entry with its assigned ID.
// A zero SeenAt is stamped with the current time.
func (r *HistoryRepo) Append(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error) {
	if entry.SeenAt.IsZero() {
		entry.SeenAt = time.Now()
	}
	entry.SeenAt = entry.SeenAt.UTC()

	id, err := r.store.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("next history id: %w", err)
	}
	entry.ID = id

	data, err := json.Marshal(historyDoc{
		ID:       entry.ID,
		ImageURL: entry.Dog.ImageURL,
		Breed:    entry.Dog.Breed,
		SeenAt:   entry.SeenAt,
	})
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("marshal history entry: %w", err)
	}

	if err := r.store.client.LPush(ctx, r.listKey(), data).Err(); err != nil {
		return model.HistoryEntry{}, fmt.Errorf("append history %q: %w", entry.Dog.Breed, err)
	}

	return entry, nil
}

// ListRecent returns entries newest first. limit <= 0 returns all entries.
func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := r.store.client.LRange(ctx, r.listKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]model.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var doc historyDoc
		if err := json.Unmarshal([]byte(item), &doc); err != nil {
			return nil, fmt.Errorf("unmarshal history entry: %w", err)
		}
		entries = append(entries, model.HistoryEntry{
			ID:     doc.ID,
			Dog:    model.DogResult{ImageURL: doc.ImageURL, Breed: doc.Breed},
			SeenAt: doc.SeenAt,
		})
	}

	return entries, nil
}

// Count returns the number of history entries.
func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	n, err := r.store.client.LLen(ctx, r.listKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return int(n), nil
}
