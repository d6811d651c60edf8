package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BanStore = (*BanRepo)(nil)

// BanRepo is the Redis implementation of the BanStore port interface.
// Terms live in a sorted set scored by an insertion sequence; add times live
// in a hash keyed by term.
type BanRepo struct {
	store *Store
	now   func() time.Time
}

// NewBanRepo creates a new BanRepo backed by the given Store.
func NewBanRepo(store *Store) *BanRepo {
	return &BanRepo{store: store, now: time.Now}
}

func (r *BanRepo) termsKey() string { return r.store.key("bans") }
func (r *BanRepo) addedKey() string { return r.store.key("bans:added") }
func (r *BanRepo) seqKey() string   { return r.store.key("bans:seq") }

// Add inserts term if absent and reports whether it was inserted.
func (r *BanRepo) Add(ctx context.Context, term string) (bool, error) {
	seq, err := r.store.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return false, fmt.Errorf("next ban sequence: %w", err)
	}

	added, err := r.store.client.ZAddNX(ctx, r.termsKey(), backend.Z{Score: float64(seq), Member: term}).Result()
	if err != nil {
		return false, fmt.Errorf("add ban %q: %w", term, err)
	}
	if added == 0 {
		return false, nil
	}

	stamp := r.now().UTC().Format(time.RFC3339Nano)
	if err := r.store.client.HSet(ctx, r.addedKey(), term, stamp).Err(); err != nil {
		return true, fmt.Errorf("record ban time %q: %w", term, err)
	}

	return true, nil
}

// Remove deletes term and reports whether it was present.
func (r *BanRepo) Remove(ctx context.Context, term string) (bool, error) {
	pipe := r.store.client.TxPipeline()
	removed := pipe.ZRem(ctx, r.termsKey(), term)
	pipe.HDel(ctx, r.addedKey(), term)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("remove ban %q: %w", term, err)
	}

	return removed.Val() > 0, nil
}

// Contains reports whether term is banned (case-sensitive, exact).
func (r *BanRepo) Contains(ctx context.Context, term string) (bool, error) {
	err := r.store.client.ZScore(ctx, r.termsKey(), term).Err()
	if errors.Is(err, backend.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check ban %q: %w", term, err)
	}
	return true, nil
}

// ListAll returns all banned terms in insertion order.
func (r *BanRepo) ListAll(ctx context.Context) ([]model.BannedTerm, error) {
	members, err := r.store.client.ZRangeWithScores(ctx, r.termsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}

	terms := make([]model.BannedTerm, 0, len(members))
	if len(members) == 0 {
		return terms, nil
	}

	names := make([]string, len(members))
	for i, m := range members {
		names[i] = fmt.Sprint(m.Member)
	}

	stamps, err := r.store.client.HMGet(ctx, r.addedKey(), names...).Result()
	if err != nil {
		return nil, fmt.Errorf("list ban times: %w", err)
	}

	for i, m := range members {
		item := model.BannedTerm{ID: int64(m.Score), Term: names[i]}
		if s, ok := stamps[i].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				item.AddedAt = t
			}
		}
		terms = append(terms, item)
	}

	return terms, nil
}
