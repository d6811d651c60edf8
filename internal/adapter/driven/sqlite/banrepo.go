package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BanStore = (*BanRepo)(nil)

// BanRepo is the SQLite implementation of the BanStore port interface.
type BanRepo struct {
	db *DB
}

// NewBanRepo creates a new BanRepo backed by the given DB.
func NewBanRepo(db *DB) *BanRepo {
	return &BanRepo{db: db}
}

// Add bans a term. Idempotent: an already-banned term is left untouched and
// reported as unchanged.
func (r *BanRepo) Add(ctx context.Context, term string) (bool, error) {
	const query = `INSERT OR IGNORE INTO banned_terms (term) VALUES (?)`

	result, err := r.db.Writer.ExecContext(ctx, query, term)
	if err != nil {
		return false, fmt.Errorf("ban term %q: %w", term, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}

	return rows > 0, nil
}

// Remove unbans a term. No-op if the term is not banned.
func (r *BanRepo) Remove(ctx context.Context, term string) (bool, error) {
	const query = `DELETE FROM banned_terms WHERE term = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, term)
	if err != nil {
		return false, fmt.Errorf("unban term %q: %w", term, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}

	return rows > 0, nil
}

// Contains reports whether the exact term is banned. Matching is case-sensitive.
func (r *BanRepo) Contains(ctx context.Context, term string) (bool, error) {
	const query = `SELECT COUNT(*) FROM banned_terms WHERE term = ?`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query, term).Scan(&count); err != nil {
		return false, fmt.Errorf("check banned term %q: %w", term, err)
	}
	return count > 0, nil
}

// ListAll returns all banned terms in insertion order.
func (r *BanRepo) ListAll(ctx context.Context) ([]model.BannedTerm, error) {
	const query = `SELECT id, term, added_at FROM banned_terms ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list banned terms: %w", err)
	}
	defer rows.Close()

	var terms []model.BannedTerm
	for rows.Next() {
		var item model.BannedTerm
		var addedAt string
		if err := rows.Scan(&item.ID, &item.Term, &addedAt); err != nil {
			return nil, fmt.Errorf("scan banned term: %w", err)
		}
		item.AddedAt, err = parseTime(addedAt)
		if err != nil {
			return nil, fmt.Errorf("parse added_at for %q: %w", item.Term, err)
		}
		terms = append(terms, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banned terms: %w", err)
	}

	if terms == nil {
		terms = []model.BannedTerm{}
	}
	return terms, nil
}
