package driven

import (
	"context"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

// HistoryStore defines the driven port for the append-only discovery history.
type HistoryStore interface {
	Append(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error)
	// ListRecent returns entries newest first. limit <= 0 returns all entries.
	ListRecent(ctx context.Context, limit int) ([]model.HistoryEntry, error)
	Count(ctx context.Context) (int, error)
}
