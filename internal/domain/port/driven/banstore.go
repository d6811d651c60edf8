package driven

import (
	"context"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

// BanStore defines the driven port for the ban list.
// Add and Remove are idempotent and report whether the stored set changed.
type BanStore interface {
	Add(ctx context.Context, term string) (bool, error)
	Remove(ctx context.Context, term string) (bool, error)
	Contains(ctx context.Context, term string) (bool, error)
	ListAll(ctx context.Context) ([]model.BannedTerm, error)
}
