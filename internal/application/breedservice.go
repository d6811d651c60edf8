package application

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/arbovm/levenshtein"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/port/driven"
)

// DefaultBreedCacheTTL is how long a fetched breed catalog is reused.
const DefaultBreedCacheTTL = time.Hour

// maxSuggestDistance is the largest edit distance at which a catalog label is
// offered as a correction for a ban term.
const maxSuggestDistance = 3

// BreedService serves the upstream breed catalog annotated with ban status,
// so breeds can be banned before they are ever shown.
type BreedService struct {
	api      driven.DogAPI
	banStore driven.BanStore
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	cached    []model.Breed
	fetchedAt time.Time
}

// NewBreedService creates a BreedService. ttl <= 0 falls back to DefaultBreedCacheTTL.
func NewBreedService(api driven.DogAPI, banStore driven.BanStore, ttl time.Duration) *BreedService {
	if ttl <= 0 {
		ttl = DefaultBreedCacheTTL
	}
	return &BreedService{
		api:      api,
		banStore: banStore,
		ttl:      ttl,
		now:      time.Now,
	}
}

// ListBreeds returns every catalog breed sorted by label, each flagged with
// whether its label is currently banned.
func (s *BreedService) ListBreeds(ctx context.Context) ([]model.Breed, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	terms, err := s.banStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	bans := banListFrom(terms)

	out := make([]model.Breed, len(catalog))
	for i, b := range catalog {
		b.Banned = bans.Contains(b.Label)
		out[i] = b
	}
	return out, nil
}

// Suggest returns the catalog label closest to term when term is not itself a
// breed label or fixed attribute, so a misspelled ban can be corrected. It
// returns "" when term already matches exactly or nothing is close enough.
func (s *BreedService) Suggest(ctx context.Context, term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" || slices.Contains(model.FixedAttributes(), term) {
		return "", nil
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return "", err
	}

	needle := strings.ToLower(term)
	best, bestDist := "", maxSuggestDistance+1
	for _, b := range catalog {
		if b.Label == term {
			return "", nil
		}
		if d := levenshtein.Distance(needle, strings.ToLower(b.Label)); d < bestDist {
			best, bestDist = b.Label, d
		}
	}
	return best, nil
}

// catalog returns the memoized breed list, refetching once the TTL has passed.
func (s *BreedService) catalog(ctx context.Context) ([]model.Breed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.cached, nil
	}

	breeds, err := s.api.FetchBreeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch breeds: %w", err)
	}

	slices.SortFunc(breeds, func(a, b model.Breed) int {
		return strings.Compare(a.Label, b.Label)
	})

	s.cached = breeds
	s.fetchedAt = s.now()
	return s.cached, nil
}
