// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/port/driven"
)

// DefaultMaxAttempts is the attempt budget of a single discovery run.
const DefaultMaxAttempts = 15

// ErrNotFound is returned when the attempt budget is exhausted without an
// acceptable dog. It covers upstream outages and fully banned results alike.
var ErrNotFound = errors.New("no acceptable dog found")

// DiscoveryObserver receives attempt and run outcomes, e.g. for metrics.
type DiscoveryObserver interface {
	ObserveAttempt(outcome model.AttemptOutcome)
	ObserveDiscovery(found bool, attempts int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAttempt(model.AttemptOutcome) {}
func (nopObserver) ObserveDiscovery(bool, int, time.Duration) {}

// Discoverer runs the bounded fetch-filter-retry loop against the dog API.
type Discoverer struct {
	api         driven.DogAPI
	maxAttempts int
	observer    DiscoveryObserver
}

// NewDiscoverer creates a Discoverer. maxAttempts <= 0 falls back to
// DefaultMaxAttempts; a nil observer disables observation.
func NewDiscoverer(api driven.DogAPI, maxAttempts int, observer DiscoveryObserver) *Discoverer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Discoverer{
		api:         api,
		maxAttempts: maxAttempts,
		observer:    observer,
	}
}

// MaxAttempts returns the attempt budget.
func (d *Discoverer) MaxAttempts() int {
	return d.maxAttempts
}

// Discover returns the first candidate whose breed and fixed attributes are
// not in bans, along with the number of attempts consumed. Attempts are strictly
// sequential. Transport faults, malformed bodies and non-success statuses each
// consume one attempt silently. Cancelling ctx aborts the run with ctx.Err().
func (d *Discoverer) Discover(ctx context.Context, bans model.BanList) (model.DogResult, int, error) {
	start := time.Now()

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return model.DogResult{}, attempt - 1, err
		}

		img, err := d.api.FetchRandomImage(ctx)
		if err != nil {
			d.observer.ObserveAttempt(model.AttemptTransportError)
			continue
		}

		if !img.OK() {
			d.observer.ObserveAttempt(model.AttemptBadStatus)
			continue
		}

		breed := model.BreedFromURL(img.ImageURL)
		if bans.Rejects(breed) {
			d.observer.ObserveAttempt(model.AttemptBanned)
			continue
		}

		d.observer.ObserveAttempt(model.AttemptAccepted)
		d.observer.ObserveDiscovery(true, attempt, time.Since(start))
		return model.DogResult{ImageURL: img.ImageURL, Breed: breed}, attempt, nil
	}

	if err := ctx.Err(); err != nil {
		return model.DogResult{}, d.maxAttempts, err
	}

	d.observer.ObserveDiscovery(false, d.maxAttempts, time.Since(start))
	return model.DogResult{}, d.maxAttempts, ErrNotFound
}
