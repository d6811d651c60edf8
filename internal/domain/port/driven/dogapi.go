package driven

import (
	"context"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

// DogAPI defines the driven port for the external random dog image source.
type DogAPI interface {
	// FetchRandomImage requests one random dog image. A non-success upstream
	// status is returned as data, not as an error; errors are transport or
	// decoding faults.
	FetchRandomImage(ctx context.Context) (model.RandomImage, error)
	// FetchBreeds returns every breed known to the upstream catalog.
	FetchBreeds(ctx context.Context) ([]model.Breed, error)
}
