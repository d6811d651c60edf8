package application_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

// --- Mock implementations ---

type mockDogAPI struct {
	mu          sync.Mutex
	calls       int
	fetch       func(ctx context.Context, call int) (model.RandomImage, error)
	breeds      []model.Breed
	breedsErr   error
	breedsCalls int
}

func (m *mockDogAPI) FetchRandomImage(ctx context.Context) (model.RandomImage, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	return m.fetch(ctx, call)
}

func (m *mockDogAPI) FetchBreeds(_ context.Context) ([]model.Breed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breedsCalls++
	if m.breedsErr != nil {
		return nil, m.breedsErr
	}
	out := make([]model.Breed, len(m.breeds))
	copy(out, m.breeds)
	return out, nil
}

func (m *mockDogAPI) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockBanStore struct {
	mu      sync.Mutex
	list    model.BanList
	listErr error
	// onAdd runs after a term is committed, before Add returns.
	onAdd func(term string)
}

func newMockBanStore(terms ...string) *mockBanStore {
	return &mockBanStore{list: model.NewBanList(terms...)}
}

func (m *mockBanStore) Add(_ context.Context, term string) (bool, error) {
	m.mu.Lock()
	changed := m.list.Add(term)
	hook := m.onAdd
	m.mu.Unlock()

	if hook != nil {
		hook(term)
	}
	return changed, nil
}

func (m *mockBanStore) Remove(_ context.Context, term string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list.Remove(term), nil
}

func (m *mockBanStore) Contains(_ context.Context, term string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list.Contains(term), nil
}

func (m *mockBanStore) ListAll(_ context.Context) ([]model.BannedTerm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.BannedTerm
	for i, t := range m.list.Terms() {
		out = append(out, model.BannedTerm{ID: int64(i + 1), Term: t})
	}
	return out, nil
}

type mockHistoryStore struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
}

func (m *mockHistoryStore) Append(_ context.Context, entry model.HistoryEntry) (model.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append([]model.HistoryEntry{entry}, m.entries...)
	return entry, nil
}

func (m *mockHistoryStore) ListRecent(_ context.Context, limit int) ([]model.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.entries
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return append([]model.HistoryEntry(nil), out...), nil
}

func (m *mockHistoryStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []model.AttemptOutcome
	runs     []bool
}

func (o *recordingObserver) ObserveAttempt(outcome model.AttemptOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveDiscovery(found bool, _ int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, found)
}

var errTransport = errors.New("connection refused")

// --- Response helpers ---

func dogImage(slug string) model.RandomImage {
	return model.RandomImage{
		Status:   model.StatusSuccess,
		ImageURL: "https://images.dog.ceo/breeds/" + slug + "/img.jpg",
	}
}

// sequence returns a fetch func that replays breeds by call number and keeps
// returning the last one after the sequence ends.
func sequence(slugs ...string) func(context.Context, int) (model.RandomImage, error) {
	return func(_ context.Context, call int) (model.RandomImage, error) {
		i := call - 1
		if i >= len(slugs) {
			i = len(slugs) - 1
		}
		return dogImage(slugs[i]), nil
	}
}
