package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/port/driven"
)

// ErrEmptyTerm is returned when a ban-list term is empty after trimming.
var ErrEmptyTerm = errors.New("ban term must not be empty")

// runResult is the outcome of one discovery run tagged with its generation.
type runResult struct {
	gen      uint64
	dog      model.DogResult
	attempts int
	err      error
}

// trigger asks the owner goroutine for a new discovery. A non-nil mutate runs
// first on the owner goroutine; the discovery only starts when it reports a
// change.
type trigger struct {
	mutate func() (bool, error)
	reply  chan triggerReply
}

type triggerReply struct {
	changed bool
	err     error
}

// waiter is a caller blocked until the current run settles.
type waiter struct {
	changed bool
	reply   chan triggerReply
}

// SessionService owns the session state: display state, ban list and history.
// All state transitions happen on the goroutine running Start. Every trigger
// cancels the in-flight run and starts a new one; results from superseded runs
// are discarded. Ban-list changes are applied on the same goroutine, so a run
// started before a change can never settle after it.
type SessionService struct {
	discoverer *Discoverer
	banStore   driven.BanStore
	history    driven.HistoryStore
	triggerCh  chan trigger
	now        func() time.Time

	mu          sync.RWMutex
	state       model.DiscoveryState
	subscribers map[chan model.DiscoveryState]struct{}
}

// NewSessionService creates a new SessionService with all required dependencies.
func NewSessionService(discoverer *Discoverer, banStore driven.BanStore, history driven.HistoryStore) *SessionService {
	return &SessionService{
		discoverer:  discoverer,
		banStore:    banStore,
		history:     history,
		triggerCh:   make(chan trigger),
		now:         time.Now,
		state:       model.DiscoveryState{Status: model.DiscoveryIdle},
		subscribers: make(map[chan model.DiscoveryState]struct{}),
	}
}

// Start runs an initial discovery, then serves discovery triggers until the
// context is canceled. Start blocks.
func (s *SessionService) Start(ctx context.Context) {
	slog.Info("session started", "max_attempts", s.discoverer.MaxAttempts())

	results := make(chan runResult)

	var (
		gen       uint64
		running   bool
		cancelRun context.CancelFunc = func() {}
		waiters   []waiter
	)

	launch := func() {
		if running {
			slog.Debug("discovery superseded", "generation", gen)
		}
		cancelRun()
		gen++

		var runCtx context.Context
		runCtx, cancelRun = context.WithCancel(ctx)
		running = true

		s.setState(model.DiscoveryState{Status: model.DiscoveryLoading, UpdatedAt: s.now()})
		go s.run(runCtx, gen, results)
	}

	launch()

	for {
		select {
		case <-ctx.Done():
			cancelRun()
			for _, w := range waiters {
				w.reply <- triggerReply{changed: w.changed, err: ctx.Err()}
			}
			slog.Info("session stopped")
			return
		case t := <-s.triggerCh:
			changed := true
			if t.mutate != nil {
				var err error
				changed, err = t.mutate()
				if err != nil || !changed {
					t.reply <- triggerReply{changed: changed, err: err}
					continue
				}
			}
			waiters = append(waiters, waiter{changed: changed, reply: t.reply})
			launch()
		case res := <-results:
			if res.gen != gen {
				continue
			}
			cancelRun()
			running = false

			err := s.settle(ctx, res)
			for _, w := range waiters {
				w.reply <- triggerReply{changed: w.changed, err: err}
			}
			waiters = nil
		}
	}
}

// run executes one discovery against a snapshot of the ban list taken when the
// run begins.
func (s *SessionService) run(ctx context.Context, gen uint64, results chan<- runResult) {
	res := runResult{gen: gen}

	bans, err := s.BanList(ctx)
	if err != nil {
		res.err = err
	} else {
		res.dog, res.attempts, res.err = s.discoverer.Discover(ctx, bans)
	}

	select {
	case results <- res:
	case <-ctx.Done():
	}
}

// settle publishes the outcome of the current run. Accepted dogs are recorded
// in history; anything else clears the display.
func (s *SessionService) settle(ctx context.Context, res runResult) error {
	now := s.now()

	if res.err != nil {
		s.setState(model.DiscoveryState{
			Status:    model.DiscoveryFailed,
			Attempts:  res.attempts,
			UpdatedAt: now,
		})

		if errors.Is(res.err, ErrNotFound) {
			slog.Info("no acceptable dog found", "attempts", res.attempts)
			return ErrNotFound
		}
		slog.Error("discovery failed", "error", res.err)
		return res.err
	}

	dog := res.dog
	if _, err := s.history.Append(ctx, model.HistoryEntry{Dog: dog, SeenAt: now}); err != nil {
		slog.Error("failed to record history", "breed", dog.Breed, "error", err)
	}

	s.setState(model.DiscoveryState{
		Status:    model.DiscoverySucceeded,
		Result:    &dog,
		Attempts:  res.attempts,
		UpdatedAt: now,
	})
	slog.Info("dog discovered", "breed", dog.Breed, "attempts", res.attempts)

	return nil
}

// Discover triggers a new discovery, canceling any run in flight, and blocks
// until the latest run settles. It returns ErrNotFound when no acceptable dog
// was found within the attempt budget.
func (s *SessionService) Discover(ctx context.Context) error {
	_, err := s.submit(ctx, nil)
	return err
}

// AddBan adds term to the ban list. When the list changes, a new discovery is
// triggered and awaited. It reports whether the list changed.
func (s *SessionService) AddBan(ctx context.Context, term string) (bool, error) {
	term, err := normalizeTerm(term)
	if err != nil {
		return false, err
	}

	return s.mutateBans(ctx, func() (bool, error) {
		changed, err := s.banStore.Add(ctx, term)
		if err != nil {
			return false, fmt.Errorf("add ban %q: %w", term, err)
		}
		if changed {
			slog.Info("term banned", "term", term)
		}
		return changed, nil
	})
}

// RemoveBan removes term from the ban list. When the list changes, a new
// discovery is triggered and awaited. It reports whether the list changed.
func (s *SessionService) RemoveBan(ctx context.Context, term string) (bool, error) {
	term, err := normalizeTerm(term)
	if err != nil {
		return false, err
	}

	return s.mutateBans(ctx, func() (bool, error) {
		changed, err := s.banStore.Remove(ctx, term)
		if err != nil {
			return false, fmt.Errorf("remove ban %q: %w", term, err)
		}
		if changed {
			slog.Info("term unbanned", "term", term)
		}
		return changed, nil
	})
}

// mutateBans applies a ban-list change and awaits the discovery it triggers.
// Not finding a dog is a normal outcome of a ban change, not an error of the
// mutation.
func (s *SessionService) mutateBans(ctx context.Context, mutate func() (bool, error)) (bool, error) {
	changed, err := s.submit(ctx, mutate)
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	return changed, err
}

// submit hands a trigger to the owner goroutine and waits for its reply.
func (s *SessionService) submit(ctx context.Context, mutate func() (bool, error)) (bool, error) {
	t := trigger{mutate: mutate, reply: make(chan triggerReply, 1)}

	select {
	case s.triggerCh <- t:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case r := <-t.reply:
		return r.changed, r.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// IsBanned reports whether term is on the ban list (case-sensitive, exact).
func (s *SessionService) IsBanned(ctx context.Context, term string) (bool, error) {
	return s.banStore.Contains(ctx, term)
}

// Bans returns the ban list entries in insertion order.
func (s *SessionService) Bans(ctx context.Context) ([]model.BannedTerm, error) {
	terms, err := s.banStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	if terms == nil {
		terms = []model.BannedTerm{}
	}
	return terms, nil
}

// BanList returns a snapshot of the ban list as a set.
func (s *SessionService) BanList(ctx context.Context) (model.BanList, error) {
	terms, err := s.Bans(ctx)
	if err != nil {
		return model.BanList{}, err
	}
	return banListFrom(terms), nil
}

// History returns seen dogs newest first. limit <= 0 returns all entries.
func (s *SessionService) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	entries, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}

// State returns a snapshot of the current display state.
func (s *SessionService) State() model.DiscoveryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns a channel that receives the current state immediately and
// every state change afterwards. Slow subscribers only see the latest state.
// The returned func unsubscribes; it is safe to call more than once.
func (s *SessionService) Subscribe() (<-chan model.DiscoveryState, func()) {
	ch := make(chan model.DiscoveryState, 1)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.state
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			s.mu.Unlock()
		})
	}
}

func (s *SessionService) setState(state model.DiscoveryState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	for ch := range s.subscribers {
		publishLatest(ch, state)
	}
}

// publishLatest delivers state to a buffered channel of size one, replacing
// any value the subscriber has not consumed yet.
func publishLatest(ch chan model.DiscoveryState, state model.DiscoveryState) {
	select {
	case ch <- state:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- state:
	default:
	}
}

func normalizeTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", ErrEmptyTerm
	}
	return term, nil
}

func banListFrom(terms []model.BannedTerm) model.BanList {
	var bans model.BanList
	for _, t := range terms {
		bans.Add(t.Term)
	}
	return bans
}
