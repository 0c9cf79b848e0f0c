package listing

import (
	"context"
	"sync"
	"time"

	"github.com/joramcars/dealership-web/pkg/logger"
	"github.com/joramcars/dealership-web/pkg/metrics"
)

// Location is the address bar of the listing page.
type Location interface {
	Query() string
	// ReplaceQuery swaps the query of the current entry without adding history.
	ReplaceQuery(rawQuery string)
}

// View is what the listing page renders.
type View struct {
	State   FilterState
	Query   string
	Result  Result
	Loaded  bool
	Loading bool
	// Err is the recoverable "could not load" state; Result keeps the last good data.
	Err error
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

func WithLogger(logg *logger.Logger) Option {
	return func(s *Synchronizer) { s.logg = logg }
}

func WithMetrics(m *metrics.ListingMetrics) Option {
	return func(s *Synchronizer) { s.metrics = m }
}

// WithoutInitialFetch mounts from the location without loading it. Used when
// the caller is about to apply an edit whose fetch supersedes the mount's.
func WithoutInitialFetch() Option {
	return func(s *Synchronizer) { s.skipMountFetch = true }
}

// Synchronizer keeps a FilterState, the Location query and the fetched
// listing in agreement. Every fetch is tagged with a sequence token and only
// the response to the latest token may update the view.
type Synchronizer struct {
	mu       sync.Mutex
	ctx      context.Context
	fetcher  Fetcher
	location Location
	logg     *logger.Logger
	metrics  *metrics.ListingMetrics

	skipMountFetch bool

	view   View
	issued uint64
	closed bool
	wg     sync.WaitGroup
}

// NewSynchronizer mounts the listing: it parses the location and, unless
// WithoutInitialFetch is given, issues the first fetch.
func NewSynchronizer(ctx context.Context, fetcher Fetcher, location Location, opts ...Option) *Synchronizer {
	s := &Synchronizer{ctx: ctx, fetcher: fetcher, location: location}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.State = Parse(location.Query())
	s.view.Query = Serialize(s.view.State)
	if !s.skipMountFetch {
		s.fetchLocked()
	}
	return s
}

// UpdateFilter merges a single key and refetches.
func (s *Synchronizer) UpdateFilter(key, value string) error {
	return s.UpdateFilters(map[string]string{key: value})
}

// UpdateFilters merges several keys at once (sort and order from one select)
// and refetches. Nothing changes if any key is rejected.
func (s *Synchronizer) UpdateFilters(patch map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	next := s.view.State
	for key, value := range patch {
		var err error
		if next, err = next.With(key, value); err != nil {
			return err
		}
	}
	s.applyLocked(next)
	return nil
}

// ClearFilters resets every filter, empties the query and refetches.
func (s *Synchronizer) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.applyLocked(DefaultState())
}

// Sync re-reads the location after an external navigation and refetches when
// the parsed state differs from the current one.
func (s *Synchronizer) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	parsed := Parse(s.location.Query())
	if parsed == s.view.State {
		return
	}
	s.view.State = parsed
	s.view.Query = Serialize(parsed)
	s.fetchLocked()
}

// View returns a snapshot of the current view.
func (s *Synchronizer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.view
	view.Result.Items = append(view.Result.Items[:0:0], s.view.Result.Items...)
	return view
}

// Wait blocks until every issued fetch has resolved.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

// Close unmounts the synchronizer; responses that arrive afterwards are dropped.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Synchronizer) applyLocked(next FilterState) {
	s.view.State = next
	s.view.Query = Serialize(next)
	s.location.ReplaceQuery(s.view.Query)
	s.fetchLocked()
}

func (s *Synchronizer) fetchLocked() {
	s.issued++
	token := s.issued
	state := s.view.State
	s.view.Loading = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		started := time.Now()
		result, err := LoadVehicles(s.ctx, s.fetcher, state)
		s.resolve(token, started, result, err)
	}()
}

func (s *Synchronizer) resolve(token uint64, started time.Time, result Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	took := time.Since(started)
	if s.closed {
		return
	}
	if token != s.issued {
		s.metrics.ObserveFetch(metrics.OutcomeStale, took)
		return
	}

	s.view.Loading = false
	if err != nil {
		s.view.Err = err
		s.metrics.ObserveFetch(metrics.OutcomeError, took)
		if s.logg != nil {
			ctx := s.logg.WithField(s.ctx, "query", s.view.Query)
			s.logg.Error(ctx, "listing fetch failed", err)
		}
		return
	}

	s.view.Result = result
	s.view.Loaded = true
	s.view.Err = nil
	s.metrics.ObserveFetch(metrics.OutcomeOK, took)
}
