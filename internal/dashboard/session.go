package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brentlens/brentlens/internal/logger"
	"github.com/brentlens/brentlens/internal/models"
	"github.com/brentlens/brentlens/internal/provider"
)

// Fetcher is the read surface of the analysis API consumed by a Session.
// *provider.Client satisfies it; tests substitute fakes.
type Fetcher interface {
	FetchPrices(ctx context.Context, r models.DateRange) ([]models.PricePoint, error)
	FetchChangePoints(ctx context.Context) ([]models.ChangePoint, error)
	FetchEvents(ctx context.Context, r models.DateRange) ([]models.Event, error)
	FetchAssociations(ctx context.Context, windowDays int) ([]models.Association, error)
	FetchMetrics(ctx context.Context) (*models.Metrics, error)
}

// Slice names the five independently fetched state slices.
type Slice string

const (
	SlicePrices       Slice = "prices"
	SliceChangePoints Slice = "changepoints"
	SliceEvents       Slice = "events"
	SliceAssociations Slice = "associations"
	SliceMetrics      Slice = "metrics"
)

// SliceError is a per-slice fetch failure. Failures are partial: the other
// slices still apply their results.
type SliceError struct {
	Slice Slice
	Err   error
}

func (e SliceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Slice, e.Err)
}

// RefreshResult summarizes one fetch cycle for logging and the recorder.
type RefreshResult struct {
	CycleID      string
	Generation   uint64
	StartedAt    time.Time
	Duration     time.Duration
	Stale        bool // a newer refresh superseded this one; nothing applied
	Prices       int
	ChangePoints int
	Events       int
	Associations int
	MetricsOK    bool
	Errors       []SliceError
}

// Failed reports whether the provider was unreachable for the whole cycle:
// every slice errored, and none of the errors was a well-formed empty
// response. ErrNoData means the provider answered, so it never counts
// toward total failure.
func (r RefreshResult) Failed() bool {
	if len(r.Errors) < 5 {
		return false
	}
	for _, se := range r.Errors {
		if errors.Is(se.Err, provider.ErrNoData) {
			return false
		}
	}
	return true
}

// Session owns the loaded data slices and the interaction state, and drives
// the fetch/derive cycle. All exported methods are safe for concurrent use.
//
// Prices and events are scoped by the active date range; change points,
// associations, and metrics are global datasets. The five collections do not
// share a temporal window and are replaced wholesale per fetch.
type Session struct {
	fetcher    Fetcher
	windowDays int

	mu           sync.RWMutex
	state        State
	prices       []models.PricePoint
	changePoints []models.ChangePoint
	events       []models.Event
	associations []models.Association
	metrics      *models.Metrics
	lastErrors   []SliceError

	// generation tags in-flight refreshes. A refresh only applies its
	// results while it is still the newest one issued; late responses from a
	// superseded refresh are discarded instead of overwriting fresher state.
	generation uint64
}

// NewSession creates a Session with the given initial range and association
// window. No data is loaded until the first Refresh.
func NewSession(f Fetcher, initial models.DateRange, windowDays int) *Session {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &Session{
		fetcher:    f,
		windowDays: windowDays,
		state:      NewState(initial),
	}
}

// fetched holds one refresh's results before they are applied. Each goroutine
// writes only its own slice fields; the error list is the one shared piece.
type fetched struct {
	prices       []models.PricePoint
	pricesOK     bool
	changePoints []models.ChangePoint
	cpsOK        bool
	events       []models.Event
	eventsOK     bool
	associations []models.Association
	assocsOK     bool
	metrics      *models.Metrics
	metricsOK    bool

	errMu sync.Mutex
	errs  []SliceError
}

func (f *fetched) fail(s Slice, err error) {
	f.errMu.Lock()
	defer f.errMu.Unlock()
	f.errs = append(f.errs, SliceError{Slice: s, Err: err})
}

// Refresh issues the five reads concurrently and applies whatever succeeded.
//
// Failure handling per slice: ErrNoData (well-formed, non-success status)
// and transport errors both leave the previous slice in place, but transport
// errors are additionally reported in the result. There is no all-or-nothing
// transaction across slices.
func (s *Session) Refresh(ctx context.Context) RefreshResult {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	r := s.state.Range
	s.mu.Unlock()

	result := RefreshResult{
		CycleID:    uuid.New().String(),
		Generation: gen,
		StartedAt:  time.Now(),
	}
	logger.Debug("refresh %s (gen %d): fetching range %s, window %dd", result.CycleID, gen, r, s.windowDays)

	res := &fetched{}

	// The five reads have no ordering dependency; run them concurrently and
	// await all of them. Goroutines never return an error to the group:
	// partial completion is the contract, not fail-fast.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prices, err := s.fetcher.FetchPrices(gctx, r)
		if err != nil {
			res.fail(SlicePrices, err)
			return nil
		}
		res.prices = prices
		res.pricesOK = true
		return nil
	})
	g.Go(func() error {
		cps, err := s.fetcher.FetchChangePoints(gctx)
		if err != nil {
			res.fail(SliceChangePoints, err)
			return nil
		}
		res.changePoints = cps
		res.cpsOK = true
		return nil
	})
	g.Go(func() error {
		events, err := s.fetcher.FetchEvents(gctx, r)
		if err != nil {
			res.fail(SliceEvents, err)
			return nil
		}
		res.events = events
		res.eventsOK = true
		return nil
	})
	g.Go(func() error {
		assocs, err := s.fetcher.FetchAssociations(gctx, s.windowDays)
		if err != nil {
			res.fail(SliceAssociations, err)
			return nil
		}
		res.associations = assocs
		res.assocsOK = true
		return nil
	})
	g.Go(func() error {
		metrics, err := s.fetcher.FetchMetrics(gctx)
		if err != nil {
			res.fail(SliceMetrics, err)
			return nil
		}
		res.metrics = metrics
		res.metricsOK = true
		return nil
	})
	_ = g.Wait()

	result.Duration = time.Since(result.StartedAt)
	result.Errors = res.errs

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// A newer refresh was issued while this one was in flight. Applying
		// it would overwrite fresher state with stale data.
		result.Stale = true
		logger.Warn("refresh %s (gen %d) superseded by gen %d, discarding results", result.CycleID, gen, s.generation)
		return result
	}

	if res.pricesOK {
		s.prices = res.prices
	}
	if res.cpsOK {
		s.changePoints = res.changePoints
	}
	if res.eventsOK {
		s.events = res.events
	}
	if res.assocsOK {
		s.associations = res.associations
	}
	if res.metricsOK {
		s.metrics = res.metrics
	}
	s.lastErrors = res.errs

	// The refreshed collections may no longer contain the selected event.
	s.state = s.state.ReconcileSelection(s.events)

	result.Prices = len(s.prices)
	result.ChangePoints = len(s.changePoints)
	result.Events = len(s.events)
	result.Associations = len(s.associations)
	result.MetricsOK = s.metrics != nil

	for _, se := range res.errs {
		if errors.Is(se.Err, provider.ErrNoData) {
			logger.Info("refresh %s: slice %s returned no data, keeping previous", result.CycleID, se.Slice)
		} else {
			logger.Error("refresh %s: slice %s failed: %v", result.CycleID, se.Slice, se.Err)
		}
	}
	logger.Info("refresh %s applied: %d prices, %d change points, %d events, %d associations in %v",
		result.CycleID, result.Prices, result.ChangePoints, result.Events, result.Associations, result.Duration)

	return result
}

// SetRange transitions the active date range and refetches everything.
// A selection falling outside the new range is cleared before the fetch.
func (s *Session) SetRange(ctx context.Context, r models.DateRange) (RefreshResult, error) {
	if err := r.Validate(); err != nil {
		return RefreshResult{}, err
	}
	s.mu.Lock()
	s.state = s.state.SetRange(r)
	s.mu.Unlock()
	return s.Refresh(ctx), nil
}

// SelectEvent selects the event identified by date and name. The event must
// be present in the loaded collection; selections never reference entities
// the views cannot display.
func (s *Session) SelectEvent(date models.Date, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.Date.Equal(date) && e.Name == name {
			s.state = s.state.SelectEvent(e)
			return nil
		}
	}
	return fmt.Errorf("no loaded event %q on %s", name, date)
}

// ClearSelection resets the selection to none.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ClearSelection()
}

// View is everything the presentation adapters need, derived fresh from the
// current slices and state on every call. Nothing derived is cached across
// state transitions.
type View struct {
	State        State
	Rows         []Row
	Groups       []DecadeGroup
	ChangePoints []models.ChangePoint
	Metrics      *models.Metrics
	Errors       []SliceError
}

// View derives the current view model.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	annotated := Annotate(s.events, s.associations)
	return View{
		State:        s.state,
		Rows:         BuildRows(s.prices, s.events, s.state.Selection),
		Groups:       GroupByDecade(annotated),
		ChangePoints: s.changePoints,
		Metrics:      s.metrics,
		Errors:       s.lastErrors,
	}
}

// State returns a copy of the current interaction state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
