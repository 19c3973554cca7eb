package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/brentlens/brentlens/internal/models"
	"github.com/brentlens/brentlens/internal/provider"
)

// fakeFetcher serves canned slices and can fail or block individual fetches.
type fakeFetcher struct {
	mu sync.Mutex

	prices       []models.PricePoint
	changePoints []models.ChangePoint
	events       []models.Event
	associations []models.Association
	metrics      *models.Metrics

	pricesErr  error
	cpsErr     error
	eventsErr  error
	assocsErr  error
	metricsErr error

	priceCalls  int
	priceGate   chan struct{} // when set, the first FetchPrices call blocks on it
	gatedPrices []models.PricePoint
}

func (f *fakeFetcher) FetchPrices(ctx context.Context, r models.DateRange) ([]models.PricePoint, error) {
	f.mu.Lock()
	f.priceCalls++
	call := f.priceCalls
	gate := f.priceGate
	gated := f.gatedPrices
	prices := f.prices
	err := f.pricesErr
	f.mu.Unlock()

	if gate != nil && call == 1 {
		select {
		case <-gate:
		case <-time.After(5 * time.Second):
			return nil, fmt.Errorf("gate never released")
		}
		return gated, nil
	}
	return prices, err
}

func (f *fakeFetcher) FetchChangePoints(ctx context.Context) ([]models.ChangePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.changePoints, f.cpsErr
}

func (f *fakeFetcher) FetchEvents(ctx context.Context, r models.DateRange) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events, f.eventsErr
}

func (f *fakeFetcher) FetchAssociations(ctx context.Context, windowDays int) ([]models.Association, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.associations, f.assocsErr
}

func (f *fakeFetcher) FetchMetrics(ctx context.Context) (*models.Metrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metrics, f.metricsErr
}

func (f *fakeFetcher) set(fn func(*fakeFetcher)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func baselineFetcher() *fakeFetcher {
	mean := 48.2
	return &fakeFetcher{
		prices: []models.PricePoint{
			pricePoint("2020-03-01", 45.0),
			pricePoint("2020-03-15", 20.0),
		},
		changePoints: []models.ChangePoint{
			{Date: models.MustParseDate("2020-03-08"), ImpactPct: -0.18, Confidence: 0.98},
		},
		events: []models.Event{event("2020-03-15", "Oil Price War")},
		associations: []models.Association{
			association("2020-03-08", "2020-03-15"),
		},
		metrics: &models.Metrics{
			PriceStatistics: &models.PriceStatistics{Mean: &mean},
		},
	}
}

func TestSessionRefreshPopulatesView(t *testing.T) {
	s := NewSession(baselineFetcher(), dateRange("2020-01-01", "2020-12-31"), 30)

	result := s.Refresh(context.Background())
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected fetch errors: %v", result.Errors)
	}
	if result.Stale {
		t.Fatal("only refresh in flight should not be stale")
	}
	if result.Prices != 2 || result.Events != 1 || result.ChangePoints != 1 || result.Associations != 1 {
		t.Errorf("unexpected counts: %+v", result)
	}

	view := s.View()
	if len(view.Rows) != 2 {
		t.Fatalf("expected 2 view model rows, got %d", len(view.Rows))
	}
	if !view.Rows[1].HasEvent || view.Rows[1].EventName != "Oil Price War" {
		t.Errorf("row for 2020-03-15 should carry the event, got %+v", view.Rows[1])
	}
	if len(view.Groups) != 1 || !view.Groups[0].Events[0].HasAssociation {
		t.Error("event list should show the association flag")
	}
	if view.Metrics == nil {
		t.Error("metrics slice should be populated")
	}
}

func TestSessionPartialFailureKeepsOtherSlices(t *testing.T) {
	f := baselineFetcher()
	s := NewSession(f, dateRange("2020-01-01", "2020-12-31"), 30)
	s.Refresh(context.Background())

	// Next cycle: events fetch dies, prices change.
	f.set(func(f *fakeFetcher) {
		f.eventsErr = errors.New("connection refused")
		f.prices = append(f.prices, pricePoint("2020-03-16", 22.0))
	})

	result := s.Refresh(context.Background())
	if len(result.Errors) != 1 || result.Errors[0].Slice != SliceEvents {
		t.Fatalf("expected a single events error, got %v", result.Errors)
	}
	if result.Failed() {
		t.Error("one failed slice is partial, not total, failure")
	}

	view := s.View()
	if len(view.Rows) != 3 {
		t.Errorf("prices slice should have applied, got %d rows", len(view.Rows))
	}
	if len(view.Groups) != 1 || len(view.Groups[0].Events) != 1 {
		t.Error("events slice should keep its previous value after a failed fetch")
	}
}

func TestSessionNoDataKeepsPreviousSlice(t *testing.T) {
	f := baselineFetcher()
	s := NewSession(f, dateRange("2020-01-01", "2020-12-31"), 30)
	s.Refresh(context.Background())

	f.set(func(f *fakeFetcher) {
		f.metricsErr = fmt.Errorf("status %q: %w", "error", provider.ErrNoData)
	})

	result := s.Refresh(context.Background())
	if len(result.Errors) != 1 {
		t.Fatalf("expected the metrics miss to be reported, got %v", result.Errors)
	}
	if !errors.Is(result.Errors[0].Err, provider.ErrNoData) {
		t.Error("error should unwrap to ErrNoData")
	}
	if s.View().Metrics == nil {
		t.Error("metrics from the previous cycle should survive a no-data response")
	}
}

func TestSessionTotalFailureExcludesNoData(t *testing.T) {
	f := baselineFetcher()
	s := NewSession(f, dateRange("2020-01-01", "2020-12-31"), 30)

	// Every slice answers with a well-formed non-success envelope: the
	// provider is reachable, it just has nothing. Not a total failure.
	noData := fmt.Errorf("status %q: %w", "error", provider.ErrNoData)
	f.set(func(f *fakeFetcher) {
		f.pricesErr = noData
		f.cpsErr = noData
		f.eventsErr = noData
		f.assocsErr = noData
		f.metricsErr = noData
	})
	result := s.Refresh(context.Background())
	if len(result.Errors) != 5 {
		t.Fatalf("expected all five slices reported, got %v", result.Errors)
	}
	if result.Failed() {
		t.Error("no-data responses must not count as provider unreachability")
	}

	// Transport errors across the board are a total failure.
	refused := errors.New("connection refused")
	f.set(func(f *fakeFetcher) {
		f.pricesErr = refused
		f.cpsErr = refused
		f.eventsErr = refused
		f.assocsErr = refused
		f.metricsErr = refused
	})
	result = s.Refresh(context.Background())
	if !result.Failed() {
		t.Error("five transport errors should report total failure")
	}

	// A single no-data slice among transport errors still means reachable.
	f.set(func(f *fakeFetcher) { f.metricsErr = noData })
	result = s.Refresh(context.Background())
	if result.Failed() {
		t.Error("one well-formed response proves the provider is reachable")
	}
}

func TestSessionRefreshClearsStaleSelection(t *testing.T) {
	f := baselineFetcher()
	s := NewSession(f, dateRange("2020-01-01", "2020-12-31"), 30)
	s.Refresh(context.Background())

	if err := s.SelectEvent(models.MustParseDate("2020-03-15"), "Oil Price War"); err != nil {
		t.Fatalf("SelectEvent failed: %v", err)
	}

	// The provider stops returning the selected event.
	f.set(func(f *fakeFetcher) {
		f.events = []models.Event{event("2020-04-20", "Negative WTI Prices")}
	})
	s.Refresh(context.Background())

	if s.State().Selection.IsSet() {
		t.Error("selection must be cleared when its event drops out of the refreshed collection")
	}
}

func TestSessionSelectRequiresLoadedEvent(t *testing.T) {
	s := NewSession(baselineFetcher(), dateRange("2020-01-01", "2020-12-31"), 30)
	s.Refresh(context.Background())

	if err := s.SelectEvent(models.MustParseDate("1990-08-02"), "Gulf War"); err == nil {
		t.Error("selecting an event that is not loaded must fail")
	}
	if err := s.SelectEvent(models.MustParseDate("2020-03-15"), "Oil Price War"); err != nil {
		t.Errorf("selecting a loaded event should succeed: %v", err)
	}

	s.ClearSelection()
	if s.State().Selection.IsSet() {
		t.Error("ClearSelection should reset the selection")
	}
}

func TestSessionSetRangeRefetchesAndInvalidates(t *testing.T) {
	f := baselineFetcher()
	s := NewSession(f, dateRange("2020-01-01", "2020-12-31"), 30)
	s.Refresh(context.Background())

	if err := s.SelectEvent(models.MustParseDate("2020-03-15"), "Oil Price War"); err != nil {
		t.Fatalf("SelectEvent failed: %v", err)
	}

	// New range excludes the selected date.
	f.set(func(f *fakeFetcher) {
		f.prices = []models.PricePoint{pricePoint("1990-08-02", 30.0)}
		f.events = []models.Event{event("1990-08-02", "Gulf War")}
	})
	result, err := s.SetRange(context.Background(), dateRange("1990-01-01", "1990-12-31"))
	if err != nil {
		t.Fatalf("SetRange failed: %v", err)
	}
	if result.Stale {
		t.Error("the refetch triggered by SetRange should apply")
	}
	if s.State().Selection.IsSet() {
		t.Error("selection outside the new range must be reset to none")
	}

	// Invalid range never fetches.
	bad := models.DateRange{Start: models.MustParseDate("2000-01-01"), End: models.MustParseDate("1999-01-01")}
	if _, err := s.SetRange(context.Background(), bad); err == nil {
		t.Error("inverted range must be rejected")
	}
}

func TestSessionLateResponseDiscarded(t *testing.T) {
	gate := make(chan struct{})
	f := baselineFetcher()
	f.set(func(f *fakeFetcher) {
		f.priceGate = gate
		f.gatedPrices = []models.PricePoint{pricePoint("2019-01-01", 60.0)} // the slow, stale payload
	})

	s := NewSession(f, dateRange("2020-01-01", "2020-12-31"), 30)

	// First refresh hangs on the price fetch.
	firstDone := make(chan RefreshResult, 1)
	go func() {
		firstDone <- s.Refresh(context.Background())
	}()

	// Give the first refresh time to reach the gate, then supersede it.
	time.Sleep(50 * time.Millisecond)
	second := s.Refresh(context.Background())
	if second.Stale {
		t.Fatal("the newer refresh must apply")
	}

	// Release the stale response.
	close(gate)
	first := <-firstDone
	if !first.Stale {
		t.Fatal("the superseded refresh must report itself stale")
	}

	// The stale price payload must not have overwritten the newer one.
	view := s.View()
	if len(view.Rows) != 2 || !view.Rows[0].Date.Equal(models.MustParseDate("2020-03-01")) {
		t.Errorf("late response overwrote newer state: %+v", view.Rows)
	}
}
