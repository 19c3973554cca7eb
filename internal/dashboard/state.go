// Package dashboard implements the correlation and interactive-state core of
// the brentlens dashboard: the unified per-date view model, exact-date
// association annotation, decade grouping, and the selection/date-range state
// machine that keeps every view consistent.
package dashboard

import (
	"github.com/brentlens/brentlens/internal/models"
)

// State is the explicit interaction state shared by all views: the active
// date range and the currently selected event. State values are immutable;
// transitions are pure functions returning a new State, which makes replays
// and tests deterministic.
type State struct {
	Range     models.DateRange
	Selection models.Selection
}

// NewState creates a State covering the given range with nothing selected.
func NewState(r models.DateRange) State {
	return State{Range: r}
}

// SelectEvent returns a State with the given event selected. Selecting an
// event replaces any prior selection; there is no multi-select. Change points
// are not selectable, so this is the only selecting transition.
func (s State) SelectEvent(e models.Event) State {
	s.Selection = models.Selection{Date: e.Date, Name: e.Name}
	return s
}

// ClearSelection returns a State with no selection.
func (s State) ClearSelection() State {
	s.Selection = models.Selection{}
	return s
}

// SetRange returns a State with the new active range. A selection whose date
// falls outside the new range is cleared: the selected entity will not be in
// the next fetched collections, and a dangling highlight would point at
// nothing visible.
func (s State) SetRange(r models.DateRange) State {
	s.Range = r
	if s.Selection.IsSet() && !r.Contains(s.Selection.Date) {
		s.Selection = models.Selection{}
	}
	return s
}

// ReconcileSelection clears a selection whose event is no longer present in
// the loaded event collection. Called after every successful refresh so a
// stale selection (range narrowed server-side, dataset changed) never
// survives a reload.
func (s State) ReconcileSelection(events []models.Event) State {
	if !s.Selection.IsSet() {
		return s
	}
	for _, e := range events {
		if s.Selection.MatchesEvent(e) {
			return s
		}
	}
	s.Selection = models.Selection{}
	return s
}
