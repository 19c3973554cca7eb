package models

import "errors"

// Event is a curated geopolitical or economic event. Events are immutable
// and may share a calendar date with other events.
// JSON keys match the provider's CSV-derived column names.
type Event struct {
	Date        Date   `json:"Date"`
	Name        string `json:"Event"`
	Description string `json:"Description,omitempty"`
}

// Validate checks that the event is usable.
func (e *Event) Validate() error {
	if e.Date.IsZero() {
		return errors.New("event date must not be empty")
	}
	if e.Name == "" {
		return errors.New("event name must not be empty")
	}
	return nil
}

// Selection is the single currently highlighted event, shared across the
// list and chart views. The zero value means nothing is selected.
//
// Change points are visualized but not independently selectable; only events
// participate in selection. Events are identified by date plus name so that
// two events on the same day stay distinguishable.
type Selection struct {
	Date Date   `json:"date"`
	Name string `json:"name"`
}

// IsSet reports whether anything is selected.
func (s Selection) IsSet() bool { return !s.Date.IsZero() }

// Matches reports whether the selection refers to the given calendar date.
// Matching is by canonical date, not by entity identity, so a selection made
// from the list highlights the corresponding chart row and vice versa.
func (s Selection) Matches(d Date) bool {
	return s.IsSet() && s.Date.Equal(d)
}

// MatchesEvent reports whether the selection refers to exactly this event.
func (s Selection) MatchesEvent(e Event) bool {
	return s.IsSet() && s.Date.Equal(e.Date) && s.Name == e.Name
}
