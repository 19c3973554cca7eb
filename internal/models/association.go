package models

import "errors"

// Association is a server-resolved link between a geopolitical event and a
// detected change point. The provider computes these under a ±window_days
// match around each change point; the dashboard never re-derives that window
// locally and only does exact-date lookups against the resolved records.
type Association struct {
	ChangePointDate Date   `json:"change_point_date"`
	EventDate       Date   `json:"event_date"`
	EventName       string `json:"event"`
	Description     string `json:"description,omitempty"`
	DaysFromChange  int    `json:"days_from_change"`
}

// Validate checks that the association is usable.
func (a *Association) Validate() error {
	if a.ChangePointDate.IsZero() {
		return errors.New("association change point date must not be empty")
	}
	if a.EventDate.IsZero() {
		return errors.New("association event date must not be empty")
	}
	return nil
}
