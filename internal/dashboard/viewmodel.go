package dashboard

import (
	"github.com/brentlens/brentlens/internal/models"
)

// Row is the unified per-date record consumed by every presentation adapter.
// One Row exists per point in the active price series.
type Row struct {
	Date       models.Date `json:"date"`
	Price      float64     `json:"price"`
	LogReturn  *float64    `json:"log_return"`
	HasEvent   bool        `json:"has_event"`
	EventName  string      `json:"event_name,omitempty"`
	IsSelected bool        `json:"is_selected"`
}

// BuildRows merges the price series, events, and the current selection into
// the view model. It is a pure function: no I/O, no mutation of its inputs,
// identical output for identical input.
//
// The price series is expected date-sorted ascending. Duplicate price dates
// are not deduplicated here and produce duplicate rows; correcting the series
// is the provider's job, not the view model's.
//
// When several events share a date, the first one in the input collection
// wins (stable order). HasEvent is an exact-date lookup; windowed proximity
// is strictly the association resolver's territory.
func BuildRows(prices []models.PricePoint, events []models.Event, sel models.Selection) []Row {
	byDate := make(map[string]models.Event, len(events))
	for _, e := range events {
		key := e.Date.String()
		if _, exists := byDate[key]; !exists {
			byDate[key] = e
		}
	}

	rows := make([]Row, 0, len(prices))
	for _, p := range prices {
		row := Row{
			Date:      p.Date,
			Price:     p.Price,
			LogReturn: p.LogReturn,
		}
		if e, ok := byDate[p.Date.String()]; ok {
			row.HasEvent = true
			row.EventName = e.Name
		}
		row.IsSelected = sel.Matches(p.Date)
		rows = append(rows, row)
	}
	return rows
}
