// Package adapters projects the dashboard view model into renderer-ready
// structures for the chart, event list, and metrics panel. Adapters are pure
// functions: no I/O, no state, no mutation of their inputs. The actual
// rendering widgets live in the browser frontend.
package adapters

import (
	"fmt"

	"github.com/brentlens/brentlens/internal/dashboard"
	"github.com/brentlens/brentlens/internal/models"
)

// Marker kinds distinguish change-point reference lines from the selection
// highlight so the frontend can style them independently.
const (
	MarkerChangePoint = "changepoint"
	MarkerSelection   = "selection"
)

// ChartPoint is one point on the price line.
type ChartPoint struct {
	Date      string   `json:"date"`
	Price     float64  `json:"price"`
	LogReturn *float64 `json:"log_return,omitempty"`
	EventName string   `json:"event_name,omitempty"`
}

// Marker is a vertical reference line on the chart.
type Marker struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Chart is the renderer-ready chart projection.
type Chart struct {
	Series    []ChartPoint `json:"series"`
	Markers   []Marker     `json:"markers"`
	Highlight *Marker      `json:"highlight,omitempty"`
}

// BuildChart projects the view model rows and change points into the chart
// structure: the ordered price series, one reference marker per change point
// labelled with its date and impact percentage, and at most one highlight
// marker for the current selection.
func BuildChart(rows []dashboard.Row, changePoints []models.ChangePoint, sel models.Selection) Chart {
	series := make([]ChartPoint, 0, len(rows))
	for _, row := range rows {
		series = append(series, ChartPoint{
			Date:      row.Date.String(),
			Price:     row.Price,
			LogReturn: row.LogReturn,
			EventName: row.EventName,
		})
	}

	markers := make([]Marker, 0, len(changePoints))
	for _, cp := range changePoints {
		// ImpactPct arrives already expressed in percent.
		markers = append(markers, Marker{
			Date:  cp.Date.String(),
			Label: fmt.Sprintf("%s (%+.2f%%)", cp.Date, cp.ImpactPct),
			Kind:  MarkerChangePoint,
		})
	}

	chart := Chart{Series: series, Markers: markers}
	if sel.IsSet() {
		chart.Highlight = &Marker{
			Date:  sel.Date.String(),
			Label: sel.Name,
			Kind:  MarkerSelection,
		}
	}
	return chart
}
