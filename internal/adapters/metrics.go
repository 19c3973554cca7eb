package adapters

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/brentlens/brentlens/internal/models"
)

// placeholder is rendered for any metric the provider did not supply.
// Missing metrics are a display concern, never an error.
const placeholder = "—"

// MetricsPanel is the renderer-ready metrics projection. Every field is a
// pre-formatted string; the frontend does no numeric work.
type MetricsPanel struct {
	MeanPrice string `json:"mean_price"`
	MinPrice  string `json:"min_price"`
	MinDate   string `json:"min_date"`
	MaxPrice  string `json:"max_price"`
	MaxDate   string `json:"max_date"`

	MeanReturn string `json:"mean_return"`
	Volatility string `json:"volatility"`

	MeanVol30Day string `json:"mean_vol_30day"`
	MaxVol30Day  string `json:"max_vol_30day"`
	MaxVolDate   string `json:"max_vol_date"`

	Observations string `json:"observations"`
	TotalDays    string `json:"total_days"`
	DateCoverage string `json:"date_coverage"`
	TotalEvents  string `json:"total_events"`
}

// BuildMetricsPanel formats the summary statistics for display: prices in
// USD with two decimals, returns and volatility as percentages with four
// decimals, counts with thousands separators. It performs no computation of
// its own and renders a placeholder for anything missing; a metrics payload
// of any shape, including nil, produces a complete panel.
func BuildMetricsPanel(m *models.Metrics) MetricsPanel {
	p := MetricsPanel{
		MeanPrice:    placeholder,
		MinPrice:     placeholder,
		MinDate:      placeholder,
		MaxPrice:     placeholder,
		MaxDate:      placeholder,
		MeanReturn:   placeholder,
		Volatility:   placeholder,
		MeanVol30Day: placeholder,
		MaxVol30Day:  placeholder,
		MaxVolDate:   placeholder,
		Observations: placeholder,
		TotalDays:    placeholder,
		DateCoverage: placeholder,
		TotalEvents:  placeholder,
	}
	if m == nil {
		return p
	}

	if ps := m.PriceStatistics; ps != nil {
		p.MeanPrice = usd(ps.Mean)
		p.MinPrice = usd(ps.Min)
		p.MaxPrice = usd(ps.Max)
		p.MinDate = date(ps.MinDate)
		p.MaxDate = date(ps.MaxDate)
	}
	if rs := m.ReturnsStatistics; rs != nil {
		p.MeanReturn = pct(rs.Mean)
		p.Volatility = pct(rs.Std)
	}
	if vs := m.VolatilityStatistics; vs != nil {
		p.MeanVol30Day = pct(vs.Mean30Day)
		p.MaxVol30Day = pct(vs.Max30Day)
		p.MaxVolDate = date(vs.MaxVolDate)
	}
	if dr := m.DateRange; dr != nil {
		p.Observations = count(dr.TotalObservations)
		p.TotalDays = count(dr.TotalDays)
		if dr.Start != nil && dr.End != nil {
			p.DateCoverage = fmt.Sprintf("%s to %s", dr.Start, dr.End)
		}
	}
	if m.TotalEvents != nil {
		p.TotalEvents = count(m.TotalEvents)
	}
	return p
}

func usd(v *float64) string {
	if v == nil {
		return placeholder
	}
	return fmt.Sprintf("$%.2f", *v)
}

// pct renders a fractional value as a percentage with four decimal places,
// enough to keep daily log returns from rounding to zero.
func pct(v *float64) string {
	if v == nil {
		return placeholder
	}
	return fmt.Sprintf("%.4f%%", *v*100)
}

func date(d *models.Date) string {
	if d == nil || d.IsZero() {
		return placeholder
	}
	return d.String()
}

func count(n *int) string {
	if n == nil {
		return placeholder
	}
	return humanize.Comma(int64(*n))
}
