// Package models defines the core domain entities for the brentlens dashboard:
// daily Brent oil prices, statistically detected change points, geopolitical
// events, server-resolved event/change-point associations, and summary metrics.
//
// Every time-indexed entity carries a Date (a timezone-naive calendar day);
// all date comparisons in the application go through that type so that
// grouping and selection equality are deterministic across environments.
package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// PricePoint is a single observation in the Brent price series.
// Series are ordered by date ascending; dates are unique in well-formed data
// but duplicates are passed through rather than corrected (caller concern).
type PricePoint struct {
	Date      Date     `json:"Date"`
	Price     float64  `json:"Price"`
	LogReturn *float64 `json:"log_return"` // nil for the first observation
}

// Validate checks that the price point is usable.
func (p *PricePoint) Validate() error {
	if p.Date.IsZero() {
		return errors.New("price point date must not be empty")
	}
	if p.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

// UnmarshalJSON tolerates the provider's looser price encoding: the Price
// field may arrive as a number, a numeric string, null, or be missing
// entirely. Anything non-numeric coerces to 0.0 so a single bad record keeps
// the series renderable instead of failing the whole fetch. This is lossy and
// deliberate; it is not a correctness guarantee.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date      Date            `json:"Date"`
		Price     json.RawMessage `json:"Price"`
		LogReturn *float64        `json:"log_return"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Date = raw.Date
	p.LogReturn = raw.LogReturn
	p.Price = coercePrice(raw.Price)
	return nil
}

func coercePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}
