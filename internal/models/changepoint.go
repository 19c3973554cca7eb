package models

import "errors"

// ChangePoint is a statistically detected structural break in the price
// series. It is produced by the Bayesian model on the provider side and is
// immutable once fetched; the dashboard only visualizes it.
type ChangePoint struct {
	Date       Date    `json:"date"`
	Index      int     `json:"index"`
	Mu1        float64 `json:"mu_1"`   // mean log return before the break
	Mu2        float64 `json:"mu_2"`   // mean log return after the break
	Sigma      float64 `json:"sigma"`
	Impact     float64 `json:"impact"`
	ImpactPct  float64 `json:"impact_pct"` // Impact expressed in percent
	Confidence float64 `json:"confidence"`
}

// Validate checks that the change point is usable.
func (c *ChangePoint) Validate() error {
	if c.Date.IsZero() {
		return errors.New("change point date must not be empty")
	}
	if c.Confidence < 0.0 || c.Confidence > 1.0 {
		return errors.New("confidence must be between 0.0 and 1.0")
	}
	return nil
}
