package models

// Metrics carries the externally computed summary statistics for the loaded
// dataset. Every section and every field inside a section is optional: the
// provider may omit any of them, and consumers must render placeholders for
// whatever is missing rather than failing. Pointers make "absent" explicit.
type Metrics struct {
	PriceStatistics      *PriceStatistics      `json:"price_statistics"`
	ReturnsStatistics    *ReturnsStatistics    `json:"returns_statistics"`
	VolatilityStatistics *VolatilityStatistics `json:"volatility_statistics"`
	DateRange            *CoverageStatistics   `json:"date_range"`
	TotalEvents          *int                  `json:"total_events"`
}

// PriceStatistics summarizes the raw price series in USD.
type PriceStatistics struct {
	Mean    *float64 `json:"mean"`
	Std     *float64 `json:"std"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	MinDate *Date    `json:"min_date"`
	MaxDate *Date    `json:"max_date"`
}

// ReturnsStatistics summarizes the daily log returns.
type ReturnsStatistics struct {
	Mean *float64 `json:"mean"`
	Std  *float64 `json:"std"`
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
}

// VolatilityStatistics summarizes the 30-day rolling volatility of returns.
type VolatilityStatistics struct {
	Mean30Day  *float64 `json:"mean_30day"`
	Max30Day   *float64 `json:"max_30day"`
	MaxVolDate *Date    `json:"max_vol_date"`
}

// CoverageStatistics describes the temporal extent of the dataset.
type CoverageStatistics struct {
	Start             *Date `json:"start"`
	End               *Date `json:"end"`
	TotalDays         *int  `json:"total_days"`
	TotalObservations *int  `json:"total_observations"`
}
