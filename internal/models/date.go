package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the canonical ISO calendar-date layout used everywhere:
// API query parameters, JSON payloads, and equality comparisons.
const dateLayout = "2006-01-02"

// Date is a timezone-naive calendar date. All dates in the system (prices,
// events, change points, associations, selections) are plain calendar days;
// comparing them as instants with local timezones attached is a recipe for
// off-by-one-day mismatches, so every date is normalized to UTC midnight and
// compared through this type.
type Date struct {
	t time.Time
}

// ParseDate parses an ISO "YYYY-MM-DD" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t.UTC()}, nil
}

// MustParseDate parses an ISO date string and panics on failure.
// Intended for constants and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDate builds a Date from year/month/day components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Year returns the calendar year.
func (d Date) Year() int { return d.t.Year() }

// Decade returns the decade the date falls in, e.g. 2014 -> 2010.
func (d Date) Decade() int { return d.t.Year() / 10 * 10 }

// Time returns the underlying time.Time at UTC midnight.
func (d Date) Time() time.Time { return d.t }

// String returns the ISO "YYYY-MM-DD" form.
func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// Format formats the date with an arbitrary time layout.
func (d Date) Format(layout string) string { return d.t.Format(layout) }

// MarshalJSON encodes the date as an ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO date string. Empty strings and null decode to
// the zero Date rather than failing, matching the defensive-read policy for
// provider payloads.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a JSON string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive [Start, End] span of calendar dates.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewDateRange builds a range and validates the ordering invariant.
func NewDateRange(start, end Date) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks the start <= end invariant.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("date range must have both start and end")
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("date range start %s is after end %s", r.Start, r.End)
	}
	return nil
}

// Contains reports whether the date falls within the range, inclusive.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
