package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayLayout is the string encoding used for days in storage and on the wire.
const DayLayout = "2006-01-02"

// Day is a calendar date without a time-of-day component.
// The zero value is not a valid date; use NewDay, DayOf or ParseDay.
type Day struct {
	// t is always midnight UTC of the represented date.
	t time.Time
}

// NewDay returns the day for the given year, month and day of month.
// Out-of-range values are normalized the way time.Date normalizes them.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// Today returns the current local calendar date.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parsing day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d.t.IsZero() }

// Compare returns -1 if d is before other, +1 if after, and 0 if equal.
func (d Day) Compare(other Day) int { return d.t.Compare(other.t) }

// Equal reports whether d and other are the same calendar date.
func (d Day) Equal(other Day) bool { return d.t.Equal(other.t) }

// Before reports whether d is strictly before other.
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Day) After(other Day) bool { return d.t.After(other.t) }

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the signed number of whole days from d to other.
func (d Day) DaysUntil(other Day) int {
	// Both values sit on UTC midnight, so the difference is an exact
	// multiple of 24h.
	return int(other.t.Sub(d.t).Hours() / 24)
}

func (d Day) Year() int { return d.t.Year() }

func (d Day) Month() time.Month { return d.t.Month() }

// DayOfMonth returns the day of the month, 1 through 31.
func (d Day) DayOfMonth() int { return d.t.Day() }

func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// Format formats d with a time layout string.
func (d Day) Format(layout string) string { return d.t.Format(layout) }

// Time returns midnight UTC of d.
func (d Day) Time() time.Time { return d.t }

// String returns the YYYY-MM-DD form of d.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DayLayout)
}

// MarshalJSON encodes d as a YYYY-MM-DD string.
func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("marshaling zero day")
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("day must be a string: %w", err)
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MinDay returns the earlier of a and b.
func MinDay(a, b Day) Day {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDay returns the later of a and b.
func MaxDay(a, b Day) Day {
	if b.After(a) {
		return b
	}
	return a
}

// DateRange is an inclusive span of days with Start <= End.
type DateRange struct {
	Start Day
	End   Day
}

// NewDateRange builds a range from two endpoints in either order.
func NewDateRange(a, b Day) DateRange {
	return DateRange{Start: MinDay(a, b), End: MaxDay(a, b)}
}

// Contains reports whether d falls inside the range, endpoints included.
func (r DateRange) Contains(d Day) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of days in the range, endpoints included.
func (r DateRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

func (r DateRange) String() string {
	if r.Start.Equal(r.End) {
		return r.Start.String()
	}
	return r.Start.String() + " → " + r.End.String()
}
