package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors for tasks.
var (
	ErrEmptyTitle   = errors.New("task title must not be empty")
	ErrInvalidRange = errors.New("task start must not be after its end")
)

// Task is a titled, categorized date range on the calendar.
type Task struct {
	// ID is assigned by the task store from a monotonic counter and is
	// never reused.
	ID int `json:"id"`

	// Title is the trimmed, non-empty label shown on the calendar.
	Title string `json:"title"`

	// Category is one of the fixed categories.
	Category Category `json:"category"`

	// Start is the first day of the task.
	Start Day `json:"start"`

	// End is the last day of the task. Start == End is a single-day task.
	End Day `json:"end"`
}

// Duration returns the number of days between Start and End
// (0 for a single-day task).
func (t Task) Duration() int {
	return t.Start.DaysUntil(t.End)
}

// Range returns the task's span.
func (t Task) Range() DateRange {
	return DateRange{Start: t.Start, End: t.End}
}

// Covers reports whether the task spans day d.
func (t Task) Covers(d Day) bool {
	return t.Range().Contains(d)
}

// IsSingleDay reports whether the task starts and ends on the same day.
func (t Task) IsSingleDay() bool {
	return t.Start.Equal(t.End)
}

// Validate checks the rules every stored task must hold.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, int(t.Category))
	}
	if t.Start.IsZero() || t.End.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidRange)
	}
	if t.Start.After(t.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, t.Start, t.End)
	}
	return nil
}
