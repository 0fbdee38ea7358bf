// Package calendar enumerates the days shown by a month view.
package calendar

import (
	"fmt"
	"time"

	"github.com/nhle/month-planner/internal/model"
)

// DaysPerWeek is the number of columns in a month view.
const DaysPerWeek = 7

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d model.Day) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

// First returns the first day of the month.
func (m Month) First() model.Day {
	return model.NewDay(m.Year, m.Month, 1)
}

// Last returns the last day of the month.
func (m Month) Last() model.Day {
	return model.NewDay(m.Year, m.Month+1, 0)
}

// Next returns the following month.
func (m Month) Next() Month {
	return MonthOf(m.Last().AddDays(1))
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	return MonthOf(m.First().AddDays(-1))
}

// Contains reports whether d falls inside the month.
func (m Month) Contains(d model.Day) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

// Title returns a heading such as "October 2026".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Grid produces the ordered sequence of days covering a visible month,
// including padding days from adjacent months.
type Grid interface {
	DaysInView(m Month) []model.Day
}

// MonthGrid lays a month out in whole weeks beginning on WeekStart.
type MonthGrid struct {
	WeekStart time.Weekday
}

// NewMonthGrid returns a grid whose first column is weekStart.
func NewMonthGrid(weekStart time.Weekday) MonthGrid {
	return MonthGrid{WeekStart: weekStart}
}

// DaysInView returns every day in the weeks that touch m. The result
// length is always a multiple of seven.
func (g MonthGrid) DaysInView(m Month) []model.Day {
	first, last := m.First(), m.Last()

	lead := (int(first.Weekday()) - int(g.WeekStart) + DaysPerWeek) % DaysPerWeek
	weekEnd := (g.WeekStart + DaysPerWeek - 1) % DaysPerWeek
	trail := (int(weekEnd) - int(last.Weekday()) + DaysPerWeek) % DaysPerWeek

	start := first.AddDays(-lead)
	total := lead + first.DaysUntil(last) + 1 + trail

	days := make([]model.Day, total)
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// Weekdays returns the column headings in grid order, e.g. "Sun".
func (g MonthGrid) Weekdays() []string {
	names := make([]string, DaysPerWeek)
	for i := range names {
		names[i] = ((g.WeekStart + time.Weekday(i)) % DaysPerWeek).String()[:3]
	}
	return names
}

// Compare orders two days: -1, 0 or +1.
func Compare(a, b model.Day) int {
	return a.Compare(b)
}

// Format returns the display label of a day cell (the day of month).
func Format(d model.Day) string {
	return d.Format("2")
}
