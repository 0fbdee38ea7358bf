// Package filter selects the tasks visible under the current category,
// time-window and search settings.
package filter

import (
	"fmt"
	"strings"

	"github.com/nhle/month-planner/internal/model"
)

// TimeWindow restricts tasks by the day of month they start on.
type TimeWindow int

const (
	AllTime TimeWindow = iota
	OneWeek
	TwoWeeks
	ThreeWeeks
)

// Windows lists every window in cycling order.
func Windows() []TimeWindow {
	return []TimeWindow{AllTime, OneWeek, TwoWeeks, ThreeWeeks}
}

// Threshold returns the highest start day-of-month that passes, or 0 for
// AllTime. This is a day-of-month test, not an elapsed-time test: a task
// starting on the 3rd of any month is "within 1 week".
func (w TimeWindow) Threshold() int {
	switch w {
	case OneWeek:
		return 7
	case TwoWeeks:
		return 14
	case ThreeWeeks:
		return 21
	default:
		return 0
	}
}

// Label returns the sidebar text for the window.
func (w TimeWindow) Label() string {
	switch w {
	case OneWeek:
		return "Within 1 week"
	case TwoWeeks:
		return "Within 2 weeks"
	case ThreeWeeks:
		return "Within 3 weeks"
	default:
		return "All Time"
	}
}

// Next returns the following window, wrapping back to AllTime.
func (w TimeWindow) Next() TimeWindow {
	return (w + 1) % TimeWindow(len(Windows()))
}

// ParseWindow accepts "1", "2", "3" (weeks) and "all".
func ParseWindow(s string) (TimeWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return AllTime, nil
	case "1":
		return OneWeek, nil
	case "2":
		return TwoWeeks, nil
	case "3":
		return ThreeWeeks, nil
	default:
		return AllTime, fmt.Errorf("unknown time window %q", s)
	}
}

func (w TimeWindow) admits(t model.Task) bool {
	if w == AllTime {
		return true
	}
	return t.Start.DayOfMonth() <= w.Threshold()
}

// Criteria is the ephemeral filter state. The zero value shows everything.
type Criteria struct {
	// Categories is the set of selected categories; empty means all.
	Categories map[model.Category]bool
	Window     TimeWindow
	Search     string
}

// ToggleCategory adds c to the selection or removes it.
func (c *Criteria) ToggleCategory(cat model.Category) {
	if c.Categories == nil {
		c.Categories = make(map[model.Category]bool)
	}
	if c.Categories[cat] {
		delete(c.Categories, cat)
		return
	}
	c.Categories[cat] = true
}

// HasCategory reports whether cat is selected.
func (c Criteria) HasCategory(cat model.Category) bool {
	return c.Categories[cat]
}

// Clear resets every filter.
func (c *Criteria) Clear() {
	*c = Criteria{}
}

// Active reports whether any filter narrows the task list.
func (c Criteria) Active() bool {
	return len(c.Categories) > 0 || c.Window != AllTime || c.Search != ""
}

// Summary describes the active filters for the status bar, or "" if none.
func (c Criteria) Summary() string {
	var parts []string
	if len(c.Categories) > 0 {
		var names []string
		for _, cat := range model.Categories() {
			if c.Categories[cat] {
				names = append(names, cat.String())
			}
		}
		parts = append(parts, "category: "+strings.Join(names, ", "))
	}
	if c.Window != AllTime {
		parts = append(parts, strings.ToLower(c.Window.Label()))
	}
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", c.Search))
	}
	return strings.Join(parts, " | ")
}

// Matches reports whether a single task passes every filter.
func (c Criteria) Matches(t model.Task) bool {
	if len(c.Categories) > 0 && !c.Categories[t.Category] {
		return false
	}
	if !c.Window.admits(t) {
		return false
	}
	if c.Search != "" &&
		!strings.Contains(strings.ToLower(t.Title), strings.ToLower(c.Search)) {
		return false
	}
	return true
}

// Apply returns the tasks that pass c, in input order. The input slice is
// not modified.
func Apply(tasks []model.Task, c Criteria) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
