package agenda

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	return fmt.Sprintf("%s | %s", i.Task.Category, i.Task.Range())
}

// ItemDelegate implements list.ItemDelegate for rendering agenda rows.
type ItemDelegate struct {
	// today anchors the relative "in 3d" / "2d ago" labels.
	today *model.Day
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single agenda line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	t := ti.Task

	swatch := lipgloss.NewStyle().Foreground(theme.CategoryColor(t.Category)).Render("▌")
	category := theme.CategoryLabelStyle(t.Category).Width(13).Render(t.Category.String())

	dates := t.Start.Format("Jan 02")
	if !t.IsSingleDay() {
		dates += " → " + t.End.Format("Jan 02")
	}

	when := ""
	if d.today != nil {
		when = lipgloss.NewStyle().Foreground(theme.ColorGray).Render("  " + relativeDay(*d.today, t))
	}

	line := fmt.Sprintf("%s %s %-16s %s%s", swatch, category, dates, t.Title, when)
	if t.Category == model.CategoryCompleted {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeDay describes when t happens relative to today.
func relativeDay(today model.Day, t model.Task) string {
	if t.Covers(today) {
		if t.IsSingleDay() {
			return "today"
		}
		return "ongoing"
	}

	if t.Start.After(today) {
		n := today.DaysUntil(t.Start)
		switch {
		case n == 1:
			return "tomorrow"
		case n < 7:
			return fmt.Sprintf("in %dd", n)
		default:
			return fmt.Sprintf("in %dw", n/7)
		}
	}

	n := t.End.DaysUntil(today)
	switch {
	case n == 1:
		return "yesterday"
	case n < 7:
		return fmt.Sprintf("%dd ago", n)
	default:
		return fmt.Sprintf("%dw ago", n/7)
	}
}
