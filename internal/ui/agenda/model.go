// Package agenda lists the visible tasks in date order.
package agenda

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/month-planner/internal/keys"
	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/theme"
)

// EditTaskMsg is sent when the user opens a task from the agenda.
type EditTaskMsg struct {
	TaskID int
}

// Model is the agenda list view.
type Model struct {
	list     list.Model
	keys     *keys.KeyMap
	today    *model.Day
	filtered bool
	width    int
	height   int
}

// New creates an empty agenda.
func New(k *keys.KeyMap, today model.Day, width, height int) Model {
	t := today
	delegate := ItemDelegate{today: &t}
	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = "Agenda"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		today:  &t,
		width:  width,
		height: height,
	}
}

// SetTasks replaces the listed tasks, ordered by start day then id.
// filtered tells the empty state whether filters are hiding tasks.
func (m *Model) SetTasks(tasks []model.Task, filtered bool) tea.Cmd {
	sorted := append([]model.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Start.Compare(sorted[j].Start); c != 0 {
			return c < 0
		}
		return sorted[i].ID < sorted[j].ID
	})

	items := make([]list.Item, len(sorted))
	for i, t := range sorted {
		items[i] = TaskItem{Task: t}
	}
	m.filtered = filtered
	return m.list.SetItems(items)
}

// SetToday moves the anchor for relative dates.
func (m *Model) SetToday(d model.Day) {
	*m.today = d
}

// SelectedTask returns the highlighted task.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Update handles messages for the agenda view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Select) {
		t, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditTaskMsg{TaskID: t.ID} }
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the agenda.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks are listed.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filtered {
		return style.Render("No matching tasks.\nPress 0 to clear filters.")
	}

	return style.Render(
		"No tasks yet.\n\n" +
			"Drag across days in the calendar to create one.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
