// Package calendar renders the month grid and turns mouse events on it
// into pointer events for the interaction machine.
package calendar

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	grid "github.com/nhle/month-planner/internal/calendar"
	"github.com/nhle/month-planner/internal/interaction"
	"github.com/nhle/month-planner/internal/keys"
	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/taskform"
	"github.com/nhle/month-planner/internal/theme"
)

// OutcomeMsg is emitted when a gesture ends with something for the app to
// do: open the create form or the edit form.
type OutcomeMsg struct {
	Outcome interaction.Outcome
}

// MonthChangedMsg is emitted after month navigation.
type MonthChangedMsg struct {
	Month grid.Month
}

// Model is the month grid view.
type Model struct {
	machine *interaction.Machine
	grid    grid.MonthGrid
	keys    *keys.KeyMap

	month   grid.Month
	today   model.Day
	tasks   []model.Task
	pending *Segment

	left, top     int
	width, height int
}

// New creates a calendar showing the month containing today.
func New(
	machine *interaction.Machine,
	g grid.MonthGrid,
	today model.Day,
	k *keys.KeyMap,
	width, height int,
) Model {
	return Model{
		machine: machine,
		grid:    g,
		keys:    k,
		month:   grid.MonthOf(today),
		today:   today,
		width:   width,
		height:  height,
	}
}

// Month returns the displayed month.
func (m Model) Month() grid.Month {
	return m.month
}

// SetMonth changes the displayed month.
func (m *Model) SetMonth(month grid.Month) {
	m.month = month
}

// SetGrid replaces the day layout, e.g. after the week start changed.
func (m *Model) SetGrid(g grid.MonthGrid) {
	m.grid = g
}

// SetToday moves the today marker.
func (m *Model) SetToday(d model.Day) {
	m.today = d
}

// SetTasks replaces the tasks drawn on the grid. Callers pass the filtered
// list, so hidden tasks are neither drawn nor clickable.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
}

// SetPending shows a selection preview that outlives the gesture, used
// while the create form is open.
func (m *Model) SetPending(r model.DateRange, title string) {
	m.pending = &Segment{Title: title, Range: r, Preview: true}
}

// ClearPending removes the pending preview.
func (m *Model) ClearPending() {
	m.pending = nil
}

// SetOrigin records where the view is drawn on screen. Mouse events carry
// absolute coordinates.
func (m *Model) SetOrigin(left, top int) {
	m.left = left
	m.top = top
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Geometry lays out the current month, tasks and preview.
func (m Model) Geometry() Geometry {
	return Layout(m.grid.DaysInView(m.month), m.segments(), m.left, m.top, m.width, m.height)
}

func (m Model) segments() []Segment {
	segs := make([]Segment, 0, len(m.tasks)+1)
	for _, t := range m.tasks {
		segs = append(segs, Segment{TaskID: t.ID, Title: t.Title, Category: t.Category, Range: t.Range()})
	}
	if p, ok := m.preview(); ok {
		segs = append(segs, p)
	}
	return segs
}

func (m Model) preview() (Segment, bool) {
	if r, ok := m.machine.Preview(); ok {
		return Segment{Title: taskform.PreviewLabel, Range: r, Preview: true}, true
	}
	if m.pending != nil {
		return *m.pending, true
	}
	return Segment{}, false
}

// Update handles mouse and navigation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.PrevMonth):
			return m.navigate(m.month.Prev())
		case key.Matches(msg, m.keys.NextMonth):
			return m.navigate(m.month.Next())
		case key.Matches(msg, m.keys.Today):
			return m.navigate(grid.MonthOf(m.today))
		}
	}
	return m, nil
}

func (m Model) navigate(month grid.Month) (Model, tea.Cmd) {
	if _, idle := m.machine.State().(interaction.Idle); !idle {
		return m, nil
	}
	m.month = month
	return m, func() tea.Msg { return MonthChangedMsg{Month: month} }
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.navigate(m.month.Prev())
		case tea.MouseButtonWheelDown:
			return m.navigate(m.month.Next())
		case tea.MouseButtonLeft:
			day, hit, ok := m.Geometry().Hit(msg.X, msg.Y)
			if ok {
				m.machine.PointerDown(day, hit)
			}
		}

	case tea.MouseActionMotion:
		if day, _, ok := m.Geometry().Hit(msg.X, msg.Y); ok {
			m.machine.PointerEnter(day)
		}

	case tea.MouseActionRelease:
		// Releases are handled wherever they land so a drag that ends
		// outside the grid still finishes.
		out := m.machine.PointerUp()
		if out.Kind != interaction.OutcomeNone {
			return m, func() tea.Msg { return OutcomeMsg{Outcome: out} }
		}
	}
	return m, nil
}

// View renders the weekday header and the grid.
func (m Model) View() string {
	g := m.Geometry()
	preview, hasPreview := m.preview()
	active, dragging := m.machine.ActiveTask()

	var b strings.Builder
	for _, name := range m.grid.Weekdays() {
		b.WriteString(theme.WeekdayStyle.Render(pad(" "+name, g.CellWidth)))
	}

	for w := range g.Weeks() {
		week := g.Days[w*grid.DaysPerWeek : (w+1)*grid.DaysPerWeek]
		for line := range g.CellHeight {
			b.WriteByte('\n')
			for col, day := range week {
				i := w*grid.DaysPerWeek + col
				inPreview := hasPreview && preview.Range.Contains(day)

				if line == 0 {
					b.WriteString(m.renderDate(day, g.CellWidth, inPreview))
					continue
				}

				lane := line - 1
				if hidden := g.Hidden(i); hidden > 0 && lane == g.VisibleLanes()-1 {
					b.WriteString(theme.HelpStyle.Render(pad(" +"+strconv.Itoa(hidden), g.CellWidth)))
					continue
				}

				slots := g.Slots(i)
				if lane < len(slots) && slots[lane] != nil {
					seg := slots[lane]
					style := theme.SegmentStyle(seg.Category)
					if seg.Preview {
						style = theme.PreviewStyle.Foreground(theme.ColorWhite).Italic(true)
					} else if dragging && seg.TaskID == active {
						style = style.Bold(true).Underline(true)
					}
					b.WriteString(style.Render(segmentCell(*seg, week, col, g.CellWidth)))
					continue
				}

				blank := strings.Repeat(" ", g.CellWidth)
				if inPreview {
					blank = theme.PreviewStyle.Render(blank)
				}
				b.WriteString(blank)
			}
		}
	}
	return b.String()
}

func (m Model) renderDate(day model.Day, width int, inPreview bool) string {
	label := grid.Format(day)
	if day.DayOfMonth() == 1 {
		label = day.Format("Jan 2")
	}

	style := lipgloss.NewStyle()
	switch {
	case day.Equal(m.today):
		style = theme.TodayStyle
	case !m.month.Contains(day):
		style = theme.DimmedStyle
	}
	if inPreview {
		style = style.Background(theme.ColorPreview)
	}
	return style.Render(pad(" "+label, width))
}

// segmentCell returns the part of seg's bar that falls in column col of
// week. The title flows across the cells of the bar; handles mark the
// task's real start and end.
func segmentCell(seg Segment, week []model.Day, col, width int) string {
	rowStart := model.MaxDay(seg.Range.Start, week[0])
	rowEnd := model.MinDay(seg.Range.End, week[len(week)-1])
	span := rowStart.DaysUntil(rowEnd) + 1
	k := rowStart.DaysUntil(week[col])

	left, right := " ", " "
	if rowStart.Equal(seg.Range.Start) {
		left = "▕"
	}
	if rowEnd.Equal(seg.Range.End) {
		right = "▏"
	}

	inner := span*width - 2
	bar := left + pad(ansi.Truncate(seg.Title, inner, "…"), inner) + right
	return ansi.Cut(bar, k*width, (k+1)*width)
}

// pad truncates or right-pads s to exactly width columns.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if gap := width - ansi.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}
