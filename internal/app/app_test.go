package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/month-planner/internal/filter"
	"github.com/nhle/month-planner/internal/interaction"
	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/store"
	"github.com/nhle/month-planner/internal/taskform"
	"github.com/nhle/month-planner/internal/ui/agenda"
	"github.com/nhle/month-planner/internal/ui/command"
	configview "github.com/nhle/month-planner/internal/ui/config"
	"github.com/nhle/month-planner/tests/testutil"
)

func newApp(t *testing.T) (Model, *store.TaskStore) {
	t.Helper()
	s, _ := testutil.NewTestStore(t)
	m := New(Options{
		Store:     s,
		WeekStart: time.Sunday,
		Today:     testutil.Day(15),
		Logger:    testutil.DiscardLogger(),
	})
	// 70x33 leaves a 70x31 calendar below a one-line header.
	m = step(t, m, tea.WindowSizeMsg{Width: 70, Height: 33})
	return m, s
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// run applies msg and feeds the messages its command produces back in,
// one level deep.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, follow := range collect(cmd) {
		m = step(t, m, follow)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

// cell returns screen coordinates on the date line of June day n.
func cell(n int) (int, int) {
	return (n%7)*10 + 5, 2 + (n/7)*6
}

func mouse(action tea.MouseAction, n int) tea.MouseMsg {
	x, y := cell(n)
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDragOpensCreateForm(t *testing.T) {
	m, _ := newApp(t)

	m = step(t, m, mouse(tea.MouseActionPress, 3))
	m = step(t, m, mouse(tea.MouseActionMotion, 5))
	m = run(t, m, mouse(tea.MouseActionRelease, 5))

	assert.Equal(t, ViewForm, m.currentView)
	assert.Equal(t, taskform.ModeCreate, m.form.Mode())
	assert.Equal(t, model.NewDateRange(testutil.Day(3), testutil.Day(5)), m.form.Range())
	assert.Contains(t, ansi.Strip(m.View()), "Create Task")
}

func TestFormCancelReturnsToCalendar(t *testing.T) {
	m, s := newApp(t)
	m = step(t, m, mouse(tea.MouseActionPress, 8))
	m = run(t, m, mouse(tea.MouseActionRelease, 8))
	require.Equal(t, ViewForm, m.currentView)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, ViewCalendar, m.currentView)
	assert.False(t, m.form.IsOpen())
	assert.Zero(t, s.Len())
	assert.NotContains(t, ansi.Strip(m.View()), taskform.PreviewLabel)
}

func TestClickOnTaskOpensEditForm(t *testing.T) {
	m, s := newApp(t)
	task := testutil.MustCreate(t, s, "Review", model.CategoryReview, 10, 10)
	m = step(t, m, keyRune('0'))

	x, y := cell(10)
	y++ // first lane below the date line
	m = step(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = run(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})

	assert.Equal(t, ViewForm, m.currentView)
	id, ok := m.form.EditingID()
	require.True(t, ok)
	assert.Equal(t, task.ID, id)
	assert.Equal(t, "Review", m.form.Title())
}

func TestAgendaEditUnknownTaskIsIgnored(t *testing.T) {
	m, _ := newApp(t)
	m = step(t, m, agenda.EditTaskMsg{TaskID: 42})
	assert.Equal(t, ViewCalendar, m.currentView)
}

func TestCategoryKeysFilterTasks(t *testing.T) {
	m, s := newApp(t)
	testutil.MustCreate(t, s, "a", model.CategoryToDo, 1, 1)
	testutil.MustCreate(t, s, "b", model.CategoryReview, 2, 2)

	m = step(t, m, keyRune('3'))

	assert.True(t, m.criteria.HasCategory(model.CategoryReview))
	assert.Contains(t, m.countStatus(), "1 of 2")

	m = step(t, m, keyRune('0'))
	assert.False(t, m.criteria.Active())
	assert.Equal(t, "2 tasks", m.countStatus())
}

func TestSearchFiltersLive(t *testing.T) {
	m, s := newApp(t)
	testutil.MustCreate(t, s, "Draft plan", model.CategoryToDo, 1, 1)
	testutil.MustCreate(t, s, "Ship", model.CategoryToDo, 2, 2)

	m = step(t, m, keyRune('/'))
	require.True(t, m.searchMode)
	for _, r := range "draft" {
		m = step(t, m, keyRune(r))
	}
	assert.Equal(t, "draft", m.criteria.Search)
	assert.Contains(t, m.countStatus(), "1 of 2")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.searchMode)
	assert.Empty(t, m.criteria.Search)
}

func TestExecuteCommand(t *testing.T) {
	m, _ := newApp(t)
	june := m.calendar.Month()

	m = step(t, m, command.CommandMsg{Name: command.Next})
	assert.Equal(t, june.Next(), m.calendar.Month())

	m = step(t, m, command.CommandMsg{Name: command.Today})
	assert.Equal(t, june, m.calendar.Month())

	m = step(t, m, command.CommandMsg{Name: command.Week, Arg: "2"})
	assert.Equal(t, filter.TwoWeeks, m.criteria.Window)

	m = step(t, m, command.CommandMsg{Name: command.Week, Arg: "9"})
	assert.NotEmpty(t, m.status)
	assert.Equal(t, filter.TwoWeeks, m.criteria.Window)

	m = step(t, m, command.CommandMsg{Name: command.Agenda})
	assert.Equal(t, ViewAgenda, m.currentView)
}

func TestTabTogglesAgenda(t *testing.T) {
	m, _ := newApp(t)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewAgenda, m.currentView)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewCalendar, m.currentView)
}

func TestMouseIgnoredOutsideCalendar(t *testing.T) {
	m, _ := newApp(t)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m = step(t, m, mouse(tea.MouseActionPress, 3))
	assert.Equal(t, interaction.Idle{}, m.machine.State())
}

func TestSettingsChangeWeekStart(t *testing.T) {
	m, _ := newApp(t)

	m = step(t, m, keyRune('s'))
	require.Equal(t, ViewSettings, m.currentView)

	cfg := model.AppConfig{Display: model.DisplayConfig{WeekStart: "monday"}}
	m = step(t, m, configview.SavedMsg{Config: cfg})

	assert.Equal(t, ViewCalendar, m.currentView)
	assert.Equal(t, "Settings saved", m.status)
	days := m.calendar.Geometry().Days
	require.NotEmpty(t, days)
	assert.Equal(t, time.Monday, days[0].Weekday())
}
