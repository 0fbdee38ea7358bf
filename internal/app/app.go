package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	grid "github.com/nhle/month-planner/internal/calendar"
	"github.com/nhle/month-planner/internal/filter"
	"github.com/nhle/month-planner/internal/interaction"
	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/store"
	"github.com/nhle/month-planner/internal/taskform"
	"github.com/nhle/month-planner/internal/theme"
	"github.com/nhle/month-planner/internal/ui"
	"github.com/nhle/month-planner/internal/ui/agenda"
	calview "github.com/nhle/month-planner/internal/ui/calendar"
	"github.com/nhle/month-planner/internal/ui/command"
	configview "github.com/nhle/month-planner/internal/ui/config"
	helpview "github.com/nhle/month-planner/internal/ui/help"
	formview "github.com/nhle/month-planner/internal/ui/taskform"
)

// formPanelWidth is the width of the form drawn beside the calendar.
const formPanelWidth = 46

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewCalendar ViewState = iota
	ViewAgenda
	ViewForm
	ViewHelp
	ViewCommand
	ViewSettings
)

// Options configures a new root model.
type Options struct {
	Store     *store.TaskStore
	WeekStart time.Weekday
	Today     model.Day
	Logger    *slog.Logger

	// Config seeds the settings view. ConfigPath is where it saves; an
	// empty path keeps setting changes in memory.
	Config     *model.AppConfig
	ConfigPath string
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and the shared task store, interaction machine and form controller.
type Model struct {
	currentView  ViewState
	previousView ViewState
	// mainView is the calendar or agenda the overlays return to.
	mainView ViewState

	layout   ui.Layout
	store    *store.TaskStore
	machine  *interaction.Machine
	form     *taskform.Controller
	criteria filter.Criteria
	keys     *KeyMap
	logger   *slog.Logger
	today    model.Day

	calendar    calview.Model
	agenda      agenda.Model
	formView    formview.Model
	helpView    helpview.Model
	commandView command.Model
	settings    configview.Model

	searchMode  bool
	searchInput textinput.Model

	status string
	ready  bool
}

// New creates the root application model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	today := opts.Today
	if today.IsZero() {
		today = model.Today()
	}

	keys := DefaultKeyMap()
	machine := interaction.New(opts.Store, logger)
	form := taskform.New(opts.Store, logger)

	var cfg model.AppConfig
	if opts.Config != nil {
		cfg = *opts.Config
	}

	si := textinput.New()
	si.Placeholder = "search titles..."
	si.Prompt = "/ "

	m := Model{
		currentView: ViewCalendar,
		mainView:    ViewCalendar,
		store:       opts.Store,
		machine:     machine,
		form:        form,
		keys:        keys,
		logger:      logger,
		today:       today,
		calendar:    calview.New(machine, grid.NewMonthGrid(opts.WeekStart), today, keys, 80, 22),
		agenda:      agenda.New(keys, today, 80, 22),
		formView:    formview.New(form, formPanelWidth, 22),
		helpView:    helpview.New(keys, 80, 22),
		commandView: command.New(80, 22),
		settings:    configview.New(cfg, opts.ConfigPath, 80, 22),
		searchInput: si,
	}
	m.refresh()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.applySizes()
		// Forward to the form so huh can calculate its layout.
		if m.currentView == ViewForm {
			return m.updateActiveView(msg)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case calview.OutcomeMsg:
		return m.handleOutcome(msg.Outcome)

	case calview.MonthChangedMsg:
		m.logger.Debug("month changed", "month", msg.Month.Title())
		return m, nil

	case agenda.EditTaskMsg:
		return m.openEdit(msg.TaskID)

	case formview.SubmittedMsg:
		verb := "Updated"
		if msg.Created {
			verb = "Created"
		}
		m.status = fmt.Sprintf("%s %q", verb, msg.Task.Title)
		m.closeForm()
		cmd := m.refresh()
		return m, cmd

	case formview.CancelMsg:
		m.closeForm()
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(msg)

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case configview.SavedMsg:
		m.currentView = m.previousView
		m.applySettings(msg.Config)
		m.status = "Settings saved"
		if msg.Err != nil {
			m.logger.Warn("saving settings", "error", msg.Err)
			m.status = "Settings applied, not saved: " + msg.Err.Error()
		}
		return m, nil

	case configview.DoneMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// handleMouse routes mouse input to the calendar. Releases always reach
// it so that a drag cannot be left running by a view switch.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.currentView != ViewCalendar && msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	var cmd tea.Cmd
	m.calendar, cmd = m.calendar.Update(msg)
	refresh := m.refresh()
	return m, tea.Batch(cmd, refresh)
}

func (m Model) handleOutcome(out interaction.Outcome) (tea.Model, tea.Cmd) {
	switch out.Kind {
	case interaction.OutcomeCreate:
		m.form.OpenCreate(out.Range)
		m.calendar.SetPending(out.Range, m.form.PreviewTitle())
		return m.showForm()
	case interaction.OutcomeEdit:
		return m.openEdit(out.TaskID)
	}
	return m, nil
}

func (m Model) openEdit(id int) (tea.Model, tea.Cmd) {
	t, ok := m.store.Task(id)
	if !ok {
		m.logger.Warn("edit requested for unknown task", "task_id", id)
		return m, nil
	}
	m.form.OpenEdit(t)
	return m.showForm()
}

func (m Model) showForm() (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewForm
	m.status = ""
	m.applySizes()
	cmd := m.formView.Start()
	return m, cmd
}

func (m *Model) closeForm() {
	m.calendar.ClearPending()
	m.currentView = m.mainView
	m.applySizes()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.searchMode {
		return m.handleSearchKeys(msg)
	}

	switch m.currentView {
	case ViewForm:
		var cmd tea.Cmd
		m.formView, cmd = m.formView.Update(msg)
		if m.form.Mode() == taskform.ModeCreate {
			m.calendar.SetPending(m.form.Range(), m.form.PreviewTitle())
		}
		return m, cmd

	case ViewCommand:
		var cmd tea.Cmd
		m.commandView, cmd = m.commandView.Update(msg)
		return m, cmd

	case ViewSettings:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd

	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.currentView = m.previousView
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Settings):
		return m.openSettings()

	case key.Matches(msg, m.keys.Agenda):
		if m.currentView == ViewAgenda {
			m.switchMain(ViewCalendar)
		} else {
			m.switchMain(ViewAgenda)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.criteria.Search)
		m.searchInput.CursorEnd()
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.FilterToDo):
		return m.toggleCategory(model.CategoryToDo)
	case key.Matches(msg, m.keys.FilterInProgress):
		return m.toggleCategory(model.CategoryInProgress)
	case key.Matches(msg, m.keys.FilterReview):
		return m.toggleCategory(model.CategoryReview)
	case key.Matches(msg, m.keys.FilterCompleted):
		return m.toggleCategory(model.CategoryCompleted)

	case key.Matches(msg, m.keys.CycleWindow):
		m.criteria.Window = m.criteria.Window.Next()
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.ClearFilters):
		m.criteria.Clear()
		cmd := m.refresh()
		return m, cmd
	}

	return m.updateActiveView(msg)
}

// handleSearchKeys filters live as the user types. Enter keeps the
// search, esc drops it.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.criteria.Search = ""
		cmd := m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.criteria.Search = m.searchInput.Value()
	refresh := m.refresh()
	return m, tea.Batch(cmd, refresh)
}

func (m Model) openSettings() (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewSettings
	cmd := m.settings.Start()
	return m, cmd
}

// applySettings puts saved display settings into effect.
func (m *Model) applySettings(cfg model.AppConfig) {
	if wd, err := cfg.Display.FirstWeekday(); err == nil {
		m.calendar.SetGrid(grid.NewMonthGrid(wd))
	}
	theme.SetBackground(cfg.Display.Theme)
}

func (m Model) toggleCategory(c model.Category) (tea.Model, tea.Cmd) {
	m.criteria.ToggleCategory(c)
	cmd := m.refresh()
	return m, cmd
}

func (m *Model) switchMain(v ViewState) {
	m.mainView = v
	m.currentView = v
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	case ViewAgenda:
		m.agenda, cmd = m.agenda.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

// executeCommand handles a command from the command palette.
func (m Model) executeCommand(c command.CommandMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("command", "name", string(c.Name), "arg", c.Arg)

	switch c.Name {
	case command.Today:
		m.calendar.SetMonth(grid.MonthOf(m.today))
		m.switchMain(ViewCalendar)
	case command.Next:
		m.calendar.SetMonth(m.calendar.Month().Next())
		m.switchMain(ViewCalendar)
	case command.Prev:
		m.calendar.SetMonth(m.calendar.Month().Prev())
		m.switchMain(ViewCalendar)
	case command.Agenda:
		m.switchMain(ViewAgenda)
	case command.Calendar:
		m.switchMain(ViewCalendar)
	case command.Help:
		m.previousView = m.currentView
		m.currentView = ViewHelp
	case command.Settings:
		return m.openSettings()
	case command.Quit:
		return m, tea.Quit
	case command.Clear:
		m.criteria.Clear()
		cmd := m.refresh()
		return m, cmd
	case command.Search:
		m.criteria.Search = c.Arg
		cmd := m.refresh()
		return m, cmd
	case command.Week:
		w, err := filter.ParseWindow(c.Arg)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.criteria.Window = w
		cmd := m.refresh()
		return m, cmd
	}
	return m, nil
}

// refresh recomputes the visible tasks and pushes them to the views.
func (m *Model) refresh() tea.Cmd {
	visible := filter.Apply(m.store.Tasks(), m.criteria)
	m.calendar.SetTasks(visible)
	return m.agenda.SetTasks(visible, m.criteria.Active())
}

// applySizes gives each view its share of the content area. While the
// form is open the calendar shrinks to make room for it.
func (m *Model) applySizes() {
	if !m.ready {
		return
	}
	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()

	calWidth := w
	if m.formBesideCalendar() {
		calWidth = w - formPanelWidth
	}
	m.calendar.SetOrigin(0, m.layout.ContentTop())
	m.calendar.SetSize(calWidth, h)
	m.agenda.SetSize(w, h)
	m.formView.SetSize(min(formPanelWidth, w), h)
	m.helpView.SetSize(w, h)
	m.commandView.SetSize(w, h)
	m.settings.SetSize(w, h)
	m.searchInput.Width = w - 4
}

// formBesideCalendar reports whether the open form is drawn next to the
// calendar rather than in place of it.
func (m Model) formBesideCalendar() bool {
	return m.currentView == ViewForm &&
		m.previousView == ViewCalendar &&
		m.layout.ContentWidth() > formPanelWidth*2
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Month Planner · "+m.calendar.Month().Title(), m.countStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCalendar:
		return m.calendar.View()
	case ViewAgenda:
		return m.agenda.View()
	case ViewForm:
		if !m.formBesideCalendar() {
			return m.formView.View()
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, m.calendar.View(), m.formView.View())
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSettings:
		return m.settings.View()
	default:
		return ""
	}
}

// countStatus reports how many tasks the filters let through.
func (m Model) countStatus() string {
	total := m.store.Len()
	visible := len(filter.Apply(m.store.Tasks(), m.criteria))
	if visible == total {
		return fmt.Sprintf("%d tasks", total)
	}
	return fmt.Sprintf("%d of %d tasks", visible, total)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.searchMode {
		return m.searchInput.View()
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewForm, ViewSettings:
		return "enter next/submit | esc cancel"
	}

	hints := "q quit | ? help | tab agenda | [ ] month | / search | 1-4 category | w window"
	if m.currentView == ViewAgenda {
		hints = "q quit | ? help | tab calendar | enter edit | / search | 1-4 category | w window"
	}
	if summary := m.criteria.Summary(); summary != "" {
		hints = summary + " | 0 clear"
	}
	if m.status != "" {
		hints = m.status + " | " + hints
	}
	return hints
}
