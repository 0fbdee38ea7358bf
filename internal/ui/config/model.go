// Package config renders the settings form and writes it back to the
// config file.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/theme"
)

// SavedMsg carries the settings the user confirmed. Err is set when the
// file could not be written; the settings still apply to this session.
type SavedMsg struct {
	Config model.AppConfig
	Err    error
}

// DoneMsg signals the settings view closed without changes.
type DoneMsg struct{}

// fields holds form values on the heap so huh's Value pointers survive
// Bubble Tea model copies.
type fields struct {
	weekStart string
	theme     string
}

// Model is the Bubble Tea model for the settings view.
type Model struct {
	cfg    model.AppConfig
	path   string
	form   *huh.Form
	fv     *fields
	width  int
	height int
}

// New creates a settings view for cfg. An empty path keeps changes in
// memory only.
func New(cfg model.AppConfig, path string, width, height int) Model {
	return Model{
		cfg:    cfg,
		path:   path,
		fv:     &fields{},
		width:  width,
		height: height,
	}
}

// Config returns the settings currently in effect.
func (m Model) Config() model.AppConfig {
	return m.cfg
}

// Start builds the form from the current settings.
func (m *Model) Start() tea.Cmd {
	m.fv.weekStart = "sunday"
	if wd, err := m.cfg.Display.FirstWeekday(); err == nil && wd == time.Monday {
		m.fv.weekStart = "monday"
	}
	m.fv.theme = m.cfg.Display.Theme
	if m.fv.theme == "" {
		m.fv.theme = "default"
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m.save()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

func (m Model) save() (Model, tea.Cmd) {
	cfg := m.cfg
	cfg.Display.WeekStart = m.fv.weekStart
	cfg.Display.Theme = m.fv.theme
	m.cfg = cfg

	var err error
	if m.path != "" {
		err = model.SaveConfig(m.path, &cfg)
	}
	return m, func() tea.Msg { return SavedMsg{Config: cfg, Err: err} }
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	where := "Changes apply to this session only"
	if m.path != "" {
		where = fmt.Sprintf("Saved to %s", m.path)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Settings"),
			theme.HelpStyle.Render(where),
			"",
			m.form.View(),
		))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Week starts on").
				Options(
					huh.NewOption("Sunday", "sunday"),
					huh.NewOption("Monday", "monday"),
				).
				Value(&m.fv.weekStart),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Detect from terminal", "default"),
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&m.fv.theme),
		),
	).WithKeyMap(km).WithShowHelp(true).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 30), 60)
}
