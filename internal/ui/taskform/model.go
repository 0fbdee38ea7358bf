// Package taskform renders the create/edit form and feeds it into the
// form controller.
package taskform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/month-planner/internal/model"
	formctl "github.com/nhle/month-planner/internal/taskform"
	"github.com/nhle/month-planner/internal/theme"
)

// SubmittedMsg is dispatched after the controller committed the form.
type SubmittedMsg struct {
	Task    model.Task
	Created bool
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title    string
	category model.Category
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	ctrl   *formctl.Controller
	form   *huh.Form
	fb     *formBindings
	err    error
	width  int
	height int
}

// New creates a form view bound to ctrl.
func New(ctrl *formctl.Controller, width, height int) Model {
	return Model{
		ctrl:   ctrl,
		fb:     &formBindings{category: model.CategoryToDo},
		width:  width,
		height: height,
	}
}

// Start builds the form from the controller's current state. Call it
// after OpenCreate or OpenEdit.
func (m *Model) Start() tea.Cmd {
	m.err = nil
	m.fb.title = m.ctrl.Title()
	m.fb.category = m.ctrl.Category()
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	// Keep the controller in step so the calendar preview shows the
	// title as it is typed.
	m.ctrl.SetTitle(m.fb.title)
	m.ctrl.SetCategory(m.fb.category)

	switch m.form.State {
	case huh.StateCompleted:
		return m.handleSubmit()
	case huh.StateAborted:
		m.ctrl.Cancel()
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

func (m Model) handleSubmit() (Model, tea.Cmd) {
	created := m.ctrl.Mode() == formctl.ModeCreate
	task, err := m.ctrl.Submit()
	if err != nil {
		// The controller stays open; show why and let the user retry.
		m.err = err
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	m.form = nil
	return m, func() tea.Msg { return SubmittedMsg{Task: task, Created: created} }
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	r := m.ctrl.Range()
	dates := r.Start.Format("Mon Jan 2")
	if !r.Start.Equal(r.End) {
		dates += " → " + r.End.Format("Mon Jan 2")
	}

	parts := []string{
		titleStyle.Render(m.ctrl.Heading()),
		theme.HelpStyle.Render(dates),
		"",
		m.form.View(),
	}
	if m.err != nil {
		parts = append(parts, theme.ErrorStyle.Render(describe(m.err)))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// describe turns a submit error into a short user-facing message.
func describe(err error) string {
	switch {
	case errors.Is(err, model.ErrEmptyTitle):
		return "Title is required"
	case errors.Is(err, model.ErrUnknownCategory):
		return "Pick a category"
	default:
		return "Could not save: " + err.Error()
	}
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	options := make([]huh.Option[model.Category], 0, len(model.Categories()))
	for _, c := range model.Categories() {
		options = append(options, huh.NewOption(c.String(), c))
	}

	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder(formctl.PreviewLabel).
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewSelect[model.Category]().
				Title("Category").
				Options(options...).
				Value(&m.fb.category),
		),
	).WithKeyMap(km).WithShowHelp(true).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 30), 60)
}

func (m Model) formHeight() int {
	return max(m.height-6, 10)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
