package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/month-planner/internal/theme"
)

// Name identifies a palette command.
type Name string

const (
	Today    Name = "today"
	Next     Name = "next"
	Prev     Name = "prev"
	Agenda   Name = "agenda"
	Calendar Name = "calendar"
	Clear    Name = "clear"
	Quit     Name = "quit"
	Week     Name = "week"
	Search   Name = "search"
	Help     Name = "help"
	Settings Name = "settings"
)

var aliases = map[string]Name{
	"today":    Today,
	"next":     Next,
	"n":        Next,
	"prev":     Prev,
	"p":        Prev,
	"agenda":   Agenda,
	"list":     Agenda,
	"calendar": Calendar,
	"cal":      Calendar,
	"clear":    Clear,
	"quit":     Quit,
	"q":        Quit,
	"week":     Week,
	"search":   Search,
	"help":     Help,
	"settings": Settings,
	"set":      Settings,
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Name Name
	Arg  string
}

// CancelMsg is emitted when the palette is dismissed.
type CancelMsg struct{}

// Parse turns palette input such as "week 2" into a CommandMsg.
func Parse(input string) (CommandMsg, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return CommandMsg{}, fmt.Errorf("empty command")
	}

	name, ok := aliases[strings.ToLower(fields[0])]
	if !ok {
		return CommandMsg{}, fmt.Errorf("unknown command %q", fields[0])
	}

	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), fields[0]))
	if name == Week && arg == "" {
		return CommandMsg{}, fmt.Errorf("week needs 1, 2, 3 or all")
	}
	return CommandMsg{Name: name, Arg: arg}, nil
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    error
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "today, next, prev, agenda, week 1|2|3|all, search, clear, settings, quit"
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			parsed, err := Parse(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.input.Reset()
			return m, func() tea.Msg { return parsed }
		case "esc":
			m.err = nil
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Command Palette"), m.input.View()}
	if m.err != nil {
		parts = append(parts, theme.ErrorStyle.Render(m.err.Error()))
	}

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
