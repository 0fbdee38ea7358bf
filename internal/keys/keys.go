package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Month navigation
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding

	// Agenda navigation
	Down   key.Binding
	Up     key.Binding
	Select key.Binding

	// Views
	Agenda   key.Binding
	Back     key.Binding
	Quit     key.Binding
	Command  key.Binding
	Help     key.Binding
	Settings key.Binding

	// Filters
	Search           key.Binding
	FilterToDo       key.Binding
	FilterInProgress key.Binding
	FilterReview     key.Binding
	FilterCompleted  key.Binding
	CycleWindow      key.Binding
	ClearFilters     key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		PrevMonth: key.NewBinding(
			key.WithKeys("[", "h", "left"),
			key.WithHelp("[/h", "previous month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]", "l", "right"),
			key.WithHelp("]/l", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this month"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit task"),
		),
		Agenda: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "calendar/agenda"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		FilterToDo: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "toggle to do"),
		),
		FilterInProgress: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "toggle in progress"),
		),
		FilterReview: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "toggle review"),
		),
		FilterCompleted: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "toggle completed"),
		),
		CycleWindow: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "cycle time window"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "clear filters"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.PrevMonth, k.NextMonth, k.Agenda,
		k.Search, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevMonth, k.NextMonth, k.Today, k.Agenda},
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.CycleWindow, k.ClearFilters, k.Command, k.Settings, k.Help},
		{k.FilterToDo, k.FilterInProgress, k.FilterReview, k.FilterCompleted},
	}
}
