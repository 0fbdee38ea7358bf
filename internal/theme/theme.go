package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/month-planner/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorPreview = lipgloss.AdaptiveColor{Dark: "#2F3E4E", Light: "#DCEBFA"}
)

// Category colours, shared by calendar segments and the agenda.
var (
	ColorToDo       = lipgloss.Color("#2196f3")
	ColorInProgress = lipgloss.Color("#ff9800")
	ColorReview     = lipgloss.Color("#9c27b0")
	ColorCompleted  = lipgloss.Color("#4caf50")
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlay content such as help and the command palette.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle renders padding days from neighbouring months.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// TodayStyle marks the current date in the grid.
var TodayStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// WeekdayStyle renders the weekday header row.
var WeekdayStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGray)

// PreviewStyle highlights cells inside an in-progress selection.
var PreviewStyle = lipgloss.NewStyle().
	Background(ColorPreview)

// ErrorStyle is used for rejected-input messages in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// CategoryColor returns the colour for a task category.
func CategoryColor(c model.Category) lipgloss.TerminalColor {
	switch c {
	case model.CategoryToDo:
		return ColorToDo
	case model.CategoryInProgress:
		return ColorInProgress
	case model.CategoryReview:
		return ColorReview
	case model.CategoryCompleted:
		return ColorCompleted
	default:
		return ColorGray
	}
}

// SegmentStyle returns the style for a task bar inside a day cell.
func SegmentStyle(c model.Category) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(CategoryColor(c))
}

// CategoryLabelStyle returns a color-coded style for a category name.
func CategoryLabelStyle(c model.Category) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(CategoryColor(c))
}

// SetBackground forces a dark or light palette. Any other name keeps the
// terminal's detected background.
func SetBackground(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}
