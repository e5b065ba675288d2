// Package styles provides Lip Gloss styles for the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Terminal-adaptive colors that work in both light and dark terminals.
var (
	// Subtle is a muted color for secondary text
	Subtle = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	// Highlight is the accent color for selected items
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	// Special colors
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF6666"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#66FF66"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#FFAA00", Dark: "#FFCC66"}

	blockText = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	surface   = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}
)

// Priority colors used as block backgrounds.
var (
	PriorityHighColor   = lipgloss.Color("#D0473D")
	PriorityMediumColor = lipgloss.Color("#EA8811")
	PriorityLowColor    = lipgloss.Color("#296FDF")
	PriorityNoneColor   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#4A4A4A"}
)

// Base styles
var (
	// Title is the style for the week title
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	// Subtitle is for secondary headings
	Subtitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle)

	// SectionHeader is for project headers in the pool
	SectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle).
			Underline(true)
)

// Block styles for timed and all-day occurrences.
var (
	Block = lipgloss.NewStyle().
		Foreground(blockText)

	// BlockSelected outlines the selected occurrence
	BlockSelected = lipgloss.NewStyle().
			Foreground(blockText).
			Bold(true).
			Underline(true)

	// BlockGhost is the source block while it is being dragged
	BlockGhost = lipgloss.NewStyle().
			Foreground(Subtle).
			Faint(true)

	// BlockPreview is the drop preview
	BlockPreview = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(Highlight).
			Italic(true)

	// BlockVirtual marks projected occurrences
	BlockVirtual = lipgloss.NewStyle().
			Foreground(blockText).
			Italic(true)

	// ResizeHandle is the bottom row of a resizable block
	ResizeHandle = lipgloss.NewStyle().
			Foreground(blockText).
			Faint(true)
)

// PriorityColor returns the block background for a priority.
func PriorityColor(priority string) lipgloss.TerminalColor {
	switch priority {
	case "high":
		return PriorityHighColor
	case "medium":
		return PriorityMediumColor
	case "low":
		return PriorityLowColor
	default:
		return PriorityNoneColor
	}
}

// GetPriorityStyle returns the text style for a pool entry.
func GetPriorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "high":
		return lipgloss.NewStyle().Foreground(PriorityHighColor)
	case "medium":
		return lipgloss.NewStyle().Foreground(PriorityMediumColor)
	case "low":
		return lipgloss.NewStyle().Foreground(PriorityLowColor)
	default:
		return lipgloss.NewStyle()
	}
}

// Pool styles
var (
	// Pool is the unscheduled pane
	Pool = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderRight(true).
		BorderForeground(Subtle)

	// PoolDropTarget is the pane while a drag hovers it
	PoolDropTarget = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderRight(true).
			BorderForeground(Highlight)

	// PoolItem is an entry in the pool
	PoolItem = lipgloss.NewStyle().
			PaddingLeft(1)

	// PoolItemSelected is the selected pool entry
	PoolItemSelected = lipgloss.NewStyle().
				PaddingLeft(1).
				Bold(true).
				Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A2A"})

	// PoolHidden marks projects hidden from the calendar
	PoolHidden = lipgloss.NewStyle().
			Foreground(Subtle).
			Faint(true)
)

// Grid styles
var (
	// DayHeader is a weekday header
	DayHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle)

	// DayHeaderToday is today's header
	DayHeaderToday = lipgloss.NewStyle().
			Bold(true).
			Foreground(SuccessColor)

	// Gutter is the hour label column
	Gutter = lipgloss.NewStyle().
		Foreground(Subtle)

	// HourLine marks the top row of each hour
	HourLine = lipgloss.NewStyle().
			Foreground(Subtle).
			Faint(true)

	// Separator is the column divider
	Separator = lipgloss.NewStyle().
			Foreground(Subtle).
			Faint(true)

	// AllDayDropTarget highlights an all-day lane under a drag
	AllDayDropTarget = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "#DDD6FE", Dark: "#2E2150"})

	// NowLine marks the current time in today's column
	NowLine = lipgloss.NewStyle().
		Foreground(ErrorColor)

	// MoreItems is the "+N more" indicator in full lanes
	MoreItems = lipgloss.NewStyle().
			Foreground(Subtle).
			Italic(true)
)

// StatusBar styles
var (
	// StatusBar is the base style for the status bar
	StatusBar = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}).
			Background(surface).
			Padding(0, 1)

	// StatusBarError is for error messages
	StatusBarError = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Background(surface).
			Bold(true).
			Padding(0, 1)

	// StatusBarSuccess is for success messages
	StatusBarSuccess = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Background(surface).
				Bold(true).
				Padding(0, 1)
)

// Dialog styles
var (
	// Dialog is the base style for dialog boxes
	Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Highlight).
		Padding(1, 2)

	// DialogTitle is for dialog titles
	DialogTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			MarginBottom(1)

	// InputLabel is for input labels
	InputLabel = lipgloss.NewStyle().
			Bold(true)
)

// Spinner style
var (
	Spinner = lipgloss.NewStyle().
		Foreground(Highlight)
)
