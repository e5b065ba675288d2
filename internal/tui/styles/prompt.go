package styles

import "github.com/charmbracelet/lipgloss"

var (
	// PromptLabel is the style for the quick-add "Add task:" label.
	PromptLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCC00")).
			Bold(true)

	// PromptHint is the style for the syntax hint after the input.
	PromptHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	// PromptLine is the container for the quick-add line.
	PromptLine = lipgloss.NewStyle().
			Padding(0, 1)
)
