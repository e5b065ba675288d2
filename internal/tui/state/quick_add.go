package state

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/weekplan/internal/store"
)

// QuickAddForm is a one-line form that drops a new task into the pool.
type QuickAddForm struct {
	Input textinput.Model
}

// NewQuickAddForm creates a focused quick add form.
func NewQuickAddForm() *QuickAddForm {
	input := textinput.New()
	input.Placeholder = "e.g. Write report #Work p1"
	input.Focus()
	input.CharLimit = 500
	input.Width = 60

	return &QuickAddForm{Input: input}
}

// Update handles input events for the form.
func (f *QuickAddForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	return cmd
}

// Value returns the current input value.
func (f *QuickAddForm) Value() string {
	return strings.TrimSpace(f.Input.Value())
}

// IsValid returns true if there is content to submit.
func (f *QuickAddForm) IsValid() bool {
	return f.Value() != ""
}

// Clear resets the input field for the next task.
func (f *QuickAddForm) Clear() {
	f.Input.SetValue("")
}

// ParseQuickAdd turns quick add text into a pooled task. "p1".."p4" set the
// priority and "#Name" picks a project by case-insensitive name; unknown
// projects are left in the title.
func ParseQuickAdd(text string, projects []store.Project) store.NewTask {
	var (
		n     store.NewTask
		words []string
	)
	for _, w := range strings.Fields(text) {
		switch strings.ToLower(w) {
		case "p1":
			n.Priority = "high"
			continue
		case "p2":
			n.Priority = "medium"
			continue
		case "p3":
			n.Priority = "low"
			continue
		case "p4":
			n.Priority = "none"
			continue
		}
		if name, ok := strings.CutPrefix(w, "#"); ok && name != "" {
			if id, found := projectByName(projects, name); found {
				n.ProjectID = id
				continue
			}
		}
		words = append(words, w)
	}
	n.Title = strings.Join(words, " ")
	return n
}

func projectByName(projects []store.Project, name string) (string, bool) {
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p.ID, true
		}
	}
	return "", false
}
