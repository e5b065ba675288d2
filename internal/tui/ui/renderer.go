package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/tui/state"
	"github.com/hy4ri/weekplan/internal/tui/styles"
)

type Renderer struct {
	*state.State
}

func NewRenderer(s *state.State) *Renderer {
	return &Renderer{State: s}
}

func (r *Renderer) View() string {
	if r.Width == 0 || r.Height == 0 {
		return "Loading..."
	}
	if r.ShowHelp {
		return r.renderHelp()
	}

	g := r.Geometry()
	if len(g.Days) == 0 || g.Grid.H <= 0 {
		return lipgloss.Place(r.Width, r.Height, lipgloss.Center, lipgloss.Center,
			styles.Subtitle.Render("Terminal too small"))
	}

	rows := []string{r.renderTitle(), r.renderBody(g), r.renderStatusBar(), r.renderHints()}
	return strings.Join(rows, "\n")
}

// renderTitle draws the week range and year on row 0.
func (r *Renderer) renderTitle() string {
	left := styles.Title.Render(" " + r.Week.Title())
	right := styles.Subtitle.Render(r.Week.Monday().Time().Format("2006") + " ")
	gap := max(0, r.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// renderBody draws every column between the title and the status bar.
func (r *Renderer) renderBody(g state.Geometry) string {
	var cols []string
	if !g.Pool.Empty() {
		cols = append(cols, r.renderPool(g))
	}
	cols = append(cols, r.renderGutter(g))
	for i := range g.Days {
		if i >= len(r.Board.Days) {
			break
		}
		cols = append(cols, r.renderDayColumn(g, i))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderStatusBar shows the quick-add prompt, or the error, gesture or
// status message on the left and sync activity on the right.
func (r *Renderer) renderStatusBar() string {
	if r.QuickAdd != nil {
		label := styles.PromptLabel.Render("Add task:")
		hint := styles.PromptHint.Render("  p1-p4 priority, #project")
		return styles.PromptLine.Render(label + " " + r.QuickAdd.Input.View() + hint)
	}

	text, style := "", styles.StatusBar
	switch {
	case r.Err != nil:
		text, style = "Error: "+r.Err.Error(), styles.StatusBarError
	case r.Machine.State() != schedule.Idle:
		text = r.gestureStatus()
	case r.StatusMsg != "":
		text, style = r.StatusMsg, styles.StatusBarSuccess
	}

	right := ""
	switch {
	case r.Loading:
		right = r.Spinner.View() + " Loading"
	case r.Pending > 0:
		right = r.Spinner.View() + fmt.Sprintf(" Saving %d", r.Pending)
	}
	right = styles.StatusBar.Render(right)

	maxLeft := r.Width - lipgloss.Width(right) - style.GetHorizontalFrameSize()
	left := ""
	if text != "" {
		left = style.Render(truncateString(strings.ReplaceAll(text, "\n", " "), maxLeft))
	}
	spacing := max(0, r.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", spacing) + right
}

// gestureStatus describes the active drag or resize.
func (r *Renderer) gestureStatus() string {
	gs := r.Machine.Gesture()
	title := gs.TaskID
	if o, ok := r.Board.Find(gs.Key); ok {
		title = o.Title
	}

	switch gs.State {
	case schedule.Dragging:
		return "Moving " + title + " → " + r.hoverLabel(gs.Hover)
	case schedule.Resizing:
		d := r.Machine.Resize()
		if d == nil {
			return ""
		}
		return fmt.Sprintf("Resizing %s: %dm", title, d.Duration())
	}
	return ""
}

func (r *Renderer) hoverLabel(t schedule.Target) string {
	switch t.Kind {
	case schedule.PoolArea:
		return "unscheduled"
	case schedule.AllDayLane:
		return t.Date.Time().Format("Mon") + " all day"
	case schedule.TimeGrid:
		if d := r.Machine.Drag(); d != nil {
			if at, ok := d.PreviewTime(); ok {
				return t.Date.Time().Format("Mon") + " " + at.String()
			}
		}
	}
	return "nowhere (release to cancel)"
}

func (r *Renderer) renderHints() string {
	r.Help.Width = r.Width
	return r.Help.View(r.Keys)
}

func (r *Renderer) renderHelp() string {
	r.Help.Width = max(20, r.Width-8)
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitle.Render("Keys"),
		r.Help.FullHelpView(r.Keys.FullHelp()),
		"",
		styles.Subtitle.Render("Drag a block to move it. Drag its bottom edge, or the last cell of a short block, to resize."),
		styles.Subtitle.Render("Drop on the pool to unschedule it, or on the all-day lane to drop its time."),
	)
	return lipgloss.Place(r.Width, r.Height, lipgloss.Center, lipgloss.Center, styles.Dialog.Render(body))
}
