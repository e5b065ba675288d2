package ui

import (
	"fmt"
	"strings"

	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/tui/state"
	"github.com/hy4ri/weekplan/internal/tui/styles"
)

// renderPool draws the unscheduled pane. Line 0 is the title; entries
// follow in PoolRows order so hit testing and drawing agree.
func (r *Renderer) renderPool(g state.Geometry) string {
	width := g.Pool.W - 1 // right border
	rows := r.PoolRows()
	hidden := r.Config.HiddenProjectSet()

	count := 0
	for _, pg := range r.Board.Pool {
		count += len(pg.Occurrences)
	}

	lines := make([]string, 0, g.Pool.H)
	lines = append(lines, styles.Subtitle.Render(fit(fmt.Sprintf(" Unscheduled (%d)", count), width)))

	for i, row := range rows {
		if i >= g.Pool.H-1 {
			break
		}
		lines = append(lines, r.renderPoolRow(row, width, hidden[row.ProjectID]))
	}
	if count == 0 && len(lines) < g.Pool.H {
		lines = append(lines, styles.PoolHidden.Render(fit(" Nothing to plan", width)))
	}
	for len(lines) < g.Pool.H {
		lines = append(lines, strings.Repeat(" ", width))
	}

	style := styles.Pool
	if gs := r.Machine.Gesture(); gs.State == schedule.Dragging && gs.Hover.Kind == schedule.PoolArea {
		style = styles.PoolDropTarget
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) renderPoolRow(row state.PoolRow, width int, hidden bool) string {
	if row.Occurrence == nil {
		name := row.Header
		if hidden {
			return styles.PoolHidden.Render(fit(name+" (hidden)", width))
		}
		return styles.SectionHeader.Render(fit(name, width))
	}

	o := *row.Occurrence
	mark := " "
	if o.Recurrence.Repeats() {
		mark = "↻"
	}
	text := fit(mark+o.Title, width-1)

	gs := r.Machine.Gesture()
	switch {
	case gs.State == schedule.Dragging && gs.Key == o.Key:
		return styles.BlockGhost.PaddingLeft(1).Render(text)
	case r.Selected != nil && *r.Selected == o.Key:
		return styles.PoolItemSelected.Foreground(styles.PriorityColor(o.Priority)).Render(text)
	}
	return styles.PoolItem.Inherit(styles.GetPriorityStyle(o.Priority)).Render(text)
}
