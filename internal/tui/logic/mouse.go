package logic

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/tui/state"
)

// handleMouseMsg maps pointer events onto drag and resize gestures. A
// press and release on the same cell without motion is a click that only
// selects.
func (h *Handler) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if h.QuickAdd != nil || h.ShowHelp {
		return nil
	}
	g := h.Geometry()

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			h.scrollBy(-1)
		case tea.MouseButtonWheelDown:
			h.scrollBy(1)
		case tea.MouseButtonLeft:
			h.handlePress(g, msg.X, msg.Y)
		}
		return nil
	case tea.MouseActionMotion:
		h.handleMotion(g, msg.X, msg.Y)
		return nil
	case tea.MouseActionRelease:
		return h.handleRelease(g, msg.X, msg.Y)
	}
	return nil
}

func (h *Handler) handlePress(g state.Geometry, x, y int) {
	if h.Machine.State() != schedule.Idle {
		return
	}
	hit := g.HitTest(h.Board, h.PoolRows(), x, y)
	if hit.Kind == state.HitNone {
		h.Selected = nil
		return
	}

	occ := hit.Occurrence
	h.Select(occ.Key)
	h.Press = &state.Press{X: x, Y: y, Key: occ.Key}

	var err error
	switch {
	case hit.Kind == state.HitBlock && hit.OnHandle:
		_, err = h.Machine.BeginResize(occ, g.GridY(y))
	case hit.Kind == state.HitBlock:
		_, err = h.Machine.BeginDrag(occ, g.GridY(y), hit.RectTop)
	default:
		_, err = h.Machine.BeginDrag(occ, 0, 0)
	}
	if err != nil {
		h.Press = nil
		h.Err = err
	}
}

func (h *Handler) handleMotion(g state.Geometry, x, y int) {
	if h.Press == nil {
		return
	}
	if x != h.Press.X || y != h.Press.Y {
		h.Press.Moved = true
	}
	if d := h.Machine.Drag(); d != nil {
		d.Hover(g.TargetAt(h.Board.Days, x, y))
	}
	if r := h.Machine.Resize(); r != nil {
		r.Move(g.GridY(y))
	}
}

func (h *Handler) handleRelease(g state.Geometry, x, y int) tea.Cmd {
	press := h.Press
	h.Press = nil
	moved := press != nil && (press.Moved || x != press.X || y != press.Y)

	if d := h.Machine.Drag(); d != nil {
		if !moved {
			d.Cancel()
			return nil
		}
		w, ok := d.Drop(g.TargetAt(h.Board.Days, x, y))
		if !ok {
			h.StatusMsg = "Dropped outside the board"
			return nil
		}
		return h.applyWrite(w)
	}

	if r := h.Machine.Resize(); r != nil {
		if !moved {
			r.Cancel()
			return nil
		}
		r.Move(g.GridY(y))
		w, ok := r.Release(h.Snapshot.Lookup())
		if !ok {
			h.StatusMsg = "Task is no longer timed; resize discarded"
			return nil
		}
		return h.applyWrite(w)
	}
	return nil
}
