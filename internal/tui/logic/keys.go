package logic

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/tui/state"
)

func (h *Handler) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if h.QuickAdd != nil {
		return h.handleQuickAddKey(msg)
	}

	k := h.Keys
	if h.ShowHelp {
		if key.Matches(msg, k.Help, k.Cancel, k.Quit) {
			h.ShowHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, k.Quit):
		h.Machine.Cancel()
		if h.Updates != nil {
			h.Store.Unsubscribe(h.Updates)
			h.Updates = nil
		}
		return tea.Quit

	case key.Matches(msg, k.Cancel):
		if h.Machine.State() != schedule.Idle {
			h.Machine.Cancel()
			h.Press = nil
			h.StatusMsg = "Cancelled"
			return nil
		}
		h.Selected = nil
		h.Err = nil
		return nil

	case key.Matches(msg, k.Help):
		h.ShowHelp = true
		return nil
	}

	// Navigation rebuilds the board; keep it out of live gestures.
	if h.Machine.State() != schedule.Idle {
		return nil
	}

	switch {
	case key.Matches(msg, k.PrevWeek):
		h.Week.Previous()
		h.Rebuild()
	case key.Matches(msg, k.NextWeek):
		h.Week.Next()
		h.Rebuild()
	case key.Matches(msg, k.ThisWeek):
		h.Week.Today()
		h.Rebuild()
	case key.Matches(msg, k.ScrollUp):
		h.scrollBy(-h.Config.Grid.RowsPerHour)
	case key.Matches(msg, k.ScrollDown):
		h.scrollBy(h.Config.Grid.RowsPerHour)
	case key.Matches(msg, k.NextItem):
		h.CycleSelection(1)
	case key.Matches(msg, k.PrevItem):
		h.CycleSelection(-1)

	case key.Matches(msg, k.TogglePool):
		h.Config.UI.ShowPool = !h.Config.UI.ShowPool
	case key.Matches(msg, k.Refresh):
		h.Loading = true
		return h.loadSnapshot()
	case key.Matches(msg, k.AddTask):
		h.QuickAdd = state.NewQuickAddForm()
		return textinput.Blink
	case key.Matches(msg, k.Export):
		return h.export()

	case key.Matches(msg, k.Complete):
		if o, ok := h.SelectedOccurrence(); ok {
			return h.complete(o)
		}
		h.StatusMsg = "Nothing selected"
	case key.Matches(msg, k.Copy):
		if o, ok := h.SelectedOccurrence(); ok {
			return h.copyOccurrence(o)
		}
		h.StatusMsg = "Nothing selected"
	case key.Matches(msg, k.ToggleProject):
		o, ok := h.SelectedOccurrence()
		if !ok {
			h.StatusMsg = "Nothing selected"
			return nil
		}
		h.Config.ToggleHiddenProject(o.ProjectID)
		name := h.Snapshot.ProjectName(o.ProjectID)
		if h.Config.HiddenProjectSet()[o.ProjectID] {
			h.StatusMsg = "Hid " + name + " from the calendar"
		} else {
			h.StatusMsg = "Showing " + name
		}
		h.Rebuild()
		return h.saveConfig()
	}
	return nil
}

func (h *Handler) handleQuickAddKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		h.QuickAdd = nil
		return nil
	case tea.KeyEnter:
		if !h.QuickAdd.IsValid() {
			h.QuickAdd = nil
			return nil
		}
		n := state.ParseQuickAdd(h.QuickAdd.Value(), h.Snapshot.Projects)
		h.QuickAdd.Clear()
		if n.Title == "" {
			h.StatusMsg = "A task needs a title"
			return nil
		}
		h.QuickAdd = nil
		return h.addTask(n)
	}
	return h.QuickAdd.Update(msg)
}

func (h *Handler) scrollBy(delta int) {
	h.Scroll = h.Geometry().ClampScroll(h.Scroll + delta)
}
