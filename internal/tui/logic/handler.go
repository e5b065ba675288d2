// Package logic turns Bubble Tea messages into state changes and store
// commands.
package logic

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/weekplan/internal/config"
	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/store"
	"github.com/hy4ri/weekplan/internal/tui/state"
)

// Message types
type errMsg struct{ err error }
type statusMsg struct{ msg string }
type snapshotMsg struct {
	snap   store.Snapshot
	pushed bool
}
type updatesClosedMsg struct{}
type writeDoneMsg struct {
	write schedule.Write
	err   error
}
type completedMsg struct {
	title string
	err   error
}
type taskAddedMsg struct {
	task schedule.Task
	err  error
}
type exportedMsg struct {
	path string
	err  error
}
type clockTickMsg time.Time

// ConfigReloadedMsg carries a configuration read after the file changed.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// Handler updates the shared state.
type Handler struct {
	*state.State
}

// NewHandler returns a handler over s.
func NewHandler(s *state.State) *Handler {
	return &Handler{State: s}
}

// Init subscribes to the store and loads the first snapshot.
func (h *Handler) Init() tea.Cmd {
	if h.Updates == nil {
		h.Updates = h.Store.Subscribe(8)
	}
	return tea.Batch(
		h.Spinner.Tick,
		h.loadSnapshot(),
		h.waitForSnapshot(),
		clockTick(),
	)
}

// Update handles one message.
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return h.handleKeyMsg(msg)

	case tea.MouseMsg:
		return h.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		h.Width, h.Height = msg.Width, msg.Height
		h.Help.Width = msg.Width
		h.Scroll = h.Geometry().Scroll
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.Spinner, cmd = h.Spinner.Update(msg)
		return cmd

	case clockTickMsg:
		// Keeps the today highlight and now line current.
		return clockTick()

	case errMsg:
		h.Loading = false
		h.Err = msg.err
		return nil

	case statusMsg:
		h.Err = nil
		h.StatusMsg = msg.msg
		return nil

	case snapshotMsg:
		if msg.snap.Older(h.Snapshot) {
			h.Log.Debug().Uint64("seq", msg.snap.Seq).Uint64("current", h.Snapshot.Seq).Msg("stale snapshot ignored")
		} else {
			h.SetSnapshot(msg.snap)
		}
		if msg.pushed {
			return h.waitForSnapshot()
		}
		return nil

	case updatesClosedMsg:
		h.Updates = nil
		return nil

	case writeDoneMsg:
		h.Pending = max(0, h.Pending-1)
		if msg.err != nil {
			h.Err = msg.err
			return nil
		}
		h.Err = nil
		h.StatusMsg = "Saved " + msg.write.String()
		return nil

	case completedMsg:
		h.Pending = max(0, h.Pending-1)
		if msg.err != nil {
			h.Err = msg.err
			return nil
		}
		h.StatusMsg = "Completed: " + msg.title
		return nil

	case taskAddedMsg:
		h.Pending = max(0, h.Pending-1)
		if msg.err != nil {
			h.Err = msg.err
			return nil
		}
		h.Select(schedule.RealKey(msg.task.ID))
		h.StatusMsg = "Added: " + msg.task.Title
		return nil

	case exportedMsg:
		if msg.err != nil {
			h.Err = msg.err
			return nil
		}
		h.StatusMsg = "Exported " + msg.path
		return nil

	case ConfigReloadedMsg:
		h.ApplyConfig(msg.Config)
		h.Scroll = h.Geometry().Scroll
		h.StatusMsg = "Config reloaded"
		return nil
	}
	return nil
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}
