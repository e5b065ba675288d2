// Package state holds the TUI model shared by the logic and ui packages.
package state

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/rs/zerolog"

	"github.com/hy4ri/weekplan/internal/config"
	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/store"
	"github.com/hy4ri/weekplan/internal/tui/styles"
)

// Press is a pointer press that has not been released yet.
type Press struct {
	X, Y  int
	Moved bool
	Key   schedule.Key
}

// State holds the application state.
// All fields are exported to allow access from logic and ui packages.
type State struct {
	// Dependencies
	Store      store.Store
	Config     *config.Config
	ConfigPath string // saved to when project visibility changes; empty disables
	ExportDir  string
	Log        zerolog.Logger
	Clock      schedule.Clock

	// Data
	Snapshot store.Snapshot
	Board    schedule.Board
	Updates  <-chan store.Snapshot

	// Board state
	Week     *schedule.Week
	Machine  *schedule.Machine
	Selected *schedule.Key
	Press    *Press
	Scroll   int

	// UI state
	Width     int
	Height    int
	Loading   bool
	Pending   int // writes in flight
	Err       error
	StatusMsg string
	ShowHelp  bool
	QuickAdd  *QuickAddForm

	// Components
	Spinner spinner.Model
	Keys    KeyMap
	Help    help.Model
}

// Options configures a new State.
type Options struct {
	ConfigPath string
	ExportDir  string
	Log        zerolog.Logger
	Clock      schedule.Clock
	// Start is a date inside the first week shown. Zero means this week.
	Start schedule.Date
}

// New creates the state for st and cfg.
func New(st store.Store, cfg *config.Config, opts Options) *State {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	clock := opts.Clock
	if clock == nil {
		clock = schedule.RealClock{}
	}

	week := schedule.NewWeek(clock)
	if !opts.Start.IsZero() {
		week = schedule.NewWeekAt(opts.Start, clock)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	m := &State{
		Store:      st,
		Config:     cfg,
		ConfigPath: opts.ConfigPath,
		ExportDir:  opts.ExportDir,
		Log:        opts.Log,
		Clock:      clock,
		Week:       week,
		Loading:    true,
		Spinner:    s,
		Keys:       DefaultKeyMap(cfg.UI.VimMode),
		Help:       help.New(),
	}
	m.Machine = schedule.NewMachine(m.Axis())
	m.Scroll = cfg.Grid.DayStartHour * cfg.Grid.RowsPerHour
	m.Rebuild()
	return m
}

// Axis returns the time axis in terminal rows.
func (s *State) Axis() schedule.Axis {
	return schedule.NewAxis(float64(s.Config.Grid.RowsPerHour))
}

// Geometry lays out the current screen.
func (s *State) Geometry() Geometry {
	return NewGeometry(s.Width, s.Height, s.Config.UI.ShowPool, s.Config.Grid.AllDayRows,
		len(s.Board.Days), s.Scroll, s.Machine.Axis())
}

// PoolRows returns the pool lines of the current board.
func (s *State) PoolRows() []PoolRow {
	return PoolRows(s.Board, s.Snapshot.ProjectName)
}

// SetSnapshot replaces the data and rebuilds the board.
func (s *State) SetSnapshot(snap store.Snapshot) {
	s.Snapshot = snap
	s.Loading = false
	s.Rebuild()
}

// Rebuild derives the board for the visible week from the snapshot.
func (s *State) Rebuild() {
	s.Board = schedule.BuildBoard(s.Snapshot.Tasks, s.Week.Days(), schedule.BoardOptions{
		HiddenProjects: s.Config.HiddenProjectSet(),
		ProjectOrder:   s.Snapshot.ProjectOrder(),
	})
	if s.Selected != nil {
		if _, ok := s.Board.Find(*s.Selected); !ok {
			s.Selected = nil
		}
	}
}

// ApplyConfig switches to a reloaded configuration.
func (s *State) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.Config = cfg
	s.Keys = DefaultKeyMap(cfg.UI.VimMode)
	s.Machine.SetAxis(s.Axis())
	s.Rebuild()
}

// Select marks the occurrence with key k.
func (s *State) Select(k schedule.Key) {
	s.Selected = &k
}

// SelectedOccurrence returns the selected occurrence if it is on the board.
func (s *State) SelectedOccurrence() (schedule.Occurrence, bool) {
	if s.Selected == nil {
		return schedule.Occurrence{}, false
	}
	return s.Board.Find(*s.Selected)
}

// SelectableKeys lists every occurrence on the board in display order:
// pool first, then each day's all-day lane and grid.
func (s *State) SelectableKeys() []schedule.Key {
	var keys []schedule.Key
	for _, g := range s.Board.Pool {
		for _, o := range g.Occurrences {
			keys = append(keys, o.Key)
		}
	}
	for _, o := range s.Board.Occurrences() {
		keys = append(keys, o.Key)
	}
	return keys
}

// CycleSelection moves the selection by delta through SelectableKeys.
func (s *State) CycleSelection(delta int) {
	keys := s.SelectableKeys()
	if len(keys) == 0 {
		s.Selected = nil
		return
	}
	idx := -1
	if s.Selected != nil {
		for i, k := range keys {
			if k == *s.Selected {
				idx = i
				break
			}
		}
	}
	switch {
	case idx < 0 && delta < 0:
		idx = len(keys) - 1
	case idx < 0:
		idx = 0
	default:
		idx = ((idx+delta)%len(keys) + len(keys)) % len(keys)
	}
	s.Select(keys[idx])
}
