// Package tui provides the terminal week planner.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/weekplan/internal/config"
	"github.com/hy4ri/weekplan/internal/store"
	"github.com/hy4ri/weekplan/internal/tui/logic"
	"github.com/hy4ri/weekplan/internal/tui/state"
	"github.com/hy4ri/weekplan/internal/tui/ui"
)

// App is the main Bubble Tea model for the application.
type App struct {
	state    *state.State
	handler  *logic.Handler
	renderer *ui.Renderer
}

// NewApp creates a new App over st.
func NewApp(st store.Store, cfg *config.Config, opts state.Options) *App {
	s := state.New(st, cfg, opts)
	return &App{
		state:    s,
		handler:  logic.NewHandler(s),
		renderer: ui.NewRenderer(s),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.handler.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return a, a.handler.Update(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	return a.renderer.View()
}

// State exposes the model for tests and embedding programs.
func (a *App) State() *state.State {
	return a.state
}
