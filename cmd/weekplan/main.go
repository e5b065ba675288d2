// Package main is the entry point for the weekplan application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hy4ri/weekplan/internal/config"
	"github.com/hy4ri/weekplan/internal/ics"
	"github.com/hy4ri/weekplan/internal/logx"
	"github.com/hy4ri/weekplan/internal/reminder"
	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/store"
	"github.com/hy4ri/weekplan/internal/tui"
	"github.com/hy4ri/weekplan/internal/tui/logic"
	"github.com/hy4ri/weekplan/internal/tui/state"
)

const version = "0.1.0"

const helpText = `weekplan - Hour-by-hour week planner for the terminal

USAGE:
    weekplan [OPTIONS]

OPTIONS:
    -h, --help              Show this help message
    -v, --version           Show version information
    --init                  Create a template config file
    --token TOKEN           Store a Todoist API token in the system keyring
    --week YYYY-MM-DD       Open the week containing this date
    --export-ics PATH       Write the week to an iCalendar file and exit
    --add-project NAME      Create a project and exit

CONFIGURATION:
    Config file: ~/.config/weekplan/config.yaml
    Data and log: ~/.local/share/weekplan/

    Tasks live in a local SQLite database by default. To plan your Todoist
    tasks instead, set store.driver to "todoist" and run:
        weekplan --token <your API token>

MOUSE:
    Drag a block         Move it to another day or time
    Drag its bottom row  Change its duration
    Drop on the pool     Unschedule it
    Drop on all-day      Keep the date, drop the time
    Click                Select

KEYBINDINGS:
    h/[  l/]    Previous / next week
    t           This week
    j/k         Scroll the grid
    tab         Select next item
    a           Add a task to the pool
    x           Complete selected task
    y           Copy selected task
    v           Hide/show the selected task's project
    e           Export the week to .ics
    p           Toggle the pool
    r           Refresh
    ?           Show help
    q           Quit
`

const configTemplate = `# weekplan configuration
# Location: ~/.config/weekplan/config.yaml

store:
  # sqlite (default), todoist or memory
  driver: sqlite
  # path: ~/.local/share/weekplan/weekplan.db

grid:
  # Terminal rows per hour; 4 gives 15-minute rows
  rows_per_hour: 4
  # Hour the grid scrolls to on start
  day_start_hour: 8
  # Rows reserved for all-day tasks
  all_day_rows: 2

ui:
  vim_mode: true
  show_pool: true
  # hidden_projects: []

reminders:
  enabled: true
  lead_minutes: 10
  schedule: "@every 1m"

log:
  level: info
  # path: ~/.local/share/weekplan/weekplan.log

# auth:
#   Prefer 'weekplan --token', which uses the system keyring.
#   api_token: ""
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		showHelp    bool
		showVersion bool
		initConfig  bool
		token       string
		week        string
		exportPath  string
		addProject  string
	)

	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&showVersion, "v", false, "Show version (shorthand)")
	flag.BoolVar(&initConfig, "init", false, "Create template config file")
	flag.StringVar(&token, "token", "", "Store a Todoist API token")
	flag.StringVar(&week, "week", "", "Open the week containing this date")
	flag.StringVar(&exportPath, "export-ics", "", "Export the week to an .ics file")
	flag.StringVar(&addProject, "add-project", "", "Create a project")

	flag.Usage = func() {
		fmt.Print(helpText)
	}

	flag.Parse()

	if showHelp {
		fmt.Print(helpText)
		return nil
	}

	if showVersion {
		fmt.Printf("weekplan version %s\n", version)
		return nil
	}

	if initConfig {
		return createConfigTemplate()
	}

	if token != "" {
		if err := config.SaveToken(token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
		fmt.Println("Token saved.")
		return nil
	}

	var start schedule.Date
	if week != "" {
		d, err := schedule.ParseDate(week)
		if err != nil {
			return fmt.Errorf("invalid --week: %w", err)
		}
		start = d
	}

	switch {
	case exportPath != "":
		return exportWeek(exportPath, start)
	case addProject != "":
		return createProject(addProject)
	}
	return runApp(start)
}

// createConfigTemplate creates a template configuration file.
func createConfigTemplate() error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists: %s\n", path)
		fmt.Print("Overwrite? [y/N]: ")

		var response string
		fmt.Scanln(&response)

		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Config file created: %s\n\n", path)
	fmt.Println("Next steps:")
	fmt.Println("  1. Adjust the grid and reminder settings to taste")
	fmt.Println("  2. For Todoist, set store.driver to todoist and run 'weekplan --token <token>'")
	fmt.Println("  3. Run 'weekplan' to start")

	return nil
}

// setup loads the config, the logger and the store shared by every mode.
func setup(ctx context.Context, console bool) (*config.Config, zerolog.Logger, store.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, zerolog.Nop(), nil, nil, err
	}
	log, logCloser, err := logx.New(logx.Options{Level: cfg.Log.Level, Path: logPath, Console: console})
	if err != nil {
		return nil, zerolog.Nop(), nil, nil, err
	}

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		logCloser.Close()
		return nil, zerolog.Nop(), nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
		logCloser.Close()
	}
	return cfg, log, st, cleanup, nil
}

// exportWeek writes the week containing start (or this week) to path. A
// directory gets the default file name.
func exportWeek(path string, start schedule.Date) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, log, st, cleanup, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := st.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	w := schedule.NewWeek(schedule.RealClock{})
	if !start.IsZero() {
		w = schedule.NewWeekAt(start, schedule.RealClock{})
	}
	board := schedule.BuildBoard(snap.Tasks, w.Days(), schedule.BoardOptions{
		HiddenProjects: cfg.HiddenProjectSet(),
		ProjectOrder:   snap.ProjectOrder(),
	})

	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, ics.FileName(w.Monday()))
	}
	if err := ics.WriteFile(path, board, ics.Options{ProjectName: snap.ProjectName}); err != nil {
		return err
	}
	log.Info().Str("path", path).Str("week", w.Monday().String()).Msg("exported week")
	fmt.Printf("Exported %s to %s\n", w.Title(), path)
	return nil
}

func createProject(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, _, st, cleanup, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := st.AddProject(ctx, name, "")
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	fmt.Printf("Created project %s (%s)\n", p.Name, p.ID)
	return nil
}

// runApp starts the main TUI application.
func runApp(start schedule.Date) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, st, cleanup, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = "."
	}

	app := tui.NewApp(st, cfg, state.Options{
		ConfigPath: configPath,
		ExportDir:  exportDir,
		Log:        log,
		Start:      start,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if cfg.Reminders.Enabled {
		rem := reminder.New(st, nil, reminder.Options{
			Lead:     time.Duration(cfg.Reminders.LeadMinutes) * time.Minute,
			Schedule: cfg.Reminders.Schedule,
		}, log)
		if err := rem.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("reminders disabled")
		} else {
			defer rem.Stop()
		}
	}

	go func() {
		w := config.NewWatcher(configPath, log)
		err := w.Watch(ctx, func(c *config.Config) {
			p.Send(logic.ConfigReloadedMsg{Config: c})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("config watch stopped")
		}
	}()

	log.Info().Str("version", version).Str("driver", cfg.Store.Driver).Msg("starting")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}
