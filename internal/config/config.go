// Package config handles loading and saving application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "weekplan"

// Store drivers.
const (
	DriverSQLite  = "sqlite"
	DriverTodoist = "todoist"
	DriverMemory  = "memory"
)

// Config represents the application configuration.
type Config struct {
	Store     StoreConfig    `yaml:"store"`
	Grid      GridConfig     `yaml:"grid"`
	UI        UIConfig       `yaml:"ui"`
	Reminders ReminderConfig `yaml:"reminders"`
	Log       LogConfig      `yaml:"log"`
	Auth      AuthConfig     `yaml:"auth"`
}

// StoreConfig selects the task store backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path is the sqlite database file. Empty means the data directory.
	Path string `yaml:"path,omitempty"`
}

// GridConfig controls the week grid geometry.
type GridConfig struct {
	RowsPerHour  int `yaml:"rows_per_hour"`
	DayStartHour int `yaml:"day_start_hour"`
	AllDayRows   int `yaml:"all_day_rows"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	VimMode        bool     `yaml:"vim_mode"`
	ShowPool       bool     `yaml:"show_pool"`
	HiddenProjects []string `yaml:"hidden_projects,omitempty"`
}

// ReminderConfig controls "starting soon" notifications.
type ReminderConfig struct {
	Enabled     bool   `yaml:"enabled"`
	LeadMinutes int    `yaml:"lead_minutes"`
	Schedule    string `yaml:"schedule"` // cron spec
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path,omitempty"`
}

// AuthConfig holds authentication-related settings.
type AuthConfig struct {
	// APIToken is the Todoist personal API token. Prefer the keyring.
	APIToken string `yaml:"api_token,omitempty"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{Driver: DriverSQLite},
		Grid: GridConfig{
			RowsPerHour:  4,
			DayStartHour: 8,
			AllDayRows:   2,
		},
		UI: UIConfig{
			VimMode:  true,
			ShowPool: true,
		},
		Reminders: ReminderConfig{
			Enabled:     true,
			LeadMinutes: 10,
			Schedule:    "@every 1m",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.RowsPerHour < 1 || c.Grid.RowsPerHour > 12 {
		errs = append(errs, fmt.Errorf("grid.rows_per_hour must be between 1 and 12, got %d", c.Grid.RowsPerHour))
	}
	if c.Grid.DayStartHour < 0 || c.Grid.DayStartHour > 23 {
		errs = append(errs, fmt.Errorf("grid.day_start_hour must be between 0 and 23, got %d", c.Grid.DayStartHour))
	}
	if c.Grid.AllDayRows < 1 {
		errs = append(errs, fmt.Errorf("grid.all_day_rows must be positive, got %d", c.Grid.AllDayRows))
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverTodoist, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not one of sqlite, todoist, memory", c.Store.Driver))
	}
	if c.Reminders.LeadMinutes < 0 {
		errs = append(errs, fmt.Errorf("reminders.lead_minutes must not be negative"))
	}
	return errors.Join(errs...)
}

// HiddenProjectSet returns ui.hidden_projects as a set.
func (c *Config) HiddenProjectSet() map[string]bool {
	set := make(map[string]bool, len(c.UI.HiddenProjects))
	for _, id := range c.UI.HiddenProjects {
		set[id] = true
	}
	return set
}

// ToggleHiddenProject flips the visibility of a project on the calendar.
func (c *Config) ToggleHiddenProject(id string) {
	for i, p := range c.UI.HiddenProjects {
		if p == id {
			c.UI.HiddenProjects = append(c.UI.HiddenProjects[:i], c.UI.HiddenProjects[i+1:]...)
			return
		}
	}
	c.UI.HiddenProjects = append(c.UI.HiddenProjects, id)
}

// ConfigDir returns the path to the configuration directory.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(homeDir, ".config")
	}

	configDir := filepath.Join(base, appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from the default config file.
// If the file doesn't exist, returns a default configuration.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the default config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes the configuration to path.
func SaveFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DatabasePath returns store.path, defaulting to the data directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Store.Path != "" {
		return expandHome(c.Store.Path)
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".db"), nil
}

// LogPath returns log.path, defaulting to the data directory.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return expandHome(c.Log.Path)
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(p, "~")), nil
}
