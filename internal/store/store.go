// Package store persists tasks and pushes snapshots of them to the board.
//
// Every backend implements Store. Writes are single calls; after each
// successful write the backend publishes a fresh Snapshot to subscribers.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hy4ri/weekplan/internal/api"
	"github.com/hy4ri/weekplan/internal/config"
	"github.com/hy4ri/weekplan/internal/schedule"
)

// ErrNotFound is returned for writes against a task id the store does not
// hold.
var ErrNotFound = errors.New("task not found")

// DefaultProjectID is the project quick-added tasks land in when none is
// given. Local stores seed it.
const DefaultProjectID = "inbox"

// Project groups tasks.
type Project struct {
	ID    string
	Name  string
	Color string
}

// Snapshot is an immutable view of the store.
type Snapshot struct {
	Tasks    []schedule.Task
	Projects []Project
	At       time.Time
	// Seq orders the snapshots of one store; higher is newer. Zero is
	// unordered.
	Seq uint64
}

// Older reports whether s was taken before o.
func (s Snapshot) Older(o Snapshot) bool {
	return s.Seq != 0 && s.Seq < o.Seq
}

// Task returns the task with id.
func (s Snapshot) Task(id string) (schedule.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return schedule.Task{}, false
}

// Lookup adapts the snapshot for resize release checks.
func (s Snapshot) Lookup() schedule.TaskLookup {
	return s.Task
}

// Project returns the project with id.
func (s Snapshot) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// ProjectName returns the project's name, or its id when unknown.
func (s Snapshot) ProjectName(id string) string {
	if p, ok := s.Project(id); ok {
		return p.Name
	}
	return id
}

// ProjectOrder returns project ids in store order.
func (s Snapshot) ProjectOrder() []string {
	ids := make([]string, len(s.Projects))
	for i, p := range s.Projects {
		ids[i] = p.ID
	}
	return ids
}

// NewTask is the input of AddTask.
type NewTask struct {
	Title      string
	ProjectID  string
	Priority   string
	Date       *schedule.Date
	Time       *schedule.TimeOfDay
	Duration   int
	Recurrence schedule.Recurrence
}

// Validate rejects tasks that cannot be stored.
func (n NewTask) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return errors.New("task title cannot be empty")
	}
	if n.Time != nil && n.Date == nil {
		return errors.New("a timed task needs a date")
	}
	return nil
}

// Store is the task store contract.
type Store interface {
	schedule.Writer

	// Snapshot reads the current state.
	Snapshot(ctx context.Context) (Snapshot, error)
	// Subscribe returns a channel receiving a snapshot after every write.
	// Slow subscribers lose the oldest pending snapshot, never the newest.
	Subscribe(buffer int) <-chan Snapshot
	Unsubscribe(ch <-chan Snapshot)

	// Complete marks a task done. Completing a recurring task schedules
	// its next instance.
	Complete(ctx context.Context, taskID string) error
	// AddTask stores a new task.
	AddTask(ctx context.Context, t NewTask) (schedule.Task, error)
	// AddProject stores a new project.
	AddProject(ctx context.Context, name, color string) (Project, error)

	Close() error
}

// Open initializes the configured store.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	log = log.With().Str("component", "store").Str("driver", driver).Logger()

	switch driver {
	case config.DriverSQLite, "":
		path, err := cfg.DatabasePath()
		if err != nil {
			return nil, err
		}
		return OpenSQLite(ctx, path, log)
	case config.DriverTodoist:
		token, err := cfg.Token()
		if err != nil {
			return nil, fmt.Errorf("read todoist token: %w", err)
		}
		if token == "" {
			return nil, fmt.Errorf("todoist driver needs an API token (set %s or run --init)", config.TokenEnv)
		}
		return NewTodoist(api.NewClient(token), log), nil
	case config.DriverMemory:
		return NewMemory(log, []Project{{ID: DefaultProjectID, Name: "Inbox"}}), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}

// nextInstance returns the task that follows t once t is completed.
func nextInstance(t schedule.Task) (NewTask, bool) {
	if !t.Recurrence.Repeats() || t.Date == nil {
		return NewTask{}, false
	}
	next, ok := schedule.NextDue(t.Recurrence, *t.Date)
	if !ok {
		return NewTask{}, false
	}
	return NewTask{
		Title:      t.Title,
		ProjectID:  t.ProjectID,
		Priority:   t.Priority,
		Date:       &next,
		Time:       cloneTime(t.Time),
		Duration:   t.EffectiveDuration(),
		Recurrence: t.Recurrence,
	}, true
}

func cloneTask(t schedule.Task) schedule.Task {
	t.Date = cloneDate(t.Date)
	t.Time = cloneTime(t.Time)
	return t
}

func cloneDate(d *schedule.Date) *schedule.Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneTime(t *schedule.TimeOfDay) *schedule.TimeOfDay {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func normalizePriority(p string) string {
	switch p {
	case "high", "medium", "low":
		return p
	}
	return "none"
}
