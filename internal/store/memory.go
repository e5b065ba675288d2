package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hy4ri/weekplan/internal/schedule"
)

// Memory is a process-local store. It backs tests and the memory driver.
type Memory struct {
	hub

	mu       sync.RWMutex
	tasks    []schedule.Task
	projects []Project
	now      func() time.Time
}

// NewMemory returns an empty store holding projects.
func NewMemory(log zerolog.Logger, projects []Project, tasks ...schedule.Task) *Memory {
	m := &Memory{
		hub:      hub{log: log},
		projects: append([]Project(nil), projects...),
		now:      time.Now,
	}
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		m.tasks = append(m.tasks, cloneTask(t))
	}
	return m
}

// Snapshot implements Store.
func (m *Memory) Snapshot(context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(), nil
}

func (m *Memory) snapshotLocked() Snapshot {
	tasks := make([]schedule.Task, len(m.tasks))
	for i, t := range m.tasks {
		tasks[i] = cloneTask(t)
	}
	return Snapshot{
		Tasks:    tasks,
		Projects: append([]Project(nil), m.projects...),
		At:       m.now(),
		Seq:      m.next(),
	}
}

// update applies fn to the task with id and publishes the result.
func (m *Memory) update(id string, fn func(*schedule.Task)) error {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return notFound(id)
	}
	fn(&m.tasks[i])
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap)
	return nil
}

func (m *Memory) indexLocked(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SetSchedule implements schedule.Writer.
func (m *Memory) SetSchedule(_ context.Context, id string, date schedule.Date, at *schedule.TimeOfDay, duration int) error {
	return m.update(id, func(t *schedule.Task) {
		t.Date = &date
		t.Time = cloneTime(at)
		t.Duration = duration
	})
}

// ClearSchedule implements schedule.Writer.
func (m *Memory) ClearSchedule(_ context.Context, id string) error {
	return m.update(id, func(t *schedule.Task) {
		t.Date = nil
		t.Time = nil
		t.Duration = schedule.DefaultDuration
	})
}

// SetDuration implements schedule.Writer.
func (m *Memory) SetDuration(_ context.Context, id string, duration int) error {
	return m.update(id, func(t *schedule.Task) {
		t.Duration = duration
	})
}

// Complete implements Store.
func (m *Memory) Complete(_ context.Context, id string) error {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return notFound(id)
	}
	if m.tasks[i].Completed {
		m.mu.Unlock()
		return nil
	}
	m.tasks[i].Completed = true
	if next, ok := nextInstance(m.tasks[i]); ok {
		m.tasks = append(m.tasks, m.newTaskLocked(next))
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap)
	return nil
}

// AddTask implements Store.
func (m *Memory) AddTask(_ context.Context, n NewTask) (schedule.Task, error) {
	if err := n.Validate(); err != nil {
		return schedule.Task{}, err
	}
	m.mu.Lock()
	t := m.newTaskLocked(n)
	m.tasks = append(m.tasks, t)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap)
	return cloneTask(t), nil
}

func (m *Memory) newTaskLocked(n NewTask) schedule.Task {
	project := n.ProjectID
	if project == "" {
		project = DefaultProjectID
	}
	t := schedule.Task{
		ID:         uuid.NewString(),
		ProjectID:  project,
		Title:      strings.TrimSpace(n.Title),
		Priority:   normalizePriority(n.Priority),
		Date:       cloneDate(n.Date),
		Time:       cloneTime(n.Time),
		Duration:   n.Duration,
		Recurrence: n.Recurrence,
	}
	if t.Duration <= 0 {
		t.Duration = schedule.DefaultDuration
	}
	if t.Recurrence == "" {
		t.Recurrence = schedule.RecurrenceNone
	}
	return t
}

// AddProject implements Store.
func (m *Memory) AddProject(_ context.Context, name, color string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, errors.New("project name cannot be empty")
	}
	p := Project{ID: uuid.NewString(), Name: name, Color: color}
	m.mu.Lock()
	m.projects = append(m.projects, p)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap)
	return p, nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.hub.close()
	return nil
}
