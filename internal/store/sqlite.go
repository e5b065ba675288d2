package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/hy4ri/weekplan/internal/schedule"
)

//go:embed migrations.sql
var migrations string

// SQLite is the local task store.
type SQLite struct {
	hub

	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string, log zerolog.Logger) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite prefers a single writer; one connection also keeps ":memory:"
	// databases alive for the store's lifetime.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000")
	if path != ":memory:" {
		_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
		_, _ = db.ExecContext(ctx, "PRAGMA synchronous = NORMAL")
	}

	if _, err := db.ExecContext(ctx, migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	log.Debug().Str("path", path).Msg("sqlite store opened")
	return &SQLite{hub: hub{log: log}, db: db, log: log, now: time.Now}, nil
}

// Snapshot implements Store.
func (s *SQLite) Snapshot(ctx context.Context) (Snapshot, error) {
	seq := s.next()
	projects, err := s.projects(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	tasks, err := s.tasks(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Tasks: tasks, Projects: projects, At: s.now(), Seq: seq}, nil
}

func (s *SQLite) projects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM projects ORDER BY position, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLite) tasks(ctx context.Context) ([]schedule.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, title, priority, due_date, due_time, duration, recurrence, completed
		 FROM tasks ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var out []schedule.Task
	for rows.Next() {
		t, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLite) scanTask(rows *sql.Rows) (schedule.Task, error) {
	var (
		t          schedule.Task
		date, at   sql.NullString
		recurrence string
	)
	if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Priority, &date, &at, &t.Duration, &recurrence, &t.Completed); err != nil {
		return t, fmt.Errorf("scan task: %w", err)
	}

	if date.Valid && date.String != "" {
		d, err := schedule.ParseDate(date.String)
		if err != nil {
			return t, fmt.Errorf("task %s: %w", t.ID, err)
		}
		t.Date = &d
	}
	if at.Valid && at.String != "" && t.Date != nil {
		tod, err := schedule.ParseTimeOfDay(at.String)
		if err != nil {
			return t, fmt.Errorf("task %s: %w", t.ID, err)
		}
		t.Time = &tod
	}

	r, ok := schedule.ParseRecurrence(recurrence)
	if !ok {
		s.log.Warn().Str("task", t.ID).Str("recurrence", recurrence).Msg("unknown recurrence; treating as none")
	}
	t.Recurrence = r
	return t, nil
}

// exec runs a single-row write, maps a missed row to ErrNotFound and
// publishes the new state.
func (s *SQLite) exec(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	if n == 0 {
		return notFound(id)
	}
	s.refresh(ctx)
	return nil
}

func (s *SQLite) refresh(ctx context.Context) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot after write failed")
		return
	}
	s.publish(snap)
}

// SetSchedule implements schedule.Writer.
func (s *SQLite) SetSchedule(ctx context.Context, id string, date schedule.Date, at *schedule.TimeOfDay, duration int) error {
	return s.exec(ctx, id,
		`UPDATE tasks SET due_date = ?, due_time = ?, duration = ? WHERE id = ?`,
		date.String(), timeArg(at), duration, id)
}

// ClearSchedule implements schedule.Writer.
func (s *SQLite) ClearSchedule(ctx context.Context, id string) error {
	return s.exec(ctx, id,
		`UPDATE tasks SET due_date = NULL, due_time = NULL, duration = ? WHERE id = ?`,
		schedule.DefaultDuration, id)
}

// SetDuration implements schedule.Writer.
func (s *SQLite) SetDuration(ctx context.Context, id string, duration int) error {
	return s.exec(ctx, id, `UPDATE tasks SET duration = ? WHERE id = ?`, duration, id)
}

// Complete implements Store.
func (s *SQLite) Complete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, project_id, title, priority, due_date, due_time, duration, recurrence, completed
		 FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	var (
		t     schedule.Task
		found bool
	)
	if rows.Next() {
		t, err = s.scanTask(rows)
		found = err == nil
	}
	rows.Close()
	if err != nil {
		return err
	}
	if !found {
		return notFound(id)
	}
	if t.Completed {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET completed = 1, completed_at = ? WHERE id = ?`,
		s.now().UTC().Format(time.RFC3339), id); err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	if next, ok := nextInstance(t); ok {
		created, err := s.insert(ctx, tx, next)
		if err != nil {
			return err
		}
		s.log.Info().Str("task", id).Str("next", created.ID).Str("date", next.Date.String()).Msg("recurring task advanced")
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	s.refresh(ctx)
	return nil
}

// AddTask implements Store.
func (s *SQLite) AddTask(ctx context.Context, n NewTask) (schedule.Task, error) {
	if err := n.Validate(); err != nil {
		return schedule.Task{}, err
	}
	t, err := s.insert(ctx, s.db, n)
	if err != nil {
		return schedule.Task{}, err
	}
	s.refresh(ctx)
	return t, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLite) insert(ctx context.Context, db execer, n NewTask) (schedule.Task, error) {
	project := n.ProjectID
	if project == "" {
		project = DefaultProjectID
	}
	duration := n.Duration
	if duration <= 0 {
		duration = schedule.DefaultDuration
	}
	t := schedule.Task{
		ID:         uuid.NewString(),
		ProjectID:  project,
		Title:      strings.TrimSpace(n.Title),
		Priority:   normalizePriority(n.Priority),
		Date:       cloneDate(n.Date),
		Time:       cloneTime(n.Time),
		Duration:   duration,
		Recurrence: n.Recurrence,
	}
	if t.Recurrence == "" {
		t.Recurrence = schedule.RecurrenceNone
	}

	var date any
	if t.Date != nil {
		date = t.Date.String()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO tasks(id, project_id, title, priority, due_date, due_time, duration, recurrence, completed, created_at)
		 VALUES(?,?,?,?,?,?,?,?,0,?)`,
		t.ID, t.ProjectID, t.Title, t.Priority, date, timeArg(t.Time), t.Duration, string(t.Recurrence),
		s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return schedule.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// AddProject implements Store.
func (s *SQLite) AddProject(ctx context.Context, name, color string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, errors.New("project name cannot be empty")
	}
	p := Project{ID: uuid.NewString(), Name: name, Color: color}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects(id, name, color, position)
		 VALUES(?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM projects))`,
		p.ID, p.Name, p.Color)
	if err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}
	s.refresh(ctx)
	return p, nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	s.hub.close()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func timeArg(t *schedule.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}
