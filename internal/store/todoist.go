package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hy4ri/weekplan/internal/api"
	"github.com/hy4ri/weekplan/internal/schedule"
)

// Todoist keeps tasks in a Todoist account.
type Todoist struct {
	hub

	client *api.Client
	log    zerolog.Logger
	now    func() time.Time
	loc    *time.Location

	mu   sync.Mutex
	last Snapshot
}

// NewTodoist returns a store backed by client.
func NewTodoist(client *api.Client, log zerolog.Logger) *Todoist {
	return &Todoist{
		hub:    hub{log: log},
		client: client,
		log:    log,
		now:    time.Now,
		loc:    time.Local,
	}
}

// Snapshot implements Store. It always reads from the API.
func (s *Todoist) Snapshot(ctx context.Context) (Snapshot, error) {
	seq := s.next()
	projects, err := s.client.GetProjects(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	tasks, err := s.client.GetTasks(ctx, api.TaskFilter{})
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{At: s.now(), Seq: seq}
	for _, p := range projects {
		if p.IsArchived {
			continue
		}
		snap.Projects = append(snap.Projects, Project{ID: p.ID, Name: p.Name, Color: p.Color})
	}
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, s.fromAPI(t))
	}

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()
	return snap, nil
}

func (s *Todoist) cached(id string) (schedule.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.Task(id)
}

func (s *Todoist) refresh(ctx context.Context) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot after write failed")
		return
	}
	s.publish(snap)
}

func (s *Todoist) wrap(id string, err error) error {
	if api.IsNotFound(err) {
		return fmt.Errorf("%w: %w", notFound(id), err)
	}
	if apiErr, ok := api.IsAPIError(err); ok {
		switch {
		case apiErr.IsUnauthorized():
			return fmt.Errorf("todoist rejected the API token: %w", err)
		case apiErr.IsRateLimited():
			s.log.Warn().Str("task", id).Msg("todoist rate limit hit")
		case apiErr.IsServerError():
			s.log.Warn().Str("task", id).Int("status", apiErr.StatusCode).Msg("todoist server error")
		}
	}
	return err
}

// SetSchedule implements schedule.Writer. Recurring tasks are re-anchored
// through a due string so they keep repeating.
func (s *Todoist) SetSchedule(ctx context.Context, id string, date schedule.Date, at *schedule.TimeOfDay, duration int) error {
	req := api.UpdateTaskRequest{}
	if t, ok := s.cached(id); ok && t.Recurrence.Repeats() {
		req.DueString = api.String(dueString(t.Recurrence, date, at))
	} else if at != nil {
		req.DueDatetime = api.String(at.On(date, s.loc).Format("2006-01-02T15:04:05"))
	} else {
		req.DueDate = api.String(date.String())
	}
	if at != nil {
		req.Duration = api.Int(duration)
		req.DurationUnit = api.String("minute")
	}

	if _, err := s.client.UpdateTask(ctx, id, req); err != nil {
		return s.wrap(id, err)
	}
	s.refresh(ctx)
	return nil
}

// ClearSchedule implements schedule.Writer. Todoist drops the duration
// together with the due date.
func (s *Todoist) ClearSchedule(ctx context.Context, id string) error {
	if _, err := s.client.UpdateTask(ctx, id, api.UpdateTaskRequest{DueString: api.String("no date")}); err != nil {
		return s.wrap(id, err)
	}
	s.refresh(ctx)
	return nil
}

// SetDuration implements schedule.Writer.
func (s *Todoist) SetDuration(ctx context.Context, id string, duration int) error {
	req := api.UpdateTaskRequest{Duration: api.Int(duration), DurationUnit: api.String("minute")}
	if _, err := s.client.UpdateTask(ctx, id, req); err != nil {
		return s.wrap(id, err)
	}
	s.refresh(ctx)
	return nil
}

// Complete implements Store. Todoist advances recurring tasks itself.
func (s *Todoist) Complete(ctx context.Context, id string) error {
	if err := s.client.CloseTask(ctx, id); err != nil {
		return s.wrap(id, err)
	}
	s.refresh(ctx)
	return nil
}

// AddTask implements Store.
func (s *Todoist) AddTask(ctx context.Context, n NewTask) (schedule.Task, error) {
	if err := n.Validate(); err != nil {
		return schedule.Task{}, err
	}
	req := api.CreateTaskRequest{
		Content:   strings.TrimSpace(n.Title),
		ProjectID: n.ProjectID,
		Priority:  toAPIPriority(n.Priority),
	}
	if n.ProjectID == DefaultProjectID {
		req.ProjectID = ""
	}
	switch {
	case n.Date == nil:
	case n.Recurrence.Repeats():
		req.DueString = dueString(n.Recurrence, *n.Date, n.Time)
	case n.Time != nil:
		req.DueDatetime = n.Time.On(*n.Date, s.loc).Format("2006-01-02T15:04:05")
	default:
		req.DueDate = n.Date.String()
	}
	if n.Time != nil && n.Duration > 0 {
		req.Duration = n.Duration
		req.DurationUnit = "minute"
	}

	created, err := s.client.CreateTask(ctx, req)
	if err != nil {
		return schedule.Task{}, err
	}
	s.refresh(ctx)
	return s.fromAPI(*created), nil
}

// AddProject implements Store.
func (s *Todoist) AddProject(ctx context.Context, name, color string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, errors.New("project name cannot be empty")
	}
	p, err := s.client.CreateProject(ctx, api.CreateProjectRequest{Name: name, Color: color})
	if err != nil {
		return Project{}, err
	}
	s.refresh(ctx)
	return Project{ID: p.ID, Name: p.Name, Color: p.Color}, nil
}

// Close implements Store.
func (s *Todoist) Close() error {
	s.hub.close()
	return nil
}

func (s *Todoist) fromAPI(t api.Task) schedule.Task {
	out := schedule.Task{
		ID:        t.ID,
		ProjectID: t.ProjectID,
		Title:     t.Content,
		Priority:  fromAPIPriority(t.Priority),
		Completed: t.Checked,
	}
	if t.Duration != nil && t.Duration.Unit == "minute" {
		out.Duration = t.Duration.Amount
	}
	if t.Due == nil {
		return out
	}

	if t.Due.Datetime != nil && *t.Due.Datetime != "" {
		if at, ok := parseDatetime(*t.Due.Datetime, s.loc); ok {
			d := schedule.DateOf(at)
			tod := schedule.NewTimeOfDay(at.Hour(), at.Minute())
			out.Date, out.Time = &d, &tod
		}
	}
	if out.Date == nil && len(t.Due.Date) >= 10 {
		if d, err := schedule.ParseDate(t.Due.Date[:10]); err == nil {
			out.Date = &d
		}
	}
	if t.Due.IsRecurring {
		out.Recurrence = recurrenceFromDue(t.Due.String)
		if out.Recurrence == schedule.RecurrenceNone {
			s.log.Debug().Str("task", t.ID).Str("due", t.Due.String).Msg("recurrence pattern not projected")
		}
	} else {
		out.Recurrence = schedule.RecurrenceNone
	}
	return out
}

// parseDatetime reads floating ("2006-01-02T15:04:05") and UTC datetimes.
func parseDatetime(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

var duePhrases = []struct {
	phrases []string
	r       schedule.Recurrence
}{
	{[]string{"every day", "daily", "every 1 day"}, schedule.RecurrenceDaily},
	{[]string{"every week", "weekly", "every 1 week"}, schedule.RecurrenceWeekly},
	{[]string{"every month", "monthly", "every 1 month"}, schedule.RecurrenceMonthly},
	{[]string{"every year", "yearly", "annually", "every 1 year"}, schedule.RecurrenceYearly},
}

// recurrenceFromDue maps simple Todoist recurring due strings onto the
// supported recurrences. Anything else ("every other week", "every mon,
// fri") is not projected.
func recurrenceFromDue(due string) schedule.Recurrence {
	due = strings.ToLower(strings.TrimSpace(due))
	for _, p := range duePhrases {
		for _, phrase := range p.phrases {
			if due == phrase || strings.HasPrefix(due, phrase+" ") {
				return p.r
			}
		}
	}
	return schedule.RecurrenceNone
}

func dueString(r schedule.Recurrence, date schedule.Date, at *schedule.TimeOfDay) string {
	var every string
	switch r {
	case schedule.RecurrenceDaily:
		every = "every day"
	case schedule.RecurrenceWeekly:
		every = "every week"
	case schedule.RecurrenceMonthly:
		every = "every month"
	case schedule.RecurrenceYearly:
		every = "every year"
	}
	s := every + " starting " + date.String()
	if at != nil {
		s += " at " + at.String()
	}
	return s
}

// Todoist priorities run 4 (urgent) to 1 (normal).
func fromAPIPriority(p int) string {
	switch p {
	case 4:
		return "high"
	case 3:
		return "medium"
	case 2:
		return "low"
	}
	return "none"
}

func toAPIPriority(p string) int {
	switch p {
	case "high":
		return 4
	case "medium":
		return 3
	case "low":
		return 2
	}
	return 1
}
