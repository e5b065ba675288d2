package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/store"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type note struct{ title, message string }

type fakeNotifier struct {
	sent []note
	err  error
}

func (f *fakeNotifier) Notify(title, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, note{title, message})
	return nil
}

func task(id, title string, date schedule.Date, hour, minute int, r schedule.Recurrence) schedule.Task {
	at := schedule.NewTimeOfDay(hour, minute)
	return schedule.Task{ID: id, ProjectID: "work", Title: title, Date: &date, Time: &at, Duration: 30, Recurrence: r}
}

func setup(t *testing.T, now time.Time, tasks ...schedule.Task) (*Service, *fakeNotifier, *fixedClock) {
	t.Helper()
	src := store.NewMemory(zerolog.Nop(), []store.Project{{ID: "work", Name: "Work"}}, tasks...)
	t.Cleanup(func() { _ = src.Close() })
	n := &fakeNotifier{}
	clock := &fixedClock{now: now}
	s := New(src, n, Options{Lead: 10 * time.Minute, Clock: clock}, zerolog.Nop())
	return s, n, clock
}

func TestCheckNotifiesWithinLead(t *testing.T) {
	day := schedule.NewDate(2024, time.January, 8)
	now := time.Date(2024, time.January, 8, 8, 55, 0, 0, time.Local)
	s, n, _ := setup(t, now,
		task("soon", "Standup", day, 9, 0, schedule.RecurrenceNone),
		task("later", "Lunch", day, 12, 0, schedule.RecurrenceNone),
		task("tomorrow", "Review", day.AddDays(1), 9, 0, schedule.RecurrenceNone),
	)

	sent, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, n.sent, 1)
	assert.Equal(t, "Work", n.sent[0].title)
	assert.Equal(t, "Standup at 09:00", n.sent[0].message)
}

func TestCheckNotifiesOnce(t *testing.T) {
	day := schedule.NewDate(2024, time.January, 8)
	s, n, clock := setup(t, time.Date(2024, time.January, 8, 8, 52, 0, 0, time.Local),
		task("a", "Standup", day, 9, 0, schedule.RecurrenceNone))

	_, err := s.Check(context.Background())
	require.NoError(t, err)
	clock.now = clock.now.Add(5 * time.Minute)
	_, err = s.Check(context.Background())
	require.NoError(t, err)
	assert.Len(t, n.sent, 1)
}

func TestCheckCoversProjections(t *testing.T) {
	anchor := schedule.NewDate(2024, time.January, 1)
	s, n, _ := setup(t, time.Date(2024, time.January, 10, 9, 25, 0, 0, time.Local),
		task("daily", "Stretch", anchor, 9, 30, schedule.RecurrenceDaily))

	sent, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "Stretch at 09:30", n.sent[0].message)
}

func TestCheckSkipsStaleAndCompleted(t *testing.T) {
	day := schedule.NewDate(2024, time.January, 8)
	done := task("done", "Done", day, 9, 0, schedule.RecurrenceNone)
	done.Completed = true
	allDay := schedule.Task{ID: "allday", Title: "Holiday", Date: &day}

	s, n, _ := setup(t, time.Date(2024, time.January, 8, 9, 0, 0, 0, time.Local),
		done,
		allDay,
		task("past", "Early", day, 8, 0, schedule.RecurrenceNone),
	)
	sent, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, n.sent)
}

func TestCheckNotifierError(t *testing.T) {
	day := schedule.NewDate(2024, time.January, 8)
	s, n, _ := setup(t, time.Date(2024, time.January, 8, 8, 59, 0, 0, time.Local),
		task("a", "Standup", day, 9, 0, schedule.RecurrenceNone))
	n.err = errors.New("no notification daemon")

	sent, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(store.NewMemory(zerolog.Nop(), nil), &fakeNotifier{}, Options{Schedule: "every now and then"}, zerolog.Nop())
	assert.Error(t, s.Start(context.Background()))
	s.Stop()
}

func TestStartStop(t *testing.T) {
	s := New(store.NewMemory(zerolog.Nop(), nil), &fakeNotifier{}, Options{}, zerolog.Nop())
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	s.Stop()
}

func TestCheckForgetsPastStarts(t *testing.T) {
	day := schedule.NewDate(2024, time.January, 8)
	s, n, clock := setup(t, time.Date(2024, time.January, 8, 8, 55, 0, 0, time.Local),
		task("standup", "Standup", day, 9, 0, schedule.RecurrenceDaily),
	)

	_, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, n.sent, 1)
	assert.Len(t, s.notified, 1)

	// Past the grace window the entry is dropped.
	clock.now = time.Date(2024, time.January, 8, 9, 6, 0, 0, time.Local)
	_, err = s.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.notified)

	// The next day's start notifies again.
	clock.now = time.Date(2024, time.January, 9, 8, 55, 0, 0, time.Local)
	sent, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, s.notified, 1)
}
