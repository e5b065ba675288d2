package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hy4ri/weekplan/internal/schedule"
)

func date(y int, m time.Month, d int) *schedule.Date {
	v := schedule.NewDate(y, m, d)
	return &v
}

func clock(h, m int) *schedule.TimeOfDay {
	v := schedule.NewTimeOfDay(h, m)
	return &v
}

// localStores runs fn against every backend that keeps tasks locally.
func localStores(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		s := NewMemory(zerolog.Nop(), []Project{{ID: DefaultProjectID, Name: "Inbox"}})
		defer s.Close()
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenSQLite(context.Background(), ":memory:", zerolog.Nop())
		require.NoError(t, err)
		defer s.Close()
		fn(t, s)
	})
}

func TestStoreScheduleWrites(t *testing.T) {
	localStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		task, err := s.AddTask(ctx, NewTask{Title: "Write report", Priority: "high"})
		require.NoError(t, err)
		assert.Equal(t, schedule.Pooled, task.Placement())
		assert.Equal(t, DefaultProjectID, task.ProjectID)

		require.NoError(t, s.SetSchedule(ctx, task.ID, *date(2024, time.January, 8), clock(9, 0), 45))
		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		got, ok := snap.Task(task.ID)
		require.True(t, ok)
		assert.Equal(t, schedule.Timed, got.Placement())
		assert.Equal(t, "2024-01-08", got.Date.String())
		assert.Equal(t, "09:00", got.Time.String())
		assert.Equal(t, 45, got.Duration)
		assert.Equal(t, "high", got.Priority)

		require.NoError(t, s.SetDuration(ctx, task.ID, 90))
		require.NoError(t, s.SetSchedule(ctx, task.ID, *date(2024, time.January, 9), nil, 90))
		snap, _ = s.Snapshot(ctx)
		got, _ = snap.Task(task.ID)
		assert.Equal(t, schedule.AllDay, got.Placement())
		assert.Equal(t, 90, got.Duration)

		require.NoError(t, s.ClearSchedule(ctx, task.ID))
		snap, _ = s.Snapshot(ctx)
		got, _ = snap.Task(task.ID)
		assert.Equal(t, schedule.Pooled, got.Placement())
		assert.Equal(t, schedule.DefaultDuration, got.Duration)
	})
}

func TestStoreUnknownTask(t *testing.T) {
	localStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		assert.ErrorIs(t, s.SetSchedule(ctx, "ghost", *date(2024, time.January, 8), nil, 60), ErrNotFound)
		assert.ErrorIs(t, s.ClearSchedule(ctx, "ghost"), ErrNotFound)
		assert.ErrorIs(t, s.SetDuration(ctx, "ghost", 30), ErrNotFound)
		assert.ErrorIs(t, s.Complete(ctx, "ghost"), ErrNotFound)
	})
}

func TestStoreCompleteRecurringSpawnsNext(t *testing.T) {
	localStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		task, err := s.AddTask(ctx, NewTask{
			Title:      "Rent",
			Date:       date(2024, time.January, 31),
			Time:       clock(8, 30),
			Duration:   30,
			Recurrence: schedule.RecurrenceMonthly,
			Priority:   "medium",
		})
		require.NoError(t, err)

		require.NoError(t, s.Complete(ctx, task.ID))
		require.NoError(t, s.Complete(ctx, task.ID), "completing twice is a no-op")

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Tasks, 2)

		old, _ := snap.Task(task.ID)
		assert.True(t, old.Completed)

		var next schedule.Task
		for _, tt := range snap.Tasks {
			if tt.ID != task.ID {
				next = tt
			}
		}
		assert.False(t, next.Completed)
		assert.Equal(t, "2024-03-31", next.Date.String(), "February has no 31st")
		assert.Equal(t, "08:30", next.Time.String())
		assert.Equal(t, 30, next.Duration)
		assert.Equal(t, schedule.RecurrenceMonthly, next.Recurrence)
		assert.Equal(t, "Rent", next.Title)
		assert.Equal(t, "medium", next.Priority)
	})
}

func TestStoreCompleteOneOff(t *testing.T) {
	localStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		task, err := s.AddTask(ctx, NewTask{Title: "Once", Date: date(2024, time.January, 8)})
		require.NoError(t, err)
		require.NoError(t, s.Complete(ctx, task.ID))

		snap, _ := s.Snapshot(ctx)
		require.Len(t, snap.Tasks, 1)
		assert.True(t, snap.Tasks[0].Completed)
	})
}

func TestStoreAddValidation(t *testing.T) {
	localStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.AddTask(ctx, NewTask{Title: "  "})
		assert.Error(t, err)
		_, err = s.AddTask(ctx, NewTask{Title: "x", Time: clock(9, 0)})
		assert.Error(t, err)
		_, err = s.AddProject(ctx, "", "")
		assert.Error(t, err)
	})
}

func TestStoreProjects(t *testing.T) {
	localStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p, err := s.AddProject(ctx, "Work", "blue")
		require.NoError(t, err)

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{DefaultProjectID, p.ID}, snap.ProjectOrder())
		assert.Equal(t, "Work", snap.ProjectName(p.ID))
		assert.Equal(t, "unknown", snap.ProjectName("unknown"))
	})
}

func TestStorePublishesAfterWrites(t *testing.T) {
	localStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		ch := s.Subscribe(4)
		defer s.Unsubscribe(ch)

		task, err := s.AddTask(ctx, NewTask{Title: "Ping"})
		require.NoError(t, err)
		snap := <-ch
		assert.Len(t, snap.Tasks, 1)

		require.NoError(t, s.SetSchedule(ctx, task.ID, *date(2024, time.January, 8), clock(10, 0), 60))
		snap = <-ch
		got, _ := snap.Task(task.ID)
		assert.Equal(t, "10:00", got.Time.String())

		assert.Error(t, s.SetDuration(ctx, "ghost", 15))
		select {
		case <-ch:
			t.Fatal("failed writes must not publish")
		default:
		}
	})
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(zerolog.Nop(), nil, schedule.Task{ID: "a", Title: "A", Date: date(2024, time.January, 8)})
	snap, _ := s.Snapshot(ctx)
	*snap.Tasks[0].Date = schedule.NewDate(1999, time.January, 1)

	again, _ := s.Snapshot(ctx)
	assert.Equal(t, "2024-01-08", again.Tasks[0].Date.String())
}

func TestSnapshotLookup(t *testing.T) {
	snap := Snapshot{Tasks: []schedule.Task{{ID: "a"}}}
	lookup := snap.Lookup()
	_, ok := lookup("a")
	assert.True(t, ok)
	_, ok = lookup("b")
	assert.False(t, ok)
}

func TestNextInstance(t *testing.T) {
	_, ok := nextInstance(schedule.Task{Recurrence: schedule.RecurrenceDaily})
	assert.False(t, ok, "undated tasks have no next instance")

	_, ok = nextInstance(schedule.Task{Date: date(2024, time.January, 1)})
	assert.False(t, ok)

	next, ok := nextInstance(schedule.Task{
		Date:       date(2024, time.February, 29),
		Recurrence: schedule.RecurrenceYearly,
	})
	require.True(t, ok)
	assert.Equal(t, "2028-02-29", next.Date.String())
	assert.Equal(t, schedule.DefaultDuration, next.Duration)
}

func TestStorePushesInOrder(t *testing.T) {
	localStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		task, err := s.AddTask(ctx, NewTask{Title: "Ping"})
		require.NoError(t, err)
		require.NoError(t, s.SetSchedule(ctx, task.ID, *date(2024, time.January, 8), clock(10, 0), 60))

		ch := s.Subscribe(32)
		defer s.Unsubscribe(ch)

		var wg sync.WaitGroup
		for i := 1; i <= 8; i++ {
			wg.Add(1)
			go func(d int) {
				defer wg.Done()
				assert.NoError(t, s.SetDuration(ctx, task.ID, d*schedule.SlotMinutes))
			}(i)
		}
		wg.Wait()

		var last Snapshot
		for len(ch) > 0 {
			snap := <-ch
			assert.Greater(t, snap.Seq, last.Seq, "pushes arrive oldest first")
			last = snap
		}
		require.NotZero(t, last.Seq)

		stored, err := s.Snapshot(ctx)
		require.NoError(t, err)
		want, _ := stored.Task(task.ID)
		got, _ := last.Task(task.ID)
		assert.Equal(t, want.Duration, got.Duration, "the last push is the stored state")
	})
}
