package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragKeepsGrabOffset(t *testing.T) {
	m := NewMachine(NewAxis(60))
	occ := timedOcc("a", "07:00", 45)

	s, err := m.BeginDrag(occ, 440, 420)
	require.NoError(t, err)
	assert.Equal(t, Dragging, m.State())
	assert.Equal(t, 20.0, s.GrabOffset())

	day := NewDate(2024, time.January, 10)
	s.Hover(GridTarget(day, 500))
	preview, ok := s.PreviewTime()
	require.True(t, ok)
	assert.Equal(t, "08:00", preview.String())

	w, ok := s.Drop(GridTarget(day, 500))
	require.True(t, ok)
	assert.Equal(t, OpSetSchedule, w.Op)
	assert.Equal(t, "a", w.TaskID)
	assert.Equal(t, day, w.Date)
	require.NotNil(t, w.Time)
	assert.Equal(t, "08:00", w.Time.String())
	assert.Equal(t, 45, w.Duration)
	assert.Equal(t, Idle, m.State())
}

func TestDragAboveGridClampsToMidnight(t *testing.T) {
	m := NewMachine(NewAxis(60))
	s, err := m.BeginDrag(timedOcc("a", "00:30", 30), 40, 30)
	require.NoError(t, err)

	w, ok := s.Drop(GridTarget(NewDate(2024, time.January, 8), 4))
	require.True(t, ok)
	assert.Equal(t, "00:00", w.Time.String())
}

func TestDropTargets(t *testing.T) {
	day := NewDate(2024, time.January, 9)

	t.Run("pool clears the schedule", func(t *testing.T) {
		m := NewMachine(NewAxis(60))
		s, _ := m.BeginDrag(timedOcc("a", "09:00", 90), 0, 0)
		w, ok := s.Drop(PoolTarget())
		require.True(t, ok)
		assert.Equal(t, Write{Op: OpClearSchedule, TaskID: "a"}, w)
	})

	t.Run("all-day keeps the duration", func(t *testing.T) {
		m := NewMachine(NewAxis(60))
		s, _ := m.BeginDrag(timedOcc("a", "09:00", 90), 0, 0)
		w, ok := s.Drop(AllDayTarget(day))
		require.True(t, ok)
		assert.Equal(t, OpSetSchedule, w.Op)
		assert.Nil(t, w.Time)
		assert.Equal(t, 90, w.Duration)
		assert.Equal(t, day, w.Date)
	})

	t.Run("pooled task gets the default duration", func(t *testing.T) {
		m := NewMachine(NewAxis(60))
		s, _ := m.BeginDrag(RealOccurrence(Task{ID: "p"}), 0, 0)
		w, ok := s.Drop(GridTarget(day, 600))
		require.True(t, ok)
		assert.Equal(t, DefaultDuration, w.Duration)
		assert.Equal(t, "10:00", w.Time.String())
	})

	t.Run("nothing cancels", func(t *testing.T) {
		m := NewMachine(NewAxis(60))
		s, _ := m.BeginDrag(timedOcc("a", "09:00", 90), 0, 0)
		_, ok := s.Drop(Target{})
		assert.False(t, ok)
		assert.Equal(t, Idle, m.State())
	})
}

func TestDragVirtualResolvesToSource(t *testing.T) {
	anchor := NewDate(2024, time.January, 1)
	at := NewTimeOfDay(9, 0)
	task := Task{ID: "series", Date: &anchor, Time: &at, Duration: 30, Recurrence: RecurrenceWeekly}
	occs := Project(task, weekOf(NewDate(2024, time.January, 8)))
	require.Len(t, occs, 1)

	m := NewMachine(NewAxis(60))
	s, err := m.BeginDrag(occs[0], 540, 540)
	require.NoError(t, err)
	assert.Equal(t, "series", s.TaskID())
	assert.Equal(t, occs[0].Key, m.Gesture().Key)

	w, ok := s.Drop(GridTarget(NewDate(2024, time.January, 10), 600))
	require.True(t, ok)
	assert.Equal(t, "series", w.TaskID)
}

func TestOneGestureAtATime(t *testing.T) {
	m := NewMachine(NewAxis(60))
	occ := timedOcc("a", "09:00", 60)

	s, err := m.BeginDrag(occ, 0, 0)
	require.NoError(t, err)
	_, err = m.BeginDrag(occ, 0, 0)
	assert.ErrorIs(t, err, ErrGestureActive)
	_, err = m.BeginResize(occ, 0)
	assert.ErrorIs(t, err, ErrGestureActive)

	s.Cancel()
	assert.Equal(t, Idle, m.State())
	_, ok := s.Drop(PoolTarget())
	assert.False(t, ok, "a finished session never writes")

	_, err = m.BeginResize(occ, 0)
	require.NoError(t, err)
	assert.Equal(t, Resizing, m.State())
	m.Cancel()
	assert.Equal(t, Idle, m.State())
}

func TestResize(t *testing.T) {
	m := NewMachine(NewAxis(60))
	s, err := m.BeginResize(timedOcc("a", "09:00", 60), 600)
	require.NoError(t, err)
	assert.Equal(t, 60, s.InitialDuration())
	assert.Equal(t, 60.0, s.Height())

	assert.Equal(t, 82.0, s.Move(622))
	assert.Equal(t, 75, s.Duration())
	assert.Equal(t, 82.0, m.Gesture().PreviewHeight)

	w, ok := s.Release(nil)
	require.True(t, ok)
	assert.Equal(t, Write{Op: OpSetDuration, TaskID: "a", Duration: 75}, w)
	assert.Equal(t, Idle, m.State())
}

func TestResizeClampsToOneSlot(t *testing.T) {
	m := NewMachine(NewAxis(4))
	s, err := m.BeginResize(timedOcc("a", "09:00", 60), 100)
	require.NoError(t, err)
	assert.Equal(t, 4.0, s.Height())

	assert.Equal(t, 1.0, s.Move(0))
	w, ok := s.Release(nil)
	require.True(t, ok)
	assert.Equal(t, MinDuration, w.Duration)
}

func TestResizeRejectsUntimed(t *testing.T) {
	m := NewMachine(NewAxis(60))
	d := NewDate(2024, time.January, 8)
	_, err := m.BeginResize(RealOccurrence(Task{ID: "a", Date: &d}), 0)
	assert.ErrorIs(t, err, ErrNotTimed)
	assert.Equal(t, Idle, m.State())
}

func TestResizeReleaseOnStaleTask(t *testing.T) {
	d := NewDate(2024, time.January, 8)
	tests := []struct {
		name   string
		lookup TaskLookup
	}{
		{"deleted", func(string) (Task, bool) { return Task{}, false }},
		{"moved to all-day", func(id string) (Task, bool) { return Task{ID: id, Date: &d}, true }},
		{"moved to pool", func(id string) (Task, bool) { return Task{ID: id}, true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(NewAxis(60))
			s, err := m.BeginResize(timedOcc("a", "09:00", 60), 0)
			require.NoError(t, err)
			s.Move(30)
			_, ok := s.Release(tt.lookup)
			assert.False(t, ok)
			assert.Equal(t, Idle, m.State())
		})
	}
}

func TestSetAxisOnlyWhenIdle(t *testing.T) {
	m := NewMachine(NewAxis(60))
	s, _ := m.BeginDrag(timedOcc("a", "09:00", 60), 0, 0)
	m.SetAxis(NewAxis(4))
	assert.Equal(t, 60.0, m.Axis().PixelsPerHour)
	s.Cancel()
	m.SetAxis(NewAxis(4))
	assert.Equal(t, 4.0, m.Axis().PixelsPerHour)
}

type recordingWriter struct {
	calls []string
	err   error
}

func (r *recordingWriter) SetSchedule(_ context.Context, id string, d Date, at *TimeOfDay, dur int) error {
	if at == nil {
		r.calls = append(r.calls, "set "+id+" "+d.String()+" all-day")
	} else {
		r.calls = append(r.calls, "set "+id+" "+d.String()+" "+at.String())
	}
	return r.err
}

func (r *recordingWriter) ClearSchedule(_ context.Context, id string) error {
	r.calls = append(r.calls, "clear "+id)
	return r.err
}

func (r *recordingWriter) SetDuration(_ context.Context, id string, dur int) error {
	r.calls = append(r.calls, "duration "+id)
	return r.err
}

func TestWriteApply(t *testing.T) {
	ctx := context.Background()
	at := NewTimeOfDay(8, 0)
	d := NewDate(2024, time.January, 8)
	w := &recordingWriter{}

	require.NoError(t, Write{Op: OpSetSchedule, TaskID: "a", Date: d, Time: &at, Duration: 30}.Apply(ctx, w))
	require.NoError(t, Write{Op: OpSetSchedule, TaskID: "b", Date: d}.Apply(ctx, w))
	require.NoError(t, Write{Op: OpClearSchedule, TaskID: "c"}.Apply(ctx, w))
	require.NoError(t, Write{Op: OpSetDuration, TaskID: "d", Duration: 45}.Apply(ctx, w))
	assert.Equal(t, []string{
		"set a 2024-01-08 08:00",
		"set b 2024-01-08 all-day",
		"clear c",
		"duration d",
	}, w.calls)

	assert.Error(t, Write{}.Apply(ctx, w))

	boom := errors.New("boom")
	w.err = boom
	assert.ErrorIs(t, Write{Op: OpClearSchedule, TaskID: "c"}.Apply(ctx, w), boom)
}

func TestWriteString(t *testing.T) {
	at := NewTimeOfDay(8, 0)
	d := NewDate(2024, time.January, 8)
	assert.Equal(t, "a 2024-01-08 08:00 (30m)", Write{Op: OpSetSchedule, TaskID: "a", Date: d, Time: &at, Duration: 30}.String())
	assert.Equal(t, "a 2024-01-08 all-day", Write{Op: OpSetSchedule, TaskID: "a", Date: d}.String())
	assert.Equal(t, "a to pool", Write{Op: OpClearSchedule, TaskID: "a"}.String())
}
