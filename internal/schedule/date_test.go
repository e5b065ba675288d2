package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.January, 8), d)
	assert.Equal(t, "2024-01-08", d.String())
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("08/01/2024")
	assert.Error(t, err)
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	assert.Equal(t, NewDate(2024, time.February, 29), d.AddDays(1))
	assert.Equal(t, NewDate(2024, time.March, 1), d.AddDays(2))
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 30))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, 7, d.DaysUntil(d.AddDays(7)))
	assert.True(t, Date{}.IsZero())
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "09:30", tod.String())

	for _, bad := range []string{"", "25:00", "12:60", "noon"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestEndTime(t *testing.T) {
	assert.Equal(t, "10:30", EndTime(NewTimeOfDay(9, 30), 60).String())
	assert.Equal(t, "00:30", EndTime(NewTimeOfDay(23, 30), 60).String())
}

func TestDurationBetween(t *testing.T) {
	tests := []struct {
		name       string
		start, end TimeOfDay
		want       int
	}{
		{"same day", NewTimeOfDay(9, 0), NewTimeOfDay(10, 15), 75},
		{"overnight", NewTimeOfDay(23, 0), NewTimeOfDay(1, 0), 120},
		{"floor", NewTimeOfDay(9, 0), NewTimeOfDay(9, 5), MinDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationBetween(tt.start, tt.end))
		})
	}
}

func TestParseRecurrence(t *testing.T) {
	r, ok := ParseRecurrence("Weekly")
	assert.True(t, ok)
	assert.Equal(t, RecurrenceWeekly, r)

	r, ok = ParseRecurrence("")
	assert.True(t, ok)
	assert.Equal(t, RecurrenceNone, r)

	r, ok = ParseRecurrence("fortnightly")
	assert.False(t, ok)
	assert.Equal(t, RecurrenceNone, r)
	assert.False(t, r.Repeats())
}

func TestTaskPlacement(t *testing.T) {
	d := NewDate(2024, time.January, 8)
	at := NewTimeOfDay(9, 0)

	assert.Equal(t, Pooled, Task{}.Placement())
	assert.Equal(t, AllDay, Task{Date: &d}.Placement())
	assert.Equal(t, Timed, Task{Date: &d, Time: &at}.Placement())
	assert.Equal(t, DefaultDuration, Task{}.EffectiveDuration())
	assert.Equal(t, 90, Task{Duration: 90}.EffectiveDuration())
}
