package schedule

import "strings"

// Recurrence is the repeat rule of a task.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// ParseRecurrence maps a stored recurrence value onto the closed set.
// Empty input is RecurrenceNone; unknown input is RecurrenceNone with ok=false.
func ParseRecurrence(s string) (r Recurrence, ok bool) {
	switch Recurrence(strings.ToLower(strings.TrimSpace(s))) {
	case "", RecurrenceNone:
		return RecurrenceNone, true
	case RecurrenceDaily:
		return RecurrenceDaily, true
	case RecurrenceWeekly:
		return RecurrenceWeekly, true
	case RecurrenceMonthly:
		return RecurrenceMonthly, true
	case RecurrenceYearly:
		return RecurrenceYearly, true
	}
	return RecurrenceNone, false
}

// Repeats reports whether r projects occurrences.
func (r Recurrence) Repeats() bool {
	return r != "" && r != RecurrenceNone
}

// Placement is where an occurrence lives on the board.
type Placement int

const (
	Pooled Placement = iota // no date
	AllDay                  // date, no time
	Timed                   // date and time
)

func (p Placement) String() string {
	switch p {
	case Pooled:
		return "pooled"
	case AllDay:
		return "all-day"
	case Timed:
		return "timed"
	}
	return "unknown"
}

func placementOf(date *Date, t *TimeOfDay) Placement {
	switch {
	case date == nil:
		return Pooled
	case t == nil:
		return AllDay
	default:
		return Timed
	}
}

// Task is a stored task as seen through the store contract.
type Task struct {
	ID        string
	ProjectID string
	Title     string
	Priority  string

	Date     *Date
	Time     *TimeOfDay
	Duration int // minutes; 0 means unset

	Recurrence Recurrence
	Completed  bool
}

// Placement returns the task's placement state.
func (t Task) Placement() Placement {
	return placementOf(t.Date, t.Time)
}

// EffectiveDuration returns the duration to use when placing the task.
func (t Task) EffectiveDuration() int {
	return normalizeDuration(t.Duration)
}

func normalizeDuration(d int) int {
	if d <= 0 {
		return DefaultDuration
	}
	return max(MinDuration, d)
}
