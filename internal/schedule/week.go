package schedule

import "time"

// VisibleDays is the number of weekdays shown, Monday through Friday.
const VisibleDays = 5

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time { return time.Now() }

// MondayOf returns the Monday of the week containing d. Sunday belongs to
// the week that started six days earlier.
func MondayOf(d Date) Date {
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return d.AddDays(1 - wd)
}

// Week holds the Monday of the displayed week.
type Week struct {
	monday Date
	clock  Clock
}

// NewWeek returns a navigator showing the current week.
func NewWeek(clock Clock) *Week {
	if clock == nil {
		clock = RealClock{}
	}
	w := &Week{clock: clock}
	w.Today()
	return w
}

// NewWeekAt returns a navigator showing the week containing d.
func NewWeekAt(d Date, clock Clock) *Week {
	if clock == nil {
		clock = RealClock{}
	}
	return &Week{monday: MondayOf(d), clock: clock}
}

// Next advances one week.
func (w *Week) Next() { w.monday = w.monday.AddDays(7) }

// Previous goes back one week.
func (w *Week) Previous() { w.monday = w.monday.AddDays(-7) }

// Today jumps to the week containing the current date.
func (w *Week) Today() { w.monday = MondayOf(DateOf(w.clock.Now())) }

// Monday returns the first visible day.
func (w *Week) Monday() Date { return w.monday }

// Friday returns the last visible day.
func (w *Week) Friday() Date { return w.monday.AddDays(VisibleDays - 1) }

// Days returns the visible dates, Monday first.
func (w *Week) Days() []Date {
	days := make([]Date, VisibleDays)
	for i := range days {
		days[i] = w.monday.AddDays(i)
	}
	return days
}

// Contains reports whether d is one of the visible days.
func (w *Week) Contains(d Date) bool {
	return !d.Before(w.monday) && !d.After(w.Friday())
}

// IsToday reports whether d is the clock's current date.
func (w *Week) IsToday(d Date) bool {
	return d == DateOf(w.clock.Now())
}

// Title renders the visible range, e.g. "Jan 8 - Jan 12".
func (w *Week) Title() string {
	return w.monday.Time().Format("Jan 2") + " - " + w.Friday().Time().Format("Jan 2")
}
