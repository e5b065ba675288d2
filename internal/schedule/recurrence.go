package schedule

import (
	"fmt"

	"github.com/teambition/rrule-go"
)

// rule builds the RRULE for a recurrence anchored at anchor. Days that do
// not exist in a period (the 31st in a 30-day month, Feb 29 in a common
// year) are skipped, both when projecting and when computing the next due
// date.
func rule(r Recurrence, anchor Date) (*rrule.RRule, error) {
	var freq rrule.Frequency
	switch r {
	case RecurrenceDaily:
		freq = rrule.DAILY
	case RecurrenceWeekly:
		freq = rrule.WEEKLY
	case RecurrenceMonthly:
		freq = rrule.MONTHLY
	case RecurrenceYearly:
		freq = rrule.YEARLY
	default:
		return nil, fmt.Errorf("recurrence %q does not repeat", r)
	}
	return rrule.NewRRule(rrule.ROption{Freq: freq, Dtstart: anchor.Time()})
}

// Project returns the virtual occurrences of t on the given days: every day
// matched by the recurrence on or after the anchor, except the anchor day
// itself. Completed, non-repeating and unscheduled tasks project nothing.
func Project(t Task, days []Date) []Occurrence {
	if t.Completed || !t.Recurrence.Repeats() || t.Date == nil || len(days) == 0 {
		return nil
	}
	anchor := *t.Date
	r, err := rule(t.Recurrence, anchor)
	if err != nil {
		return nil
	}

	first, last := days[0], days[0]
	for _, d := range days[1:] {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	if last.Before(anchor) {
		return nil
	}

	matched := make(map[Date]bool)
	for _, at := range r.Between(first.Time(), last.Time(), true) {
		matched[DateOf(at)] = true
	}

	var out []Occurrence
	for _, d := range days {
		if d == anchor || !matched[d] {
			continue
		}
		out = append(out, VirtualOccurrence(t, d))
	}
	return out
}

// Expand returns the real occurrences of the tasks dated on one of the days
// followed by their projections. Completed tasks are left out.
func Expand(tasks []Task, days []Date) []Occurrence {
	visible := make(map[Date]bool, len(days))
	for _, d := range days {
		visible[d] = true
	}

	var out []Occurrence
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if t.Date != nil && visible[*t.Date] {
			out = append(out, RealOccurrence(t))
		}
		out = append(out, Project(t, days)...)
	}
	return out
}

// NextDue returns the first date after anchor matched by r.
func NextDue(r Recurrence, anchor Date) (Date, bool) {
	rr, err := rule(r, anchor)
	if err != nil {
		return Date{}, false
	}
	next := rr.After(anchor.Time(), false)
	if next.IsZero() {
		return Date{}, false
	}
	return DateOf(next), true
}
