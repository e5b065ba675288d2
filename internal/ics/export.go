// Package ics exports the visible week as an iCalendar file.
package ics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/hy4ri/weekplan/internal/schedule"
)

const productID = "-//hy4ri//weekplan//EN"

// Options controls an export.
type Options struct {
	// ProjectName resolves a project id for CATEGORIES. Optional.
	ProjectName func(id string) string
	// Location places timed occurrences. Defaults to time.Local.
	Location *time.Location
	// Stamp is written as DTSTAMP. Defaults to now.
	Stamp time.Time
}

// Calendar builds one VEVENT per dated occurrence on the board. Projected
// occurrences are exported as standalone events so each visible day maps
// to exactly one entry.
func Calendar(b schedule.Board, opts Options) *ical.Calendar {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if len(b.Days) > 0 {
		cal.SetXWRCalName(fmt.Sprintf("Week of %s", b.Days[0]))
	}

	for _, o := range b.Occurrences() {
		if o.Date == nil {
			continue
		}
		ev := cal.AddEvent(UID(o.Key))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(o.Title)

		if o.Time != nil {
			start := o.Time.On(*o.Date, loc)
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(time.Duration(o.Duration) * time.Minute))
		} else {
			ev.SetAllDayStartAt(o.Date.Time())
			ev.SetAllDayEndAt(o.Date.AddDays(1).Time())
		}

		if opts.ProjectName != nil && o.ProjectID != "" {
			ev.SetProperty(ical.ComponentPropertyCategories, opts.ProjectName(o.ProjectID))
		}
		if o.IsVirtual() {
			ev.SetDescription(fmt.Sprintf("Repeats %s", o.Recurrence))
		}
	}
	return cal
}

// UID returns the stable event id of an occurrence.
func UID(k schedule.Key) string {
	return k.String() + "@weekplan"
}

// Write serializes the board to w.
func Write(w io.Writer, b schedule.Board, opts Options) error {
	return Calendar(b, opts).SerializeTo(w)
}

// WriteFile exports the board to path, creating parent directories.
func WriteFile(path string, b schedule.Board, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, b, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// FileName returns the default export name for the week starting monday.
func FileName(monday schedule.Date) string {
	return fmt.Sprintf("weekplan-%s.ics", monday)
}
