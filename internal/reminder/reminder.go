// Package reminder sends desktop notifications for timed occurrences that
// are about to start.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/store"
)

// DefaultSchedule is the check cadence when none is configured.
const DefaultSchedule = "@every 1m"

// grace is how late a start may be noticed and still notify.
const grace = 5 * time.Minute

// Notifier delivers one notification.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop notifies through the OS notification center.
type Desktop struct{}

// Notify implements Notifier.
func (Desktop) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Source provides the task snapshot reminders are computed from.
type Source interface {
	Snapshot(ctx context.Context) (store.Snapshot, error)
}

// Options configures a Service.
type Options struct {
	Lead     time.Duration
	Schedule string
	Clock    schedule.Clock
}

// Service checks for upcoming occurrences on a cron schedule.
type Service struct {
	src      Source
	notifier Notifier
	clock    schedule.Clock
	lead     time.Duration
	spec     string
	log      zerolog.Logger

	mu       sync.Mutex
	notified map[string]time.Time // id -> start
	c        *cron.Cron
}

// New returns a stopped service.
func New(src Source, notifier Notifier, opts Options, log zerolog.Logger) *Service {
	if notifier == nil {
		notifier = Desktop{}
	}
	if opts.Clock == nil {
		opts.Clock = schedule.RealClock{}
	}
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	return &Service{
		src:      src,
		notifier: notifier,
		clock:    opts.Clock,
		lead:     opts.Lead,
		spec:     opts.Schedule,
		log:      log.With().Str("component", "reminder").Logger(),
		notified: make(map[string]time.Time),
	}
}

// Start registers the check and starts the cron runner. Checks run with
// ctx until Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(time.Local))
	if _, err := c.AddFunc(s.spec, func() {
		if _, err := s.Check(ctx); err != nil {
			s.log.Warn().Err(err).Msg("reminder check failed")
		}
	}); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", s.spec, err)
	}
	c.Start()
	s.c = c
	s.log.Info().Str("schedule", s.spec).Dur("lead", s.lead).Msg("reminders started")
	return nil
}

// Stop halts the runner and waits for a running check to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// Check notifies for today's timed occurrences, real or projected, that
// start within the lead time. Each start is notified once. It returns the
// number of notifications sent.
func (s *Service) Check(ctx context.Context) (int, error) {
	snap, err := s.src.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	today := schedule.DateOf(now)
	s.prune(now)

	sent := 0
	for _, o := range schedule.Expand(snap.Tasks, []schedule.Date{today}) {
		if o.Completed || o.Placement() != schedule.Timed {
			continue
		}
		start := o.Time.On(today, now.Location())
		until := start.Sub(now)
		if until > s.lead || until < -grace {
			continue
		}

		id := o.Key.String() + "@" + start.Format(time.RFC3339)
		s.mu.Lock()
		_, seen := s.notified[id]
		s.notified[id] = start
		s.mu.Unlock()
		if seen {
			continue
		}

		title := snap.ProjectName(o.ProjectID)
		if title == "" {
			title = "weekplan"
		}
		msg := fmt.Sprintf("%s at %s", o.Title, o.Time.String())
		if err := s.notifier.Notify(title, msg); err != nil {
			s.log.Error().Err(err).Str("task", o.Key.String()).Msg("notification failed")
			continue
		}
		sent++
		s.log.Debug().Str("task", o.Key.String()).Time("start", start).Msg("reminder sent")
	}
	return sent, nil
}

// prune forgets starts that can no longer be notified.
func (s *Service) prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, start := range s.notified {
		if now.Sub(start) > grace {
			delete(s.notified, id)
		}
	}
}
