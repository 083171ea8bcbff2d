// Package reminder sends notifications for tasks whose reminder time has
// passed.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/remdocs/remdocs/internal/activity"
	"github.com/remdocs/remdocs/internal/task"
)

// Source lists due reminders and records delivery.
type Source interface {
	DueReminders(ctx context.Context, now time.Time) ([]task.Task, error)
	MarkReminded(ctx context.Context, id string, at time.Time) error
}

// Notifier delivers a reminder for one task.
type Notifier interface {
	Notify(ctx context.Context, t task.Task) error
}

// Recorder receives reminder_sent events. activity.Logger satisfies it.
type Recorder interface {
	Log(event, userID, taskID string, data map[string]interface{}) error
}

// Options configures the sweep cadence and the hours reminders may go out.
type Options struct {
	Interval  time.Duration
	StartHour int
	EndHour   int
	Location  *time.Location

	// OnSweep, when set, is called after every sweep that did not fail.
	OnSweep func(at time.Time, sent int, inWindow bool)
}

// Scheduler runs reminder sweeps on a fixed interval.
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    Source
	notifier  Notifier
	recorder  Recorder
	log       *slog.Logger
	opts      Options
	now       func() time.Time
}

// New creates a scheduler. recorder may be nil.
func New(source Source, notifier Notifier, recorder Recorder, log *slog.Logger, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	s := gocron.NewScheduler(opts.Location)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		source:    source,
		notifier:  notifier,
		recorder:  recorder,
		log:       log,
		opts:      opts,
		now:       time.Now,
	}
}

// Start schedules the periodic sweep and returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(s.opts.Interval).Do(func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.log.Error("reminder sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}
	s.scheduler.StartAsync()
	s.log.Info("reminder scheduler started",
		"interval", s.opts.Interval,
		"start_hour", s.opts.StartHour,
		"end_hour", s.opts.EndHour)
	return nil
}

// Stop terminates scheduled sweeps.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// InWindow reports whether reminders may be sent at t.
func (s *Scheduler) InWindow(t time.Time) bool {
	hour := t.In(s.opts.Location).Hour()
	return hour >= s.opts.StartHour && hour <= s.opts.EndHour
}

// Sweep notifies every due task once and returns how many were sent.
// A task whose notification fails stays due for the next sweep.
func (s *Scheduler) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	if !s.InWindow(now) {
		s.log.Debug("outside reminder hours, skipping sweep",
			"hour", now.In(s.opts.Location).Hour(),
			"start_hour", s.opts.StartHour,
			"end_hour", s.opts.EndHour)
		s.afterSweep(now, 0, false)
		return 0, nil
	}

	due, err := s.source.DueReminders(ctx, now)
	if err != nil {
		return 0, err
	}
	s.log.Debug("reminder sweep", "due", len(due))

	sent := 0
	for _, t := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := s.notifier.Notify(ctx, t); err != nil {
			s.log.Warn("failed to send reminder", "task_id", t.ID, "error", err)
			continue
		}
		if err := s.source.MarkReminded(ctx, t.ID, now); err != nil {
			s.log.Warn("failed to mark reminder sent", "task_id", t.ID, "error", err)
			continue
		}
		sent++
		s.log.Info("reminder sent", "task_id", t.ID, "user_id", t.UserID)
		if s.recorder != nil {
			if err := s.recorder.Log(activity.EventReminderSent, t.UserID, t.ID, nil); err != nil {
				s.log.Warn("failed to record activity", "error", err)
			}
		}
	}
	s.afterSweep(now, sent, true)
	return sent, nil
}

func (s *Scheduler) afterSweep(at time.Time, sent int, inWindow bool) {
	if s.opts.OnSweep != nil {
		s.opts.OnSweep(at, sent, inWindow)
	}
}
