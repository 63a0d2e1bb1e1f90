// Package remind nudges the user once a day when they have not studied.
package remind

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/vulcan/internal/clock"
	"github.com/abhisek/vulcan/internal/store"
)

const dateLayout = "2006-01-02"

// Reminder is what a notifier is asked to deliver.
type Reminder struct {
	// StreakAtRisk is the daily streak that ends tonight, or 0.
	StreakAtRisk int
	Message      string
}

// Notifier delivers a reminder.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// Check decides whether progress p warrants a reminder at now. A nil p
// means the user has never studied.
func Check(p *store.ProgressData, now time.Time) (Reminder, bool) {
	today := now.Format(dateLayout)
	if p == nil || p.LastStudyDate == "" {
		return Reminder{Message: "Time for your first Vulcan session!"}, true
	}
	if p.LastStudyDate == today {
		return Reminder{}, false
	}
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	if p.LastStudyDate == yesterday && p.DailyStreak > 0 {
		return Reminder{
			StreakAtRisk: p.DailyStreak,
			Message:      fmt.Sprintf("Your %d day streak ends at midnight. One quick session keeps it going.", p.DailyStreak),
		}, true
	}
	return Reminder{Message: "You have not studied today. A few cards is all it takes."}, true
}

// Scheduler runs the daily check.
type Scheduler struct {
	cron     *gocron.Scheduler
	job      *gocron.Job
	snaps    store.SnapshotRepo
	notifier Notifier
	clock    clock.Clock
}

// New schedules a daily check at at (HH:MM, local time).
func New(at string, snaps store.SnapshotRepo, notifier Notifier, clk clock.Clock) (*Scheduler, error) {
	s := &Scheduler{
		cron:     gocron.NewScheduler(time.Local),
		snaps:    snaps,
		notifier: notifier,
		clock:    clk,
	}
	job, err := s.cron.Every(1).Day().At(at).SingletonMode().Do(s.run)
	if err != nil {
		return nil, fmt.Errorf("schedule reminder at %q: %w", at, err)
	}
	s.job = job
	return s, nil
}

// Start runs the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

// Stop halts the schedule.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// NextRun reports when the check runs next. Zero before Start.
func (s *Scheduler) NextRun() time.Time {
	return s.job.NextRun()
}

// RunOnce performs the check immediately. It reports whether a reminder
// was sent.
func (s *Scheduler) RunOnce(ctx context.Context) (bool, error) {
	snap, err := s.snaps.Latest(ctx)
	if err != nil {
		return false, fmt.Errorf("load progress: %w", err)
	}
	var p *store.ProgressData
	if snap != nil {
		p = &snap.Data
	}
	r, ok := Check(p, s.clock.Now())
	if !ok {
		return false, nil
	}
	if err := s.notifier.Notify(ctx, r); err != nil {
		return false, fmt.Errorf("notify: %w", err)
	}
	return true, nil
}

func (s *Scheduler) run() {
	sent, err := s.RunOnce(context.Background())
	if err != nil {
		slog.Warn("reminder check failed", "error", err)
		return
	}
	slog.Info("reminder check", "sent", sent)
}

// TerminalNotifier rings the terminal bell and prints the message.
type TerminalNotifier struct {
	W io.Writer
}

func (n TerminalNotifier) Notify(_ context.Context, r Reminder) error {
	_, err := fmt.Fprintf(n.W, "\a%s\n", r.Message)
	return err
}
