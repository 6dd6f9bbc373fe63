// Package reminder implements the due-reminder scanning runner: on each
// tick it pulls a bounded batch of due reminders, fires each through the
// notifier, recomputes the next occurrence from the cron expression, and
// persists the batch in one commit.
//
// Processing is at-least-once. A crash between firing and persisting, or
// two runner instances scanning concurrently, can fire a reminder twice for
// the same nominal occurrence; delivery channels must tolerate duplicates.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/stridehq/stride/server/notifier"
	"github.com/stridehq/stride/server/scheduler/cron"
	"github.com/stridehq/stride/store"
)

const (
	defaultInterval  = 30 * time.Second
	defaultBatchSize = 100
)

// Store is the interface for store operations needed by the runner.
type Store interface {
	ListDueReminders(ctx context.Context, before int64, limit int) ([]*store.Reminder, error)
	UpdateReminderNextRuns(ctx context.Context, updates []store.ReminderNextRun) error
	GetGoal(ctx context.Context, find *store.FindGoal) (*store.Goal, error)
}

// Runner scans for due reminders on a fixed tick.
type Runner struct {
	store     Store
	notifier  notifier.Notifier
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// NewRunner creates a reminder runner.
func NewRunner(st Store, n notifier.Notifier, interval time.Duration, batchSize int) *Runner {
	if interval <= 0 {
		interval = defaultInterval
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Runner{
		store:     st,
		notifier:  n,
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Run starts the background task.
func (r *Runner) Run(ctx context.Context) {
	// Process once on startup
	r.ProcessDueReminders(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.ProcessDueReminders(ctx)
		case <-ctx.Done():
			slog.Info("reminder runner stopped")
			return
		}
	}
}

// ProcessDueReminders executes one scanning pass. Exported for manual
// triggering and tests.
func (r *Runner) ProcessDueReminders(ctx context.Context) {
	now := r.now()
	reminders, err := r.store.ListDueReminders(ctx, now.Unix(), r.batchSize)
	if err != nil {
		slog.Error("failed to list due reminders", "error", err)
		return
	}
	if len(reminders) == 0 {
		return
	}

	updates := make([]store.ReminderNextRun, 0, len(reminders))
	for _, reminder := range reminders {
		// A malformed expression must not block the rest of the batch. The
		// reminder keeps its prior next_run_ts and is retried next tick, so
		// the failure stays visible until the expression is fixed.
		schedule, err := cron.Parse(reminder.CronExpr)
		if err != nil {
			slog.Error("skipping reminder with malformed cron expression", "reminder", reminder.ID, "expr", reminder.CronExpr, "error", err)
			continue
		}

		r.fire(ctx, reminder)
		updates = append(updates, store.ReminderNextRun{
			ID:        reminder.ID,
			NextRunTs: schedule.Next(now).Unix(),
		})
	}

	if len(updates) == 0 {
		return
	}
	if err := r.store.UpdateReminderNextRuns(ctx, updates); err != nil {
		slog.Error("failed to persist reminder next runs", "count", len(updates), "error", err)
		return
	}
	slog.Info("processed due reminders", "fired", len(updates), "scanned", len(reminders))
}

func (r *Runner) fire(ctx context.Context, reminder *store.Reminder) {
	goal, err := r.store.GetGoal(ctx, &store.FindGoal{ID: &reminder.GoalID})
	if err != nil {
		slog.Error("failed to load goal for reminder", "reminder", reminder.ID, "goal", reminder.GoalID, "error", err)
		return
	}
	if goal == nil {
		// Goal deleted between the scan and the fire; the reminder row is
		// gone too via cascade, nothing to deliver.
		return
	}
	r.notifier.Notify(ctx, reminder, goal)
}
