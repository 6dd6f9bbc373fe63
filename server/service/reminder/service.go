// Package reminder provides reminder management on goals: creation with
// cron validation, listing, activation toggling, and deletion. The due-scan
// loop lives in server/runner/reminder.
package reminder

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/stridehq/stride/server/scheduler/cron"
	"github.com/stridehq/stride/store"
)

// Service errors, checked with errors.Is.
var (
	ErrNotFound        = errors.New("reminder not found")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrInvalidCronExpr = errors.New("invalid cron expression")
	ErrInvalidChannel  = errors.New("invalid reminder channel")
)

// Store is the interface for store operations needed by the reminder service.
type Store interface {
	GetGoal(ctx context.Context, find *store.FindGoal) (*store.Goal, error)
	CreateReminder(ctx context.Context, create *store.Reminder) (*store.Reminder, error)
	GetReminder(ctx context.Context, find *store.FindReminder) (*store.Reminder, error)
	ListReminders(ctx context.Context, find *store.FindReminder) ([]*store.Reminder, error)
	UpdateReminder(ctx context.Context, update *store.UpdateReminder) error
	DeleteReminder(ctx context.Context, delete *store.DeleteReminder) error
}

// Service implements reminder operations.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a new reminder service.
func NewService(st Store) *Service {
	return &Service{store: st, now: time.Now}
}

// CreateReminder attaches a reminder to a goal owned by the user. The cron
// expression is validated here, at creation time, and the first next-run is
// computed so a fresh reminder does not fire on the next scanner tick.
func (s *Service) CreateReminder(ctx context.Context, userID int32, goalUID string, channel, cronExpr string) (*store.Reminder, error) {
	goal, err := s.store.GetGoal(ctx, &store.FindGoal{UID: &goalUID, CreatorID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get goal")
	}
	if goal == nil {
		return nil, ErrGoalNotFound
	}

	ch, err := parseChannel(channel)
	if err != nil {
		return nil, err
	}
	schedule, err := cron.Parse(cronExpr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidCronExpr, "%v", err)
	}

	nextRun := schedule.Next(s.now()).Unix()
	reminder, err := s.store.CreateReminder(ctx, &store.Reminder{
		GoalID:    goal.ID,
		CreatorID: userID,
		Channel:   ch,
		CronExpr:  cronExpr,
		NextRunTs: &nextRun,
		IsActive:  true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create reminder")
	}
	return reminder, nil
}

// ListReminders lists the reminders on a goal owned by the user.
func (s *Service) ListReminders(ctx context.Context, userID int32, goalUID string) ([]*store.Reminder, error) {
	goal, err := s.store.GetGoal(ctx, &store.FindGoal{UID: &goalUID, CreatorID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get goal")
	}
	if goal == nil {
		return nil, ErrGoalNotFound
	}
	list, err := s.store.ListReminders(ctx, &store.FindReminder{GoalID: &goal.ID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reminders")
	}
	return list, nil
}

// SetActive toggles a reminder owned by the user. Reactivation recomputes
// the next run from now so the backlog accumulated while inactive does not
// fire immediately.
func (s *Service) SetActive(ctx context.Context, userID int32, reminderID int32, active bool) (*store.Reminder, error) {
	reminder, err := s.getOwned(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}

	update := &store.UpdateReminder{ID: reminder.ID, IsActive: &active}
	if active && !reminder.IsActive {
		schedule, err := cron.Parse(reminder.CronExpr)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidCronExpr, "%v", err)
		}
		nextRun := schedule.Next(s.now()).Unix()
		update.NextRunTs = &nextRun
	}
	if err := s.store.UpdateReminder(ctx, update); err != nil {
		return nil, errors.Wrap(err, "failed to update reminder")
	}
	return s.getOwned(ctx, userID, reminderID)
}

// DeleteReminder deletes a reminder owned by the user.
func (s *Service) DeleteReminder(ctx context.Context, userID int32, reminderID int32) error {
	reminder, err := s.getOwned(ctx, userID, reminderID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteReminder(ctx, &store.DeleteReminder{ID: reminder.ID}); err != nil {
		return errors.Wrap(err, "failed to delete reminder")
	}
	return nil
}

func (s *Service) getOwned(ctx context.Context, userID, reminderID int32) (*store.Reminder, error) {
	reminder, err := s.store.GetReminder(ctx, &store.FindReminder{ID: &reminderID, CreatorID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reminder")
	}
	if reminder == nil {
		return nil, ErrNotFound
	}
	return reminder, nil
}

func parseChannel(raw string) (store.ReminderChannel, error) {
	switch ch := store.ReminderChannel(raw); ch {
	case store.ReminderChannelEmail, store.ReminderChannelPush:
		return ch, nil
	default:
		return "", errors.Wrapf(ErrInvalidChannel, "unknown channel %q", raw)
	}
}
