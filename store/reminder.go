package store

import (
	"context"
	"time"
)

// ReminderChannel is the delivery channel for a reminder.
type ReminderChannel string

const (
	ReminderChannelEmail ReminderChannel = "email"
	ReminderChannelPush  ReminderChannel = "push"
)

// Reminder is the object representing a scheduled reminder on a goal.
type Reminder struct {
	ID        int32
	GoalID    int32
	CreatorID int32
	CreatedTs int64
	Channel   ReminderChannel
	CronExpr  string
	NextRunTs *int64
	IsActive  bool
}

// NextRunTime parses the reminder next run timestamp to time.Time.
func (r *Reminder) NextRunTime() *time.Time {
	if r.NextRunTs == nil {
		return nil
	}
	t := time.Unix(*r.NextRunTs, 0)
	return &t
}

// FindReminder is the find condition for reminder.
type FindReminder struct {
	ID        *int32
	GoalID    *int32
	CreatorID *int32
	IsActive  *bool

	// DueBefore selects reminders with next_run_ts unset or at or before the
	// given timestamp. Results are ordered oldest-due first, unset first.
	DueBefore *int64

	Limit *int
}

// UpdateReminder is the update request for reminder.
type UpdateReminder struct {
	ID        int32
	CronExpr  *string
	NextRunTs *int64
	IsActive  *bool
}

// DeleteReminder is the delete request for reminder.
type DeleteReminder struct {
	ID int32
}

// ReminderNextRun is one element of a batch next-run update.
type ReminderNextRun struct {
	ID        int32
	NextRunTs int64
}

// CreateReminder creates a new reminder.
func (s *Store) CreateReminder(ctx context.Context, create *Reminder) (*Reminder, error) {
	return s.driver.CreateReminder(ctx, create)
}

// ListReminders lists reminders with filter.
func (s *Store) ListReminders(ctx context.Context, find *FindReminder) ([]*Reminder, error) {
	return s.driver.ListReminders(ctx, find)
}

// GetReminder gets a reminder by find condition.
func (s *Store) GetReminder(ctx context.Context, find *FindReminder) (*Reminder, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.driver.ListReminders(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateReminder updates a reminder.
func (s *Store) UpdateReminder(ctx context.Context, update *UpdateReminder) error {
	return s.driver.UpdateReminder(ctx, update)
}

// DeleteReminder deletes a reminder.
func (s *Store) DeleteReminder(ctx context.Context, delete *DeleteReminder) error {
	return s.driver.DeleteReminder(ctx, delete)
}

// ListDueReminders lists up to limit active reminders that are due at or
// before the given timestamp, oldest-due first.
func (s *Store) ListDueReminders(ctx context.Context, before int64, limit int) ([]*Reminder, error) {
	isActive := true
	return s.driver.ListReminders(ctx, &FindReminder{
		IsActive:  &isActive,
		DueBefore: &before,
		Limit:     &limit,
	})
}

// UpdateReminderNextRuns persists recomputed next-run timestamps for a batch
// of reminders in a single transaction.
func (s *Store) UpdateReminderNextRuns(ctx context.Context, updates []ReminderNextRun) error {
	if len(updates) == 0 {
		return nil
	}
	return s.driver.UpdateReminderNextRuns(ctx, updates)
}
