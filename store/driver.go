package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Goal model related methods.
	CreateGoal(ctx context.Context, create *Goal) (*Goal, error)
	ListGoals(ctx context.Context, find *FindGoal) ([]*Goal, error)
	CountGoals(ctx context.Context, find *FindGoal) (int64, error)
	UpdateGoal(ctx context.Context, update *UpdateGoal) error
	DeleteGoal(ctx context.Context, delete *DeleteGoal) error

	// ProgressEntry model related methods.
	CreateProgressEntry(ctx context.Context, create *ProgressEntry) (*ProgressEntry, error)
	ListProgressEntries(ctx context.Context, find *FindProgressEntry) ([]*ProgressEntry, error)

	// Reminder model related methods.
	CreateReminder(ctx context.Context, create *Reminder) (*Reminder, error)
	ListReminders(ctx context.Context, find *FindReminder) ([]*Reminder, error)
	UpdateReminder(ctx context.Context, update *UpdateReminder) error
	DeleteReminder(ctx context.Context, delete *DeleteReminder) error
	UpdateReminderNextRuns(ctx context.Context, updates []ReminderNextRun) error
}
