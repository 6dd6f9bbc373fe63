package store

import (
	"context"
)

// ProgressEntry is the object representing a progress log against a goal.
type ProgressEntry struct {
	ID        int32
	UID       string
	GoalID    int32
	CreatorID int32
	CreatedTs int64
	Note      string
	Value     float64
}

// FindProgressEntry is the find condition for progress entry.
type FindProgressEntry struct {
	ID        *int32
	GoalID    *int32
	CreatorID *int32

	// Pagination
	Limit  *int
	Offset *int
}

// CreateProgressEntry creates a new progress entry.
func (s *Store) CreateProgressEntry(ctx context.Context, create *ProgressEntry) (*ProgressEntry, error) {
	return s.driver.CreateProgressEntry(ctx, create)
}

// ListProgressEntries lists progress entries with filter, newest first.
func (s *Store) ListProgressEntries(ctx context.Context, find *FindProgressEntry) ([]*ProgressEntry, error) {
	return s.driver.ListProgressEntries(ctx, find)
}
