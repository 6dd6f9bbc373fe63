package store

import (
	"context"
)

// GoalStatus is the status of a goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusArchived  GoalStatus = "archived"
)

// GoalPriority is the priority of a goal.
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

// Goal is the object representing a goal.
type Goal struct {
	ID          int32
	UID         string
	CreatorID   int32
	CreatedTs   int64
	UpdatedTs   int64
	Title       string
	Description string
	Status      GoalStatus
	Priority    GoalPriority
	TargetTs    *int64
}

// FindGoal is the find condition for goal.
type FindGoal struct {
	ID        *int32
	UID       *string
	CreatorID *int32

	// Search matches title or description by case-insensitive substring.
	Search *string
	// Status and Priority are exact-match filters (lowercase values).
	Status   *GoalStatus
	Priority *GoalPriority

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateGoal is the update request for goal.
type UpdateGoal struct {
	ID          int32
	UpdatedTs   *int64
	Title       *string
	Description *string
	Status      *GoalStatus
	Priority    *GoalPriority
	TargetTs    *int64
}

// DeleteGoal is the delete request for goal.
type DeleteGoal struct {
	ID int32
}

// CreateGoal creates a new goal.
func (s *Store) CreateGoal(ctx context.Context, create *Goal) (*Goal, error) {
	return s.driver.CreateGoal(ctx, create)
}

// ListGoals lists goals with filter, ordered by creation time descending.
func (s *Store) ListGoals(ctx context.Context, find *FindGoal) ([]*Goal, error) {
	return s.driver.ListGoals(ctx, find)
}

// CountGoals counts goals matching the filter, ignoring pagination.
func (s *Store) CountGoals(ctx context.Context, find *FindGoal) (int64, error) {
	return s.driver.CountGoals(ctx, find)
}

// GetGoal gets a goal by find condition.
func (s *Store) GetGoal(ctx context.Context, find *FindGoal) (*Goal, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.driver.ListGoals(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateGoal updates a goal.
func (s *Store) UpdateGoal(ctx context.Context, update *UpdateGoal) error {
	return s.driver.UpdateGoal(ctx, update)
}

// DeleteGoal deletes a goal and, via cascade, its progress entries and reminders.
func (s *Store) DeleteGoal(ctx context.Context, delete *DeleteGoal) error {
	return s.driver.DeleteGoal(ctx, delete)
}
