package test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stridehq/stride/store"
)

func createTestingGoal(ctx context.Context, t *testing.T, ts *store.Store, creatorID int32, title, description string, status store.GoalStatus, priority store.GoalPriority) *store.Goal {
	goal, err := ts.CreateGoal(ctx, &store.Goal{
		UID:         uuid.NewString(),
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
	})
	require.NoError(t, err)
	return goal
}

func TestGoalStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created := createTestingGoal(ctx, t, ts, 1, "Run a marathon", "Train three times a week", store.GoalStatusActive, store.GoalPriorityHigh)
	require.NotZero(t, created.ID)
	require.NotZero(t, created.CreatedTs)

	found, err := ts.GetGoal(ctx, &store.FindGoal{UID: &created.UID})
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.Title, found.Title)
	require.Equal(t, store.GoalPriorityHigh, found.Priority)

	newTitle := "Run a half marathon"
	status := store.GoalStatusCompleted
	err = ts.UpdateGoal(ctx, &store.UpdateGoal{ID: created.ID, Title: &newTitle, Status: &status})
	require.NoError(t, err)

	found, err = ts.GetGoal(ctx, &store.FindGoal{ID: &created.ID})
	require.NoError(t, err)
	require.Equal(t, newTitle, found.Title)
	require.Equal(t, store.GoalStatusCompleted, found.Status)

	err = ts.DeleteGoal(ctx, &store.DeleteGoal{ID: created.ID})
	require.NoError(t, err)
	found, err = ts.GetGoal(ctx, &store.FindGoal{ID: &created.ID})
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestGoalStorePagination(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	for i := 1; i <= 25; i++ {
		createTestingGoal(ctx, t, ts, 1, fmt.Sprintf("goal %02d", i), "", store.GoalStatusActive, store.GoalPriorityMedium)
	}
	// Another user's goals must not leak into the page or the count.
	createTestingGoal(ctx, t, ts, 2, "other user's goal", "", store.GoalStatusActive, store.GoalPriorityMedium)

	creatorID := int32(1)
	total, err := ts.CountGoals(ctx, &store.FindGoal{CreatorID: &creatorID})
	require.NoError(t, err)
	require.Equal(t, int64(25), total)

	limit, offset := 10, 20
	page, err := ts.ListGoals(ctx, &store.FindGoal{CreatorID: &creatorID, Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	// 25 rows at page size 10: the third page holds the last 5, newest first.
	require.Len(t, page, 5)
	require.Equal(t, "goal 05", page[0].Title)
	require.Equal(t, "goal 01", page[4].Title)

	offset = 30
	page, err = ts.ListGoals(ctx, &store.FindGoal{CreatorID: &creatorID, Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestGoalStoreFilters(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	createTestingGoal(ctx, t, ts, 1, "Read More Books", "one per month", store.GoalStatusActive, store.GoalPriorityLow)
	createTestingGoal(ctx, t, ts, 1, "Ship the release", "read the changelog first", store.GoalStatusActive, store.GoalPriorityHigh)
	createTestingGoal(ctx, t, ts, 1, "Archive old notes", "", store.GoalStatusArchived, store.GoalPriorityLow)

	creatorID := int32(1)

	// Search matches title and description, case-insensitively. The service
	// lowercases the term before it reaches the driver.
	search := "read"
	list, err := ts.ListGoals(ctx, &store.FindGoal{CreatorID: &creatorID, Search: &search})
	require.NoError(t, err)
	require.Len(t, list, 2)

	status := store.GoalStatusArchived
	list, err = ts.ListGoals(ctx, &store.FindGoal{CreatorID: &creatorID, Status: &status})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Archive old notes", list[0].Title)

	priority := store.GoalPriorityLow
	active := store.GoalStatusActive
	list, err = ts.ListGoals(ctx, &store.FindGoal{CreatorID: &creatorID, Status: &active, Priority: &priority})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Read More Books", list[0].Title)

	count, err := ts.CountGoals(ctx, &store.FindGoal{CreatorID: &creatorID, Search: &search})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestGoalDeleteCascades(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	goal := createTestingGoal(ctx, t, ts, 1, "goal with children", "", store.GoalStatusActive, store.GoalPriorityMedium)

	_, err := ts.CreateProgressEntry(ctx, &store.ProgressEntry{
		UID:       uuid.NewString(),
		GoalID:    goal.ID,
		CreatorID: 1,
		Note:      "first step",
		Value:     1,
	})
	require.NoError(t, err)

	reminder, err := ts.CreateReminder(ctx, &store.Reminder{
		GoalID:    goal.ID,
		CreatorID: 1,
		Channel:   store.ReminderChannelEmail,
		CronExpr:  "0 9 * * *",
		IsActive:  true,
	})
	require.NoError(t, err)

	require.NoError(t, ts.DeleteGoal(ctx, &store.DeleteGoal{ID: goal.ID}))

	entries, err := ts.ListProgressEntries(ctx, &store.FindProgressEntry{GoalID: &goal.ID})
	require.NoError(t, err)
	require.Empty(t, entries)

	got, err := ts.GetReminder(ctx, &store.FindReminder{ID: &reminder.ID})
	require.NoError(t, err)
	require.Nil(t, got)
}
