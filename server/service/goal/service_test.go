package goal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/stridehq/stride/server/events"
	"github.com/stridehq/stride/store"
	"github.com/stridehq/stride/store/cache"
)

// mockStore is an in-memory Store that counts query executions, so tests
// can assert whether a read was served from the cache or the store.
type mockStore struct {
	goals   []*store.Goal
	entries []*store.ProgressEntry

	nextID int32
	nextTs int64

	listCalls  int
	countCalls int
	failing    bool
}

var errStoreDown = errors.New("store unavailable")

func newMockStore() *mockStore {
	return &mockStore{nextTs: 1000}
}

func (m *mockStore) addGoal(creatorID int32, title, description string, status store.GoalStatus, priority store.GoalPriority) *store.Goal {
	m.nextID++
	m.nextTs++
	goal := &store.Goal{
		ID:          m.nextID,
		UID:         fmt.Sprintf("uid-%d", m.nextID),
		CreatorID:   creatorID,
		CreatedTs:   m.nextTs,
		UpdatedTs:   m.nextTs,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
	}
	m.goals = append(m.goals, goal)
	return goal
}

func (m *mockStore) matches(goal *store.Goal, find *store.FindGoal) bool {
	if find.ID != nil && goal.ID != *find.ID {
		return false
	}
	if find.UID != nil && goal.UID != *find.UID {
		return false
	}
	if find.CreatorID != nil && goal.CreatorID != *find.CreatorID {
		return false
	}
	if find.Search != nil {
		needle := strings.ToLower(*find.Search)
		if !strings.Contains(strings.ToLower(goal.Title), needle) &&
			!strings.Contains(strings.ToLower(goal.Description), needle) {
			return false
		}
	}
	if find.Status != nil && goal.Status != *find.Status {
		return false
	}
	if find.Priority != nil && goal.Priority != *find.Priority {
		return false
	}
	return true
}

func (m *mockStore) filtered(find *store.FindGoal) []*store.Goal {
	out := []*store.Goal{}
	for _, goal := range m.goals {
		if m.matches(goal, find) {
			out = append(out, goal)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedTs != out[j].CreatedTs {
			return out[i].CreatedTs > out[j].CreatedTs
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *mockStore) ListGoals(_ context.Context, find *store.FindGoal) ([]*store.Goal, error) {
	if m.failing {
		return nil, errStoreDown
	}
	m.listCalls++
	out := m.filtered(find)
	if find.Offset != nil {
		if *find.Offset >= len(out) {
			return []*store.Goal{}, nil
		}
		out = out[*find.Offset:]
	}
	if find.Limit != nil && *find.Limit < len(out) {
		out = out[:*find.Limit]
	}
	return out, nil
}

func (m *mockStore) CountGoals(_ context.Context, find *store.FindGoal) (int64, error) {
	if m.failing {
		return 0, errStoreDown
	}
	m.countCalls++
	return int64(len(m.filtered(find))), nil
}

func (m *mockStore) GetGoal(_ context.Context, find *store.FindGoal) (*store.Goal, error) {
	if m.failing {
		return nil, errStoreDown
	}
	for _, goal := range m.goals {
		if m.matches(goal, find) {
			return goal, nil
		}
	}
	return nil, nil
}

func (m *mockStore) CreateGoal(_ context.Context, create *store.Goal) (*store.Goal, error) {
	if m.failing {
		return nil, errStoreDown
	}
	m.nextID++
	m.nextTs++
	create.ID = m.nextID
	create.CreatedTs = m.nextTs
	create.UpdatedTs = m.nextTs
	m.goals = append(m.goals, create)
	return create, nil
}

func (m *mockStore) UpdateGoal(_ context.Context, update *store.UpdateGoal) error {
	if m.failing {
		return errStoreDown
	}
	for _, goal := range m.goals {
		if goal.ID != update.ID {
			continue
		}
		if update.UpdatedTs != nil {
			goal.UpdatedTs = *update.UpdatedTs
		}
		if update.Title != nil {
			goal.Title = *update.Title
		}
		if update.Description != nil {
			goal.Description = *update.Description
		}
		if update.Status != nil {
			goal.Status = *update.Status
		}
		if update.Priority != nil {
			goal.Priority = *update.Priority
		}
		if update.TargetTs != nil {
			goal.TargetTs = update.TargetTs
		}
		return nil
	}
	return nil
}

func (m *mockStore) DeleteGoal(_ context.Context, delete *store.DeleteGoal) error {
	if m.failing {
		return errStoreDown
	}
	for i, goal := range m.goals {
		if goal.ID == delete.ID {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockStore) CreateProgressEntry(_ context.Context, create *store.ProgressEntry) (*store.ProgressEntry, error) {
	if m.failing {
		return nil, errStoreDown
	}
	m.nextID++
	m.nextTs++
	create.ID = m.nextID
	create.CreatedTs = m.nextTs
	m.entries = append(m.entries, create)
	return create, nil
}

func (m *mockStore) ListProgressEntries(_ context.Context, find *store.FindProgressEntry) ([]*store.ProgressEntry, error) {
	if m.failing {
		return nil, errStoreDown
	}
	out := []*store.ProgressEntry{}
	for _, entry := range m.entries {
		if find.GoalID != nil && entry.GoalID != *find.GoalID {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

type recordingPublisher struct {
	published []*events.ProgressCreated
}

func (p *recordingPublisher) PublishProgressCreated(_ context.Context, event *events.ProgressCreated) {
	p.published = append(p.published, event)
}

func newTestService(t *testing.T) (*Service, *mockStore, *recordingPublisher, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	config := cache.DefaultConfig()
	config.Addr = srv.Addr()
	pageCache, err := cache.NewRedisCache(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pageCache.Close() })

	st := newMockStore()
	publisher := &recordingPublisher{}
	return NewService(st, pageCache, publisher), st, publisher, srv
}

func TestListGoalsPaginationMath(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()
	for i := 1; i <= 25; i++ {
		st.addGoal(1, fmt.Sprintf("goal %02d", i), "", store.GoalStatusActive, store.GoalPriorityMedium)
	}

	page, err := svc.ListGoals(ctx, Query{UserID: 1, Page: 3, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(25), page.Total)
	require.Equal(t, 3, page.Page)
	require.Equal(t, 10, page.PageSize)
	require.Len(t, page.Items, 5)
	// Newest-first ordering: page 3 of 25 holds the 5 oldest goals.
	require.Equal(t, "goal 05", page.Items[0].Title)
	require.Equal(t, "goal 01", page.Items[4].Title)
}

func TestListGoalsReadThrough(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()
	st.addGoal(1, "run a marathon", "train three times a week", store.GoalStatusActive, store.GoalPriorityHigh)

	first, err := svc.ListGoals(ctx, Query{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, 1, st.listCalls)
	require.Equal(t, 1, st.countCalls)

	// Second identical read within TTL is a cache hit: the store is not
	// queried again and the payload matches.
	second, err := svc.ListGoals(ctx, Query{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, 1, st.listCalls)
	require.Equal(t, 1, st.countCalls)
	require.Equal(t, first, second)
}

func TestListGoalsNormalizesBeforeKeying(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()
	st.addGoal(1, "Read Foo Bar weekly", "", store.GoalStatusActive, store.GoalPriorityLow)

	_, err := svc.ListGoals(ctx, Query{UserID: 1, Search: " Foo  Bar "})
	require.NoError(t, err)
	require.Equal(t, 1, st.listCalls)

	// Same filters up to casing/whitespace hit the same cache entry.
	_, err = svc.ListGoals(ctx, Query{UserID: 1, Search: "foo bar"})
	require.NoError(t, err)
	require.Equal(t, 1, st.listCalls)

	// A different page is a different key.
	_, err = svc.ListGoals(ctx, Query{UserID: 1, Search: "foo bar", Page: 2})
	require.NoError(t, err)
	require.Equal(t, 2, st.listCalls)
}

func TestListGoalsClampsPagination(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	page, err := svc.ListGoals(ctx, Query{UserID: 1, Page: -5, PageSize: 0})
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.Equal(t, DefaultPageSize, page.PageSize)

	page, err = svc.ListGoals(ctx, Query{UserID: 1, Page: 2, PageSize: 1000})
	require.NoError(t, err)
	require.Equal(t, 2, page.Page)
	require.Equal(t, MaxPageSize, page.PageSize)
}

func TestMutationsInvalidateCachedPages(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()
	goal := st.addGoal(1, "old title", "", store.GoalStatusActive, store.GoalPriorityMedium)

	page, err := svc.ListGoals(ctx, Query{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, "old title", page.Items[0].Title)
	require.Equal(t, 1, st.listCalls)

	newTitle := "new title"
	_, err = svc.UpdateGoal(ctx, 1, goal.UID, UpdateGoalRequest{Title: &newTitle})
	require.NoError(t, err)

	// The pre-update payload is gone; the next read goes to the store.
	page, err = svc.ListGoals(ctx, Query{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, 2, st.listCalls)
	require.Equal(t, "new title", page.Items[0].Title)

	require.NoError(t, svc.DeleteGoal(ctx, 1, goal.UID))
	page, err = svc.ListGoals(ctx, Query{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, 3, st.listCalls)
	require.Empty(t, page.Items)
}

func TestCreateGoalInvalidatesCachedPages(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()
	st.addGoal(1, "existing", "", store.GoalStatusActive, store.GoalPriorityMedium)

	_, err := svc.ListGoals(ctx, Query{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, 1, st.listCalls)

	_, err = svc.CreateGoal(ctx, 1, CreateGoalRequest{Title: "brand new"})
	require.NoError(t, err)

	page, err := svc.ListGoals(ctx, Query{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, 2, st.listCalls)
	require.Len(t, page.Items, 2)
	require.Equal(t, "brand new", page.Items[0].Title)
}

func TestListGoalsSurvivesCacheOutage(t *testing.T) {
	svc, st, _, srv := newTestService(t)
	ctx := context.Background()
	st.addGoal(1, "resilient", "", store.GoalStatusActive, store.GoalPriorityMedium)
	srv.Close()

	// With the cache down every read degrades to a store query; none fail.
	for i := 0; i < 2; i++ {
		page, err := svc.ListGoals(ctx, Query{UserID: 1})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
	}
	require.Equal(t, 2, st.listCalls)
}

func TestListGoalsPropagatesStoreFailure(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	st.failing = true

	_, err := svc.ListGoals(context.Background(), Query{UserID: 1})
	require.ErrorIs(t, err, errStoreDown)
}

func TestGetGoalNotFound(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()
	goal := st.addGoal(2, "someone else's goal", "", store.GoalStatusActive, store.GoalPriorityMedium)

	_, err := svc.GetGoal(ctx, 1, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	// Ownership is part of the lookup.
	_, err = svc.GetGoal(ctx, 1, goal.UID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateGoalValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateGoal(ctx, 1, CreateGoalRequest{Title: ""})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateGoal(ctx, 1, CreateGoalRequest{Title: "ok", Priority: "urgent"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	goal, err := svc.CreateGoal(ctx, 1, CreateGoalRequest{Title: "ok", Priority: "HIGH"})
	require.NoError(t, err)
	require.Equal(t, store.GoalPriorityHigh, goal.Priority)
	require.Equal(t, store.GoalStatusActive, goal.Status)
}

func TestUpdateGoalValidation(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()
	goal := st.addGoal(1, "goal", "", store.GoalStatusActive, store.GoalPriorityMedium)

	badStatus := "paused"
	_, err := svc.UpdateGoal(ctx, 1, goal.UID, UpdateGoalRequest{Status: &badStatus})
	require.ErrorIs(t, err, ErrInvalidArgument)

	done := "Completed"
	updated, err := svc.UpdateGoal(ctx, 1, goal.UID, UpdateGoalRequest{Status: &done})
	require.NoError(t, err)
	require.Equal(t, store.GoalStatusCompleted, updated.Status)
}

func TestLogProgressPublishesAfterWrite(t *testing.T) {
	svc, st, publisher, _ := newTestService(t)
	ctx := context.Background()
	goal := st.addGoal(1, "goal", "", store.GoalStatusActive, store.GoalPriorityMedium)

	entry, err := svc.LogProgress(ctx, 1, goal.UID, "5km run", 5)
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	require.Equal(t, entry.UID, publisher.published[0].EntryUID)
	require.Equal(t, goal.UID, publisher.published[0].GoalUID)

	// No event without a durable write.
	_, err = svc.LogProgress(ctx, 1, "missing", "note", 1)
	require.ErrorIs(t, err, ErrNotFound)
	require.Len(t, publisher.published, 1)
}
