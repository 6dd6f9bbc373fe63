// Package goal provides goal management: the cached, paginated list query,
// goal CRUD with write-triggered cache invalidation, and progress logging
// with event publication.
//
// List pages are cached read-through with a short TTL; every successful
// goal mutation invalidates all of the user's cached pages afterwards. The
// TTL bounds residual staleness from the unavoidable race between a
// concurrent read's cache-populate and a write's invalidation.
package goal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/stridehq/stride/server/events"
	"github.com/stridehq/stride/store"
	"github.com/stridehq/stride/store/cache"
)

const (
	// DefaultPageSize applies when the request leaves pageSize unset.
	DefaultPageSize = 20
	// MaxPageSize caps pageSize before key construction and query execution.
	MaxPageSize = 100
	// ListPageTTL is the cache TTL for list pages.
	ListPageTTL = 30 * time.Second
)

// Service errors, checked with errors.Is.
var (
	ErrNotFound        = errors.New("goal not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Query is a raw list request before normalization.
type Query struct {
	UserID   int32
	Page     int
	PageSize int
	Search   string
	Status   string
	Priority string
}

// Page is one page of a user's goal list.
type Page struct {
	Items    []*store.Goal `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
}

// CreateGoalRequest carries the fields for a new goal.
type CreateGoalRequest struct {
	Title       string
	Description string
	Priority    string
	TargetTs    *int64
}

// UpdateGoalRequest carries the mutable fields of a goal. Nil means "leave
// unchanged".
type UpdateGoalRequest struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	TargetTs    *int64
}

// Store is the interface for store operations needed by the goal service.
type Store interface {
	CreateGoal(ctx context.Context, create *store.Goal) (*store.Goal, error)
	GetGoal(ctx context.Context, find *store.FindGoal) (*store.Goal, error)
	ListGoals(ctx context.Context, find *store.FindGoal) ([]*store.Goal, error)
	CountGoals(ctx context.Context, find *store.FindGoal) (int64, error)
	UpdateGoal(ctx context.Context, update *store.UpdateGoal) error
	DeleteGoal(ctx context.Context, delete *store.DeleteGoal) error
	CreateProgressEntry(ctx context.Context, create *store.ProgressEntry) (*store.ProgressEntry, error)
	ListProgressEntries(ctx context.Context, find *store.FindProgressEntry) ([]*store.ProgressEntry, error)
}

// Service implements goal operations over the store and the page cache.
type Service struct {
	store     Store
	cache     cache.PageCache
	publisher events.Publisher
	now       func() time.Time
}

// NewService creates a new goal service.
func NewService(st Store, pageCache cache.PageCache, publisher events.Publisher) *Service {
	return &Service{
		store:     st,
		cache:     pageCache,
		publisher: publisher,
		now:       time.Now,
	}
}

// normalizedQuery is a Query after clamping and filter normalization. It is
// the only form keys are built from and queries are executed with.
type normalizedQuery struct {
	userID   int32
	page     int
	pageSize int
	search   string
	status   string
	priority string
}

func normalizeQuery(q Query) normalizedQuery {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return normalizedQuery{
		userID:   q.UserID,
		page:     page,
		pageSize: pageSize,
		search:   cache.NormalizeFilter(q.Search),
		status:   cache.NormalizeFilter(q.Status),
		priority: cache.NormalizeFilter(q.Priority),
	}
}

func (nq normalizedQuery) find() *store.FindGoal {
	find := &store.FindGoal{CreatorID: &nq.userID}
	if nq.search != cache.FilterAbsent {
		search := nq.search
		find.Search = &search
	}
	if nq.status != cache.FilterAbsent {
		status := store.GoalStatus(nq.status)
		find.Status = &status
	}
	if nq.priority != cache.FilterAbsent {
		priority := store.GoalPriority(nq.priority)
		find.Priority = &priority
	}
	return find
}

// ListGoals returns one page of the user's goals, filtered and ordered by
// creation time descending. The result is served from the page cache when a
// fresh entry exists; otherwise the store is queried and the cache
// populated before returning.
func (s *Service) ListGoals(ctx context.Context, q Query) (*Page, error) {
	nq := normalizeQuery(q)
	key := cache.GoalsPageKey(nq.userID, nq.page, nq.pageSize, nq.search, nq.status, nq.priority)

	var page Page
	if s.cache.Get(ctx, key, &page) {
		return &page, nil
	}

	find := nq.find()
	total, err := s.store.CountGoals(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count goals")
	}

	limit, offset := nq.pageSize, (nq.page-1)*nq.pageSize
	find.Limit = &limit
	find.Offset = &offset
	items, err := s.store.ListGoals(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list goals")
	}

	page = Page{
		Items:    items,
		Page:     nq.page,
		PageSize: nq.pageSize,
		Total:    total,
	}
	s.cache.Put(ctx, nq.userID, key, &page, ListPageTTL)
	return &page, nil
}

// GetGoal returns one goal owned by the user. Detail reads bypass the cache
// entirely.
func (s *Service) GetGoal(ctx context.Context, userID int32, uid string) (*store.Goal, error) {
	goal, err := s.store.GetGoal(ctx, &store.FindGoal{UID: &uid, CreatorID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get goal")
	}
	if goal == nil {
		return nil, ErrNotFound
	}
	return goal, nil
}

// CreateGoal creates a goal and invalidates the user's cached list pages.
func (s *Service) CreateGoal(ctx context.Context, userID int32, req CreateGoalRequest) (*store.Goal, error) {
	if req.Title == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "title is required")
	}
	priority, err := parsePriority(req.Priority, store.GoalPriorityMedium)
	if err != nil {
		return nil, err
	}

	goal, err := s.store.CreateGoal(ctx, &store.Goal{
		UID:         uuid.NewString(),
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      store.GoalStatusActive,
		Priority:    priority,
		TargetTs:    req.TargetTs,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create goal")
	}

	// Invalidation runs only after the write is committed. A new goal
	// changes the content of list pages, so create invalidates like any
	// other mutation.
	s.cache.InvalidateUser(ctx, userID)
	return goal, nil
}

// UpdateGoal applies the requested changes to a goal owned by the user, then
// invalidates the user's cached list pages.
func (s *Service) UpdateGoal(ctx context.Context, userID int32, uid string, req UpdateGoalRequest) (*store.Goal, error) {
	goal, err := s.GetGoal(ctx, userID, uid)
	if err != nil {
		return nil, err
	}

	updatedTs := s.now().Unix()
	update := &store.UpdateGoal{ID: goal.ID, UpdatedTs: &updatedTs}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, errors.Wrap(ErrInvalidArgument, "title is required")
		}
		update.Title = req.Title
	}
	update.Description = req.Description
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		update.Status = &status
	}
	if req.Priority != nil {
		priority, err := parsePriority(*req.Priority, "")
		if err != nil {
			return nil, err
		}
		update.Priority = &priority
	}
	update.TargetTs = req.TargetTs

	if err := s.store.UpdateGoal(ctx, update); err != nil {
		return nil, errors.Wrap(err, "failed to update goal")
	}
	s.cache.InvalidateUser(ctx, userID)

	return s.GetGoal(ctx, userID, uid)
}

// DeleteGoal deletes a goal owned by the user (progress entries and
// reminders cascade), then invalidates the user's cached list pages.
func (s *Service) DeleteGoal(ctx context.Context, userID int32, uid string) error {
	goal, err := s.GetGoal(ctx, userID, uid)
	if err != nil {
		return err
	}
	if err := s.store.DeleteGoal(ctx, &store.DeleteGoal{ID: goal.ID}); err != nil {
		return errors.Wrap(err, "failed to delete goal")
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

// LogProgress records a progress entry against a goal owned by the user and
// publishes a ProgressCreated event after the durable write.
func (s *Service) LogProgress(ctx context.Context, userID int32, goalUID string, note string, value float64) (*store.ProgressEntry, error) {
	goal, err := s.GetGoal(ctx, userID, goalUID)
	if err != nil {
		return nil, err
	}

	entry, err := s.store.CreateProgressEntry(ctx, &store.ProgressEntry{
		UID:       uuid.NewString(),
		GoalID:    goal.ID,
		CreatorID: userID,
		Note:      note,
		Value:     value,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create progress entry")
	}

	s.publisher.PublishProgressCreated(ctx, &events.ProgressCreated{
		EntryUID:  entry.UID,
		GoalUID:   goal.UID,
		CreatorID: userID,
		Note:      entry.Note,
		Value:     entry.Value,
		CreatedTs: entry.CreatedTs,
	})
	return entry, nil
}

// ListProgress lists progress entries for a goal owned by the user, newest
// first.
func (s *Service) ListProgress(ctx context.Context, userID int32, goalUID string, limit, offset int) ([]*store.ProgressEntry, error) {
	goal, err := s.GetGoal(ctx, userID, goalUID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	find := &store.FindProgressEntry{GoalID: &goal.ID, Limit: &limit}
	if offset > 0 {
		find.Offset = &offset
	}
	entries, err := s.store.ListProgressEntries(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list progress entries")
	}
	return entries, nil
}

func parseStatus(raw string) (store.GoalStatus, error) {
	switch status := store.GoalStatus(cache.NormalizeFilter(raw)); status {
	case store.GoalStatusActive, store.GoalStatusCompleted, store.GoalStatusArchived:
		return status, nil
	default:
		return "", errors.Wrapf(ErrInvalidArgument, "unknown status %q", raw)
	}
}

func parsePriority(raw string, fallback store.GoalPriority) (store.GoalPriority, error) {
	if raw == "" && fallback != "" {
		return fallback, nil
	}
	switch priority := store.GoalPriority(cache.NormalizeFilter(raw)); priority {
	case store.GoalPriorityLow, store.GoalPriorityMedium, store.GoalPriorityHigh:
		return priority, nil
	default:
		return "", errors.Wrapf(ErrInvalidArgument, "unknown priority %q", raw)
	}
}
