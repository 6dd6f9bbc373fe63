package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	goalsvc "github.com/stridehq/stride/server/service/goal"
	"github.com/stridehq/stride/store"
)

// GoalResponse is the wire shape of a goal.
type GoalResponse struct {
	UID         string `json:"uid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	TargetTs    *int64 `json:"target_ts,omitempty"`
	CreatedTs   int64  `json:"created_ts"`
	UpdatedTs   int64  `json:"updated_ts"`
}

// GoalPageResponse is one page of goals.
type GoalPageResponse struct {
	Items    []*GoalResponse `json:"items"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int64           `json:"total"`
}

type createGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	TargetTs    *int64 `json:"target_ts"`
}

type updateGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	TargetTs    *int64  `json:"target_ts"`
}

func convertGoal(goal *store.Goal) *GoalResponse {
	return &GoalResponse{
		UID:         goal.UID,
		Title:       goal.Title,
		Description: goal.Description,
		Status:      string(goal.Status),
		Priority:    string(goal.Priority),
		TargetTs:    goal.TargetTs,
		CreatedTs:   goal.CreatedTs,
		UpdatedTs:   goal.UpdatedTs,
	}
}

// ListGoals returns one page of the user's goals.
// GET /api/v1/goals?page=&page_size=&search=&status=&priority=
func (s *APIV1Service) ListGoals(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	page, err2 := s.GoalService.ListGoals(c.Request().Context(), goalsvc.Query{
		UserID:   userID,
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
		Search:   c.QueryParam("search"),
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
	})
	if err2 != nil {
		return errorJSON(c, err2)
	}

	resp := &GoalPageResponse{
		Items:    make([]*GoalResponse, 0, len(page.Items)),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	}
	for _, goal := range page.Items {
		resp.Items = append(resp.Items, convertGoal(goal))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetGoal returns a single goal. Detail reads are never cached.
// GET /api/v1/goals/:uid
func (s *APIV1Service) GetGoal(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	goal, err := s.GoalService.GetGoal(c.Request().Context(), userID, c.Param("uid"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertGoal(goal))
}

// CreateGoal creates a goal.
// POST /api/v1/goals
func (s *APIV1Service) CreateGoal(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	goal, err := s.GoalService.CreateGoal(c.Request().Context(), userID, goalsvc.CreateGoalRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		TargetTs:    req.TargetTs,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, convertGoal(goal))
}

// UpdateGoal updates a goal.
// PATCH /api/v1/goals/:uid
func (s *APIV1Service) UpdateGoal(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req updateGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	goal, err := s.GoalService.UpdateGoal(c.Request().Context(), userID, c.Param("uid"), goalsvc.UpdateGoalRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		TargetTs:    req.TargetTs,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertGoal(goal))
}

// DeleteGoal deletes a goal along with its progress entries and reminders.
// DELETE /api/v1/goals/:uid
func (s *APIV1Service) DeleteGoal(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := s.GoalService.DeleteGoal(c.Request().Context(), userID, c.Param("uid")); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
