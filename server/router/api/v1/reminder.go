package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stridehq/stride/store"
)

// ReminderResponse is the wire shape of a reminder.
type ReminderResponse struct {
	ID        int32  `json:"id"`
	Channel   string `json:"channel"`
	CronExpr  string `json:"cron_expr"`
	NextRunTs *int64 `json:"next_run_ts,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedTs int64  `json:"created_ts"`
}

type createReminderRequest struct {
	Channel  string `json:"channel"`
	CronExpr string `json:"cron_expr"`
}

type setReminderActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func convertReminder(reminder *store.Reminder) *ReminderResponse {
	return &ReminderResponse{
		ID:        reminder.ID,
		Channel:   string(reminder.Channel),
		CronExpr:  reminder.CronExpr,
		NextRunTs: reminder.NextRunTs,
		IsActive:  reminder.IsActive,
		CreatedTs: reminder.CreatedTs,
	}
}

func reminderIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid reminder id")
	}
	return int32(id), nil
}

// ListReminders lists the reminders on a goal.
// GET /api/v1/goals/:uid/reminders
func (s *APIV1Service) ListReminders(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	reminders, err := s.ReminderService.ListReminders(c.Request().Context(), userID, c.Param("uid"))
	if err != nil {
		return errorJSON(c, err)
	}
	resp := make([]*ReminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		resp = append(resp, convertReminder(reminder))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateReminder attaches a reminder to a goal. The cron expression is
// validated here; a malformed one is rejected up front.
// POST /api/v1/goals/:uid/reminders
func (s *APIV1Service) CreateReminder(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createReminderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	reminder, err := s.ReminderService.CreateReminder(c.Request().Context(), userID, c.Param("uid"), req.Channel, req.CronExpr)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, convertReminder(reminder))
}

// SetReminderActive toggles a reminder.
// PATCH /api/v1/reminders/:id
func (s *APIV1Service) SetReminderActive(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := reminderIDParam(c)
	if err != nil {
		return err
	}
	var req setReminderActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	reminder, err := s.ReminderService.SetActive(c.Request().Context(), userID, id, req.IsActive)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertReminder(reminder))
}

// DeleteReminder deletes a reminder.
// DELETE /api/v1/reminders/:id
func (s *APIV1Service) DeleteReminder(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := reminderIDParam(c)
	if err != nil {
		return err
	}
	if err := s.ReminderService.DeleteReminder(c.Request().Context(), userID, id); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
