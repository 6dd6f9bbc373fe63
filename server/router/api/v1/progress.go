package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stridehq/stride/store"
)

// ProgressEntryResponse is the wire shape of a progress entry.
type ProgressEntryResponse struct {
	UID       string  `json:"uid"`
	Note      string  `json:"note"`
	Value     float64 `json:"value"`
	CreatedTs int64   `json:"created_ts"`
}

type logProgressRequest struct {
	Note  string  `json:"note"`
	Value float64 `json:"value"`
}

func convertProgressEntry(entry *store.ProgressEntry) *ProgressEntryResponse {
	return &ProgressEntryResponse{
		UID:       entry.UID,
		Note:      entry.Note,
		Value:     entry.Value,
		CreatedTs: entry.CreatedTs,
	}
}

// ListProgress lists progress entries for a goal, newest first.
// GET /api/v1/goals/:uid/progress?limit=&offset=
func (s *APIV1Service) ListProgress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	entries, err := s.GoalService.ListProgress(c.Request().Context(), userID, c.Param("uid"), queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		return errorJSON(c, err)
	}
	resp := make([]*ProgressEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, convertProgressEntry(entry))
	}
	return c.JSON(http.StatusOK, resp)
}

// LogProgress records a progress entry against a goal.
// POST /api/v1/goals/:uid/progress
func (s *APIV1Service) LogProgress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req logProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	entry, err := s.GoalService.LogProgress(c.Request().Context(), userID, c.Param("uid"), req.Note, req.Value)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, convertProgressEntry(entry))
}
