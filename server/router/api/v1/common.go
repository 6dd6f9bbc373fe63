package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	goalsvc "github.com/stridehq/stride/server/service/goal"
	remindersvc "github.com/stridehq/stride/server/service/reminder"
)

// userIDHeader carries the authenticated user id. Authentication itself is
// handled upstream (gateway/middleware); the API trusts this header.
const userIDHeader = "X-User-ID"

type errorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func currentUserID(c echo.Context) (int32, error) {
	raw := c.Request().Header.Get(userIDHeader)
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing user id")
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid user id")
	}
	return int32(id), nil
}

// errorJSON maps service errors to structured HTTP responses: typed
// not-found and validation failures keep their meaning, anything else is an
// internal failure of the system of record.
func errorJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, goalsvc.ErrNotFound),
		errors.Is(err, remindersvc.ErrNotFound),
		errors.Is(err, remindersvc.ErrGoalNotFound):
		return c.JSON(http.StatusNotFound, errorMessage{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, goalsvc.ErrInvalidArgument),
		errors.Is(err, remindersvc.ErrInvalidCronExpr),
		errors.Is(err, remindersvc.ErrInvalidChannel):
		return c.JSON(http.StatusBadRequest, errorMessage{Code: "INVALID_ARGUMENT", Message: err.Error()})
	default:
		slog.Error("request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errorMessage{Code: "INTERNAL", Message: "internal server error"})
	}
}

func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
