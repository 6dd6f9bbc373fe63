package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/stridehq/stride/internal/profile"
	goalsvc "github.com/stridehq/stride/server/service/goal"
	remindersvc "github.com/stridehq/stride/server/service/reminder"
)

// APIV1Service hosts the REST handlers for goals, progress and reminders.
type APIV1Service struct {
	Profile         *profile.Profile
	GoalService     *goalsvc.Service
	ReminderService *remindersvc.Service
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(profile *profile.Profile, goalService *goalsvc.Service, reminderService *remindersvc.Service) *APIV1Service {
	return &APIV1Service{
		Profile:         profile,
		GoalService:     goalService,
		ReminderService: reminderService,
	}
}

// RegisterRoutes registers the v1 routes on the given Echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.GET("/goals", s.ListGoals)
	g.POST("/goals", s.CreateGoal)
	g.GET("/goals/:uid", s.GetGoal)
	g.PATCH("/goals/:uid", s.UpdateGoal)
	g.DELETE("/goals/:uid", s.DeleteGoal)

	g.GET("/goals/:uid/progress", s.ListProgress)
	g.POST("/goals/:uid/progress", s.LogProgress)

	g.GET("/goals/:uid/reminders", s.ListReminders)
	g.POST("/goals/:uid/reminders", s.CreateReminder)
	g.PATCH("/reminders/:id", s.SetReminderActive)
	g.DELETE("/reminders/:id", s.DeleteReminder)
}
