package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/stridehq/stride/internal/profile"
	"github.com/stridehq/stride/server/events"
	"github.com/stridehq/stride/server/middleware"
	"github.com/stridehq/stride/server/notifier"
	apiv1 "github.com/stridehq/stride/server/router/api/v1"
	reminderrunner "github.com/stridehq/stride/server/runner/reminder"
	goalsvc "github.com/stridehq/stride/server/service/goal"
	remindersvc "github.com/stridehq/stride/server/service/reminder"
	"github.com/stridehq/stride/store"
	"github.com/stridehq/stride/store/cache"
)

// Server hosts the HTTP API and the background reminder runner.
type Server struct {
	profile *profile.Profile
	store   *store.Store
	cache   cache.PageCache

	echoServer     *echo.Echo
	reminderRunner *reminderrunner.Runner
}

// NewServer wires the services over the store and the page cache.
func NewServer(profile *profile.Profile, st *store.Store, pageCache cache.PageCache) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.NewRateLimiter().Middleware())

	goalService := goalsvc.NewService(st, pageCache, events.NewLogPublisher())
	reminderService := remindersvc.NewService(st)
	apiv1.NewAPIV1Service(profile, goalService, reminderService).RegisterRoutes(e)

	dispatcher := notifier.NewDispatcher(
		notifier.NewEmailNotifier(profile.ResendAPIKey, profile.NotifyFrom, profile.NotifyTo),
		notifier.NewPushNotifier(),
	)

	return &Server{
		profile:        profile,
		store:          st,
		cache:          pageCache,
		echoServer:     e,
		reminderRunner: reminderrunner.NewRunner(st, dispatcher, profile.ReminderInterval, profile.ReminderBatchSize),
	}
}

// Start runs the HTTP server and the reminder runner until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	go s.reminderRunner.Run(ctx)

	addr := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	slog.Info("server started", "addr", addr, "profile", s.profile.String())
	if err := s.echoServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to start server")
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes shared handles.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown http server", "error", err)
	}
	if err := s.cache.Close(); err != nil {
		slog.Error("failed to close cache client", "error", err)
	}
	if err := s.store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}
