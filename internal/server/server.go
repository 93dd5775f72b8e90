package server

import (
	"context"
	"fmt"

	"github.com/grachmannico95/finsync/internal/config"
	"github.com/grachmannico95/finsync/internal/handler"
	"github.com/grachmannico95/finsync/internal/middleware"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Sync         *handler.SyncHandler
	Notification *handler.NotificationHandler
	Device       *handler.DeviceHandler
	Health       *handler.HealthHandler
}

type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	logger   *logger.Logger
	handlers Handlers
}

func New(cfg *config.Config, log *logger.Logger, handlers Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		cfg:      cfg,
		logger:   log,
		handlers: handlers,
	}
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info(context.Background(), "Starting HTTP server",
		"address", addr,
	)

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupMiddleware() {
	s.echo.Use(echoMiddleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.Scope())
	s.echo.Use(middleware.Logging(s.logger))
}

func (s *Server) setupRoutes() {
	h := s.handlers

	s.echo.GET("/health", h.Health.Check)

	users := s.echo.Group("/users/:user_id")
	users.POST("/sync", h.Sync.SyncAll)
	users.POST("/sync/incremental", h.Sync.Incremental)
	users.POST("/sync/cancel", h.Sync.Cancel)
	users.GET("/sync/status", h.Sync.Status)
	users.GET("/sync/status/stream", h.Sync.Stream)
	users.GET("/notifications", h.Notification.List)
	users.POST("/notifications/dismiss", h.Notification.Dismiss)

	accounts := s.echo.Group("/accounts/:account_id")
	accounts.POST("/sync", h.Sync.SyncAccount)
	accounts.POST("/transactions/sync", h.Sync.SyncTransactions)

	s.echo.GET("/device/state", h.Device.Get)
	s.echo.PUT("/device/state", h.Device.Update)
}

func (s *Server) Handler() *echo.Echo {
	return s.echo
}
