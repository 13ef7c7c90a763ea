// Package server is the HTTP surface: routes, session middleware, and the
// uniform response envelope over the service layer.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskflow/internal/auth"
	"taskflow/internal/service"
	"taskflow/internal/upload"
)

// Server wires the echo router to the services.
type Server struct {
	echo     *echo.Echo
	authSvc  *service.AuthService
	taskSvc  *service.TaskService
	adminSvc *service.AdminService
	tokens   *auth.TokenManager
	uploader upload.Uploader
}

// New builds the router. uploader may be nil, in which case the upload
// endpoint reports the feature as unavailable.
func New(authSvc *service.AuthService, taskSvc *service.TaskService, adminSvc *service.AdminService, tokens *auth.TokenManager, uploader upload.Uploader) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	s := &Server{
		echo:     e,
		authSvc:  authSvc,
		taskSvc:  taskSvc,
		adminSvc: adminSvc,
		tokens:   tokens,
		uploader: uploader,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	// Everything below requires a valid session.
	authed := api.Group("", s.requireSession)
	authed.POST("/auth/refresh", s.handleRefresh)

	authed.GET("/tasks", s.handleListTasks)
	authed.POST("/tasks", s.handleCreateTask)
	authed.GET("/tasks/:id", s.handleGetTask)
	authed.PUT("/tasks/:id", s.handleUpdateTask)
	authed.DELETE("/tasks/:id", s.handleDeleteTask)

	authed.POST("/upload", s.handleUpload)

	// Role checks live in the services, not in route middleware, so the
	// policy package stays the single decision point.
	authed.GET("/admin/stats", s.handleAdminStats)
	authed.GET("/admin/users", s.handleAdminListUsers)
	authed.PUT("/admin/users/:id/role", s.handleAdminUpdateRole)
	authed.DELETE("/admin/users/:id", s.handleAdminDeleteUser)
	authed.GET("/admin/audit", s.handleAdminAudit)
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() *echo.Echo { return s.echo }
