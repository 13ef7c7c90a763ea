package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"taskflow/internal/model"
)

func (s *Server) handleAdminStats(c echo.Context) error {
	stats, err := s.adminSvc.Stats(c.Request().Context(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, stats, "")
}

func (s *Server) handleAdminListUsers(c echo.Context) error {
	users, err := s.adminSvc.ListUsers(c.Request().Context(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, users, "")
}

type updateRoleRequest struct {
	Role model.Role `json:"role"`
}

func (s *Server) handleAdminUpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, badBody(err))
	}
	if err := s.adminSvc.UpdateUserRole(c.Request().Context(), actorFrom(c), c.Param("id"), req.Role); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, nil, "user role updated to "+string(req.Role))
}

func (s *Server) handleAdminDeleteUser(c echo.Context) error {
	if err := s.adminSvc.DeleteUser(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, nil, "user deleted successfully")
}

func (s *Server) handleAdminAudit(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	records, err := s.adminSvc.AuditTrail(c.Request().Context(), actorFrom(c), limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, records, "")
}
