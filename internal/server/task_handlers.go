package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/apperr"
	"taskflow/internal/validation"
)

// badBody turns a malformed request body into a validation error so the
// client gets the usual 400 envelope instead of echo's default.
func badBody(error) error {
	v := &apperr.ValidationError{}
	return v.Add("body", "malformed request body")
}

func (s *Server) handleListTasks(c echo.Context) error {
	tasks, err := s.taskSvc.List(c.Request().Context(), actorFrom(c), c.QueryParam("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, tasks, "")
}

func (s *Server) handleCreateTask(c echo.Context) error {
	// TaskInput carries no owner field: whatever userId the client sends is
	// dropped at bind time and ownership comes from the session.
	var in validation.TaskInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, badBody(err))
	}
	task, err := s.taskSvc.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, task, "task created successfully")
}

func (s *Server) handleGetTask(c echo.Context) error {
	task, err := s.taskSvc.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, task, "")
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var in validation.TaskUpdateInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, badBody(err))
	}
	task, err := s.taskSvc.Update(c.Request().Context(), actorFrom(c), c.Param("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, task, "task updated successfully")
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.taskSvc.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, nil, "task deleted successfully")
}
