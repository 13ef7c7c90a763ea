package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/apperr"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Message string              `json:"message,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

// respondError maps the error taxonomy to status codes. Anything outside
// the taxonomy is logged with request context and surfaced as a generic
// internal error; storage and upload failure text never reaches the client.
func respondError(c echo.Context, err error) error {
	if v, ok := apperr.AsValidation(err); ok {
		return c.JSON(http.StatusBadRequest, envelope{
			Success: false,
			Error:   "invalid input data",
			Details: v.Fields,
		})
	}

	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return failWith(c, http.StatusUnauthorized, apperr.ErrInvalidCredentials.Error())
	case errors.Is(err, apperr.ErrUnauthenticated):
		return failWith(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, apperr.ErrForbidden):
		return failWith(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		return failWith(c, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		return failWith(c, http.StatusConflict, "user with this email already exists")
	case errors.Is(err, apperr.ErrSelfDeletion):
		return failWith(c, http.StatusBadRequest, "you cannot delete your own admin account")
	}

	log.Printf("[error] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return failWith(c, http.StatusInternalServerError, "internal server error")
}

func failWith(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: false, Error: message})
}
