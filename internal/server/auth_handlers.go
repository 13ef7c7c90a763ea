package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/validation"
)

func (s *Server) handleRegister(c echo.Context) error {
	var in validation.RegisterInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, badBody(err))
	}
	user, err := s.authSvc.Register(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, user, "user registered successfully")
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var in validation.LoginInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, badBody(err))
	}
	token, user, err := s.authSvc.Login(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, loginResponse{Token: token, User: user}, "logged in successfully")
}

func (s *Server) handleRefresh(c echo.Context) error {
	token, err := s.authSvc.Refresh(c.Request().Context(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, map[string]string{"token": token}, "")
}
