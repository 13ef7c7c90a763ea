package server

import (
	"strings"

	"github.com/labstack/echo/v4"

	"taskflow/internal/apperr"
	"taskflow/internal/policy"
)

const actorContextKey = "actor"

// requireSession extracts and verifies the bearer token, storing the actor
// in the request context. Missing or bad tokens end the request with 401.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return respondError(c, apperr.ErrUnauthenticated)
		}
		actor, err := s.tokens.Parse(token)
		if err != nil {
			return respondError(c, apperr.ErrUnauthenticated)
		}
		c.Set(actorContextKey, actor)
		return next(c)
	}
}

// actorFrom returns the actor placed by requireSession; the zero actor
// stands for an unauthenticated request.
func actorFrom(c echo.Context) policy.Actor {
	if a, ok := c.Get(actorContextKey).(policy.Actor); ok {
		return a
	}
	return policy.Actor{}
}
