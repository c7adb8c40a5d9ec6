package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"eventplanner/internal/errors"
	"eventplanner/internal/model"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "sid"
	// ContextKey is where the gate stores the resolved *Session.
	ContextKey = "session"
)

// Gate guards routes. RequireAuth rejects anonymous callers, RequireAdmin
// additionally rejects non-admins and Optional attaches the identity when
// one is present.
type Gate struct {
	manager *Manager
}

// NewGate creates a gate resolving tokens through manager.
func NewGate(manager *Manager) *Gate {
	return &Gate{manager: manager}
}

func (g *Gate) config(optional bool) echojwt.Config {
	return echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + SessionCookie,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.manager.Resolve(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if optional {
				return nil
			}
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: errors.ErrAuthRequired.Error(),
				Code:  "AUTH_REQUIRED",
			})
		},
		ContinueOnIgnoredError: optional,
	}
}

// RequireAuth rejects requests without a valid session.
func (g *Gate) RequireAuth() echo.MiddlewareFunc {
	return echojwt.WithConfig(g.config(false))
}

// Optional attaches the session when present and never rejects.
func (g *Gate) Optional() echo.MiddlewareFunc {
	return echojwt.WithConfig(g.config(true))
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func (g *Gate) RequireAdmin() echo.MiddlewareFunc {
	required := g.RequireAuth()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return required(func(c echo.Context) error {
			session, ok := SessionFrom(c)
			if !ok || session.Role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: errors.ErrForbidden.Error(),
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		})
	}
}

// SessionFrom returns the session attached by the gate.
func SessionFrom(c echo.Context) (*Session, bool) {
	session, ok := c.Get(ContextKey).(*Session)
	return session, ok && session != nil
}
