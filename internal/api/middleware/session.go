package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/api/handler"
	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// SessionSource reports the logged-in user, or nil.
type SessionSource interface {
	CurrentUser() *domain.User
}

// RequireSession rejects requests while logged out and injects the session
// user and role into the context.
func RequireSession(src SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := src.CurrentUser()
			if u == nil {
				return domain.ErrNotAuthenticated
			}
			c.Set(handler.CtxUser, u)
			c.Set(handler.CtxRole, u.Role)
			return next(c)
		}
	}
}
