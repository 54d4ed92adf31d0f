package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/api/handler"
	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// RBAC enforces role-based access control on the role set by RequireSession.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(handler.CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
