package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// Context keys set by middleware.RequireSession.
const (
	CtxUser = "user"
	CtxRole = "role"
)

// ctxUser returns the session user injected by RequireSession. A missing user
// means the route was mounted without the middleware.
func ctxUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get(CtxUser).(*domain.User)
	if u == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return u, nil
}

func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, badRequest("errors.positiveInteger", map[string]any{"name": name})
	}
	return id, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("errors.integer", map[string]any{"name": name})
	}
	return v, nil
}
