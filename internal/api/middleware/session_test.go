package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/api/handler"
	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

type stubSession struct {
	user *domain.User
}

func (s stubSession) CurrentUser() *domain.User { return s.user }

func TestRequireSession_InjectsUserAndRole(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	u := &domain.User{ID: 7, Username: "amal", Role: domain.RoleWorker}

	var gotRole string
	var gotUser *domain.User
	h := RequireSession(stubSession{user: u})(func(c echo.Context) error {
		gotRole, _ = c.Get(handler.CtxRole).(string)
		gotUser, _ = c.Get(handler.CtxUser).(*domain.User)
		return nil
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRole != domain.RoleWorker {
		t.Fatalf("expected role WORKER, got %q", gotRole)
	}
	if gotUser == nil || gotUser.ID != 7 {
		t.Fatalf("expected user 7, got %+v", gotUser)
	}
}

func TestRequireSession_RejectsWhenLoggedOut(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	h := RequireSession(stubSession{})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := h(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestRequireSessionThenRBAC(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	u := &domain.User{ID: 1, Username: "worker", Role: domain.RoleWorker}

	h := RequireSession(stubSession{user: u})(RBAC(domain.RoleManager)(func(c echo.Context) error {
		t.Fatalf("worker must not reach manager handler")
		return nil
	}))
	if err := h(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
