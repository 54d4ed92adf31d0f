package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
	"github.com/laser-workshop/workshop-console/internal/core/service"
	"github.com/laser-workshop/workshop-console/internal/i18n"
)

type SessionHandler struct {
	session *service.SessionService
	live    ports.RealtimeChannel
	catalog *i18n.Catalog
}

// NewSessionHandler builds the login/logout endpoints. live may be nil.
func NewSessionHandler(session *service.SessionService, live ports.RealtimeChannel, catalog *i18n.Catalog) *SessionHandler {
	return &SessionHandler{session: session, live: live, catalog: catalog}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User     *domain.User       `json:"user"`
	Redirect string             `json:"redirect"`
	Realtime ports.ChannelState `json:"realtime,omitempty"`
	Message  string             `json:"message,omitempty"`
}

// Login exchanges credentials for a backend session.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("errors.invalidPayload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.session.Login(c.Request().Context(), domain.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		return err
	}

	resp := sessionResponse{User: user, Redirect: "/login"}
	if user != nil {
		resp.Redirect = user.HomePath()
		resp.Message = h.catalog.Translate("auth.welcome", map[string]any{"name": displayName(user)})
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout ends the session locally and on the backend.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  notice
// @Router       /api/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.session.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info(h.catalog, "auth.loggedOut", nil, map[string]string{"redirect": "/login"}))
}

// Current returns the logged-in user. With reload=true the profile is
// fetched again from the backend first.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Param        reload  query     bool  false  "Reload the profile from the backend"
// @Success      200     {object}  sessionResponse
// @Failure      401     {object}  ErrorResponse
// @Router       /api/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	if c.QueryParam("reload") == "true" {
		if user, err = h.session.Me(c.Request().Context()); err != nil {
			return err
		}
	}

	resp := sessionResponse{User: user, Redirect: user.HomePath()}
	if h.live != nil {
		resp.Realtime = h.live.State()
	}
	return c.JSON(http.StatusOK, resp)
}

func displayName(u *domain.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
