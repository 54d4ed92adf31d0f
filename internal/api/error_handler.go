package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/api/handler"
	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/i18n"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain and backend errors to HTTP status codes.
//   - Translates the message into the active display language.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "level": "error"}.
func NewHTTPErrorHandler(catalog *i18n.Catalog, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, catalog, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, catalog *i18n.Catalog, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	resp := handler.ErrorResponse{Level: handler.LevelError}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if msg == http.StatusText(he.Code) {
			msg = catalog.T(statusKey(he.Code))
		}
		resp.Error = msg
		return he.Code, resp
	}

	var re *handler.RequestError
	if errors.As(err, &re) {
		resp.Error = catalog.Translate(re.Key, re.Params)
		return http.StatusBadRequest, resp
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Error = catalog.T("errors.validationError")
		resp.Fields = ve.Messages()
		return http.StatusBadRequest, resp
	}

	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		resp.Error = catalog.T("auth.sessionExpired")
		resp.Redirect = "/login"
		return http.StatusUnauthorized, resp
	case errors.Is(err, domain.ErrNotAuthenticated):
		resp.Error = catalog.T("errors.unauthorized")
		resp.Redirect = "/login"
		return http.StatusUnauthorized, resp
	case errors.Is(err, domain.ErrTransport):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unreachable")
		resp.Error = catalog.T("errors.network")
		return http.StatusServiceUnavailable, resp
	case errors.Is(err, i18n.ErrUnsupportedLanguage):
		resp.Error = catalog.T("errors.badRequest")
		return http.StatusBadRequest, resp
	}

	var ae *domain.APIError
	if errors.As(err, &ae) {
		resp.Error = ae.Message
		if resp.Error == "" {
			resp.Error = catalog.T(statusKey(ae.Status))
		}
		return ae.Status, resp
	}

	// Role checks fail before any backend call.
	if errors.Is(err, domain.ErrForbidden) {
		resp.Error = catalog.T("errors.forbidden")
		return http.StatusForbidden, resp
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	resp.Error = catalog.T("errors.internalServer")
	return http.StatusInternalServerError, resp
}

// statusKey picks the catalog message for a status without a usable body.
func statusKey(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "errors.badRequest"
	case http.StatusUnauthorized:
		return "errors.unauthorized"
	case http.StatusForbidden:
		return "errors.forbidden"
	case http.StatusNotFound:
		return "errors.notFound"
	case http.StatusUnprocessableEntity:
		return "errors.validationError"
	case http.StatusInternalServerError:
		return "errors.internalServer"
	case http.StatusServiceUnavailable:
		return "errors.serviceUnavailable"
	default:
		return "errors.unknown"
	}
}
