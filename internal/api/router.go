package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/api/handler"
	"github.com/laser-workshop/workshop-console/internal/api/middleware"
	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
	"github.com/laser-workshop/workshop-console/internal/core/service"
	"github.com/laser-workshop/workshop-console/internal/i18n"
	"github.com/laser-workshop/workshop-console/internal/infrastructure/http/live"
)

// Deps are the services the console routes are served from.
type Deps struct {
	Session  *service.SessionService
	Workshop *service.Workshop
	Backend  ports.WorkshopAPI
	Channel  ports.RealtimeChannel // optional
	Catalog  *i18n.Catalog
	Hub      *live.Hub
	Log      zerolog.Logger
}

// route is one entry of a route table.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

// Register installs the validator, the error handler and every console route
// on e.
func Register(e *echo.Echo, d Deps) {
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Catalog, d.Log)

	// --- Dependencies ---
	sessionHandler := handler.NewSessionHandler(d.Session, d.Channel, d.Catalog)
	publicHandler := handler.NewPublicHandler(d.Backend, d.Backend)
	languageHandler := handler.NewLanguageHandler(d.Catalog)
	orderHandler := handler.NewOrderHandler(d.Workshop, d.Catalog)
	dashboardHandler := handler.NewDashboardHandler(d.Workshop)
	shiftHandler := handler.NewShiftHandler(d.Workshop, d.Catalog)
	employeeHandler := handler.NewEmployeeHandler(d.Backend, d.Catalog)
	reportHandler := handler.NewReportHandler(d.Backend)
	liveHandler := handler.NewLiveHandler(d.Hub)

	requireSession := middleware.RequireSession(d.Session)

	// --- Public routes ---
	mount(e.Group("/api"), []route{
		{http.MethodGet, "/showcase", publicHandler.Showcase},
		{http.MethodGet, "/track/:id", publicHandler.Track},
		{http.MethodGet, "/language", languageHandler.Get},
		{http.MethodPut, "/language", languageHandler.Set},
		{http.MethodPost, "/session/login", sessionHandler.Login},
	})

	// --- Any logged-in user ---
	mount(e.Group("/api"), []route{
		{http.MethodGet, "/session", sessionHandler.Current},
		{http.MethodPost, "/session/logout", sessionHandler.Logout},
		{http.MethodGet, "/live", liveHandler.Serve},
	}, requireSession)

	// --- Manager ---
	mount(e.Group("/api/manager"), []route{
		{http.MethodGet, "/dashboard", dashboardHandler.Get},

		{http.MethodGet, "/orders", orderHandler.Board},
		{http.MethodPost, "/orders", orderHandler.Create},
		{http.MethodGet, "/orders/:id", orderHandler.Get},
		{http.MethodPatch, "/orders/:id", orderHandler.Update},
		{http.MethodDelete, "/orders/:id", orderHandler.Delete},
		{http.MethodPost, "/orders/:id/advance", orderHandler.Advance},

		{http.MethodGet, "/employees", employeeHandler.List},
		{http.MethodPost, "/employees", employeeHandler.Register},
		{http.MethodPatch, "/employees/:id", employeeHandler.Update},
		{http.MethodDelete, "/employees/:id", employeeHandler.Delete},

		{http.MethodGet, "/reports/daily", reportHandler.Daily},
		{http.MethodGet, "/reports/monthly", reportHandler.Monthly},

		{http.MethodGet, "/shifts/current", shiftHandler.Current},
		{http.MethodPost, "/shifts/open", shiftHandler.Open},
		{http.MethodPost, "/shifts/:id/close", shiftHandler.Close},
		{http.MethodGet, "/shifts", shiftHandler.History},
		{http.MethodGet, "/shifts/:id", shiftHandler.Details},
	}, requireSession, middleware.RBAC(domain.RoleManager))

	// --- Worker ---
	mount(e.Group("/api/worker"), []route{
		{http.MethodGet, "/orders", orderHandler.Board},
		{http.MethodPost, "/orders/:id/advance", orderHandler.Advance},
	}, requireSession, middleware.RBAC(domain.RoleWorker))
}

func mount(g *echo.Group, routes []route, mw ...echo.MiddlewareFunc) {
	for _, r := range routes {
		g.Add(r.method, r.path, r.handler, mw...)
	}
}
