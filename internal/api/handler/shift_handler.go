package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/service"
	"github.com/laser-workshop/workshop-console/internal/i18n"
)

type ShiftHandler struct {
	workshop *service.Workshop
	catalog  *i18n.Catalog
}

func NewShiftHandler(workshop *service.Workshop, catalog *i18n.Catalog) *ShiftHandler {
	return &ShiftHandler{workshop: workshop, catalog: catalog}
}

type currentShiftResponse struct {
	Active  bool                 `json:"active"`
	Shift   *domain.Shift        `json:"shift"`
	Metrics service.ShiftMetrics `json:"metrics"`
}

type shiftDetailsResponse struct {
	Shift           *domain.Shift  `json:"shift"`
	DeliveredOrders []domain.Order `json:"delivered_orders"`
}

// Current handles GET /api/manager/shifts/current.
//
// @Summary      Active shift
// @Tags         shifts
// @Produce      json
// @Success      200  {object}  currentShiftResponse
// @Router       /api/manager/shifts/current [get]
func (h *ShiftHandler) Current(c echo.Context) error {
	s := h.workshop.Shifts.Current()
	return c.JSON(http.StatusOK, currentShiftResponse{
		Active:  s != nil && s.IsActive,
		Shift:   s,
		Metrics: service.MetricsFor(s),
	})
}

// Open handles POST /api/manager/shifts/open. The backend closes any active
// shift before opening the new one.
//
// @Summary      Open a new shift
// @Tags         shifts
// @Produce      json
// @Success      201  {object}  notice
// @Failure      403  {object}  ErrorResponse
// @Router       /api/manager/shifts/open [post]
func (h *ShiftHandler) Open(c echo.Context) error {
	s, err := h.workshop.OpenShift(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, success(h.catalog, "shifts.opened", nil, s))
}

// Close handles POST /api/manager/shifts/:id/close.
//
// @Summary      Close a shift
// @Tags         shifts
// @Produce      json
// @Param        id   path      int  true  "Shift ID"
// @Success      200  {object}  notice
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/manager/shifts/{id}/close [post]
func (h *ShiftHandler) Close(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	closure, err := h.workshop.CloseShift(c.Request().Context(), id)
	if err != nil {
		return err
	}
	params := map[string]any{
		"count":   closure.Summary.TotalOrdersDelivered,
		"revenue": closure.Summary.TotalRevenue.String(),
	}
	return c.JSON(http.StatusOK, success(h.catalog, "shifts.closed", params, closure))
}

// History handles GET /api/manager/shifts.
//
// @Summary      Shift history
// @Tags         shifts
// @Produce      json
// @Success      200  {array}   domain.Shift
// @Router       /api/manager/shifts [get]
func (h *ShiftHandler) History(c echo.Context) error {
	shifts, err := h.workshop.Shifts.History(c.Request().Context())
	if err != nil {
		return err
	}
	if shifts == nil {
		shifts = []domain.Shift{}
	}
	return c.JSON(http.StatusOK, shifts)
}

// Details handles GET /api/manager/shifts/:id.
//
// @Summary      Shift details
// @Tags         shifts
// @Produce      json
// @Param        id   path      int  true  "Shift ID"
// @Success      200  {object}  shiftDetailsResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/manager/shifts/{id} [get]
func (h *ShiftHandler) Details(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s, orders, err := h.workshop.Shifts.Details(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(http.StatusOK, shiftDetailsResponse{Shift: s, DeliveredOrders: orders})
}
