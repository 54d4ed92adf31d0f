package handler

import (
	"cmp"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/service"
)

const recentOrders = 5

type DashboardHandler struct {
	workshop *service.Workshop
}

func NewDashboardHandler(workshop *service.Workshop) *DashboardHandler {
	return &DashboardHandler{workshop: workshop}
}

type dashboardResponse struct {
	Version uint64                     `json:"version"`
	Shift   *domain.Shift              `json:"shift"`
	Today   service.ShiftMetrics       `json:"today"`
	Total   int                        `json:"total"`
	Counts  map[domain.OrderStatus]int `json:"counts"`
	Recent  []domain.Order             `json:"recent_orders"`
}

// Get handles GET /api/manager/dashboard.
//
// Stage counts come from this month's statistics; the delivered count and
// today's revenue come from the active shift and are zero without one.
//
// @Summary      Manager dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /api/manager/dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	snap := h.workshop.Board.Snapshot()

	resp := dashboardResponse{
		Version: snap.Version,
		Shift:   snap.Shift,
		Today:   snap.Today,
		Counts:  service.DashboardCounts(snap.Statistics, snap.Shift),
		Recent:  latest(snap.Orders, recentOrders),
	}
	if snap.Statistics != nil {
		resp.Total = snap.Statistics.Total
	}
	return c.JSON(http.StatusOK, resp)
}

// latest returns up to n orders, newest first, without touching the input.
func latest(orders []domain.Order, n int) []domain.Order {
	out := slices.Clone(orders)
	slices.SortStableFunc(out, func(a, b domain.Order) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	if len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []domain.Order{}
	}
	return out
}
