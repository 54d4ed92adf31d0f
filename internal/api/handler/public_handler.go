package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

// PublicHandler serves the pages that need no login.
type PublicHandler struct {
	showcase ports.ShowcaseAPI
	orders   ports.OrderAPI
}

func NewPublicHandler(showcase ports.ShowcaseAPI, orders ports.OrderAPI) *PublicHandler {
	return &PublicHandler{showcase: showcase, orders: orders}
}

// Showcase handles GET /api/showcase.
//
// @Summary      Public gallery of delivered work
// @Tags         public
// @Produce      json
// @Param        with_image  query     bool  false  "Only items with an image"
// @Success      200         {array}   domain.ShowcaseItem
// @Router       /api/showcase [get]
func (h *PublicHandler) Showcase(c echo.Context) error {
	items, err := h.showcase.Showcase(c.Request().Context(), c.QueryParam("with_image") == "true")
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.ShowcaseItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// Track handles GET /api/track/:id.
//
// @Summary      Track an order
// @Tags         public
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  ErrorResponse
// @Router       /api/track/{id} [get]
func (h *PublicHandler) Track(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.orders.TrackOrder(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}
