package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/service"
	"github.com/laser-workshop/workshop-console/internal/i18n"
)

const maxImageSize = 10 << 20

// OrderHandler serves the order board and order commands for both roles.
type OrderHandler struct {
	workshop *service.Workshop
	catalog  *i18n.Catalog
}

func NewOrderHandler(workshop *service.Workshop, catalog *i18n.Catalog) *OrderHandler {
	return &OrderHandler{workshop: workshop, catalog: catalog}
}

// --- Request / Response types ---

// orderRequest accepts either JSON or a multipart form with an optional
// "image" file part.
type orderRequest struct {
	CustomerName  string      `json:"customer_name"  form:"customer_name"  validate:"required,max=200"`
	CustomerPhone string      `json:"customer_phone" form:"customer_phone" validate:"required,max=20"`
	OrderDetails  string      `json:"order_details"  form:"order_details"  validate:"required"`
	Price         json.Number `json:"price"          form:"price"`
}

type orderBoardResponse struct {
	Version        uint64                                `json:"version"`
	HasActiveShift bool                                  `json:"has_active_shift"`
	Shift          *domain.Shift                         `json:"shift"`
	Counts         map[domain.OrderStatus]int            `json:"counts"`
	Buckets        map[domain.OrderStatus][]domain.Order `json:"buckets"`
}

// Board handles GET /api/{manager,worker}/orders.
//
// Orders are grouped by stage and DELIVERED only holds orders delivered
// during the active shift. Without an active shift the board is empty.
//
// @Summary      Order board
// @Tags         orders
// @Produce      json
// @Param        phone   query     string  false  "Filter by customer phone"
// @Param        status  query     string  false  "Only this stage"  Enums(UNDER_WORK, DESIGNING, DESIGN_COMPLETED, DELIVERED)
// @Success      200     {object}  orderBoardResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Router       /api/manager/orders [get]
// @Router       /api/worker/orders [get]
func (h *OrderHandler) Board(c echo.Context) error {
	only := domain.OrderStatus(c.QueryParam("status"))
	if only != "" && !only.Valid() {
		return badRequest("errors.unknownStatus", map[string]any{"status": string(only)})
	}
	phone := c.QueryParam("phone")

	snap := h.workshop.Board.Snapshot()
	resp := orderBoardResponse{
		Version:        snap.Version,
		HasActiveShift: snap.Today.HasActiveShift,
		Shift:          snap.Shift,
		Counts:         make(map[domain.OrderStatus]int, len(domain.Pipeline)),
		Buckets:        make(map[domain.OrderStatus][]domain.Order, len(domain.Pipeline)),
	}
	for _, st := range domain.Pipeline {
		orders := []domain.Order{}
		if resp.HasActiveShift && (only == "" || only == st) {
			if filtered := service.FilterByPhone(snap.Buckets[st], phone); filtered != nil {
				orders = filtered
			}
		}
		resp.Buckets[st] = orders
		resp.Counts[st] = len(orders)
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/manager/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  ErrorResponse
// @Router       /api/manager/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.workshop.Orders.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

// Create handles POST /api/manager/orders.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json,mpfd
// @Produce      json
// @Param        body  body      orderRequest  true  "Order details"
// @Param        image formData  file          false "Design image"
// @Success      201   {object}  notice
// @Failure      400   {object}  ErrorResponse
// @Router       /api/manager/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	in, err := bindOrder(c)
	if err != nil {
		return err
	}
	o, err := h.workshop.CreateOrder(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, success(h.catalog, "orders.created", map[string]any{"id": o.ID}, o))
}

// Update handles PATCH /api/manager/orders/:id.
//
// @Summary      Update an order
// @Tags         orders
// @Accept       json,mpfd
// @Produce      json
// @Param        id    path      int           true  "Order ID"
// @Param        body  body      orderRequest  true  "Order details"
// @Success      200   {object}  notice
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/manager/orders/{id} [patch]
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	in, err := bindOrder(c)
	if err != nil {
		return err
	}
	o, err := h.workshop.UpdateOrder(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(h.catalog, "orders.updated", map[string]any{"id": o.ID}, o))
}

// Delete handles DELETE /api/manager/orders/:id.
//
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  notice
// @Failure      404  {object}  ErrorResponse
// @Router       /api/manager/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.workshop.DeleteOrder(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(h.catalog, "orders.deleted", map[string]any{"id": id}, nil))
}

// Advance handles POST /api/{manager,worker}/orders/:id/advance.
//
// Moves the order one stage forward. A delivered order is left alone and
// reported as info, not as an error.
//
// @Summary      Advance an order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  notice
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/worker/orders/{id}/advance [post]
func (h *OrderHandler) Advance(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	o, advanced, err := h.workshop.AdvanceOrder(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !advanced {
		return c.JSON(http.StatusOK, info(h.catalog, "orders.alreadyDelivered", map[string]any{"id": id}, o))
	}
	status := h.catalog.T("orders.status." + string(o.Status))
	return c.JSON(http.StatusOK, success(h.catalog, "orders.advanced", map[string]any{"id": o.ID, "status": status}, o))
}

func bindOrder(c echo.Context) (domain.OrderInput, error) {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return domain.OrderInput{}, badRequest("errors.invalidPayload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return domain.OrderInput{}, err
	}

	in := domain.OrderInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		OrderDetails:  req.OrderDetails,
	}
	if req.Price != "" {
		m, err := domain.ParseMoney(string(req.Price))
		if err != nil || m < 0 {
			return domain.OrderInput{}, &domain.ValidationError{Fields: map[string][]string{"price": {"must be a non-negative number"}}}
		}
		in.Price = &m
	}

	fh, err := c.FormFile("image")
	if err != nil {
		// No multipart body or no image part.
		return in, nil
	}
	if fh.Size > maxImageSize {
		return domain.OrderInput{}, &domain.ValidationError{Fields: map[string][]string{"image": {fmt.Sprintf("must be at most %d MB", maxImageSize>>20)}}}
	}
	f, err := fh.Open()
	if err != nil {
		return domain.OrderInput{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxImageSize))
	if err != nil {
		return domain.OrderInput{}, fmt.Errorf("read image: %w", err)
	}
	in.Image = &domain.Upload{Filename: fh.Filename, Content: content}
	return in, nil
}
