package workshopapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// CurrentShift returns (nil, nil) when no shift is active; the backend
// answers 404 in that case.
func (c *Client) CurrentShift(ctx context.Context) (*domain.Shift, error) {
	var s domain.Shift
	err := c.do(ctx, request{method: http.MethodGet, path: "/orders/shifts/current/"}, &s)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// OpenShift starts a new shift; the backend closes any active one first.
func (c *Client) OpenShift(ctx context.Context) (*domain.Shift, error) {
	var s domain.Shift
	if err := c.do(ctx, request{method: http.MethodPost, path: "/orders/shifts/open_new/"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CloseShift(ctx context.Context, id int) (*domain.ShiftClosure, error) {
	var out domain.ShiftClosure
	if err := c.do(ctx, request{method: http.MethodPost, path: shiftPath(id) + "close/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListShifts(ctx context.Context) ([]domain.Shift, error) {
	return fetchList[domain.Shift](ctx, c, request{method: http.MethodGet, path: "/orders/shifts/"})
}

func (c *Client) GetShift(ctx context.Context, id int) (*domain.Shift, error) {
	var s domain.Shift
	if err := c.do(ctx, request{method: http.MethodGet, path: shiftPath(id)}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ShiftDeliveredOrders(ctx context.Context, id int) ([]domain.Order, error) {
	return fetchList[domain.Order](ctx, c, request{method: http.MethodGet, path: shiftPath(id) + "delivered_orders/"})
}

func shiftPath(id int) string {
	return "/orders/shifts/" + strconv.Itoa(id) + "/"
}
