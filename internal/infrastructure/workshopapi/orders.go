package workshopapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

func (c *Client) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	req := request{method: http.MethodGet, path: "/orders/"}
	if status != "" {
		req.query = url.Values{"status": {string(status)}}
	}
	return fetchList[domain.Order](ctx, c, req)
}

func (c *Client) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: orderPath(id)}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder posts the order as multipart form data so an image can ride along.
func (c *Client) CreateOrder(ctx context.Context, in domain.OrderInput) (*domain.Order, error) {
	req, err := orderForm(http.MethodPost, "/orders/", in)
	if err != nil {
		return nil, err
	}
	var o domain.Order
	if err := c.do(ctx, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id int, in domain.OrderInput) (*domain.Order, error) {
	req, err := orderForm(http.MethodPatch, orderPath(id), in)
	if err != nil {
		return nil, err
	}
	var o domain.Order
	if err := c.do(ctx, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrderStatus uses the dedicated status endpoint, open to both roles.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	req, err := jsonRequest(http.MethodPatch, orderPath(id)+"update_status/", map[string]string{"status": string(status)})
	if err != nil {
		return nil, err
	}
	var o domain.Order
	if err := c.do(ctx, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: orderPath(id)}, nil)
}

// TrackOrder is the public lookup by order number.
func (c *Client) TrackOrder(ctx context.Context, id int) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: orderPath(id) + "track/"}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) OrderStatistics(ctx context.Context, year, month int) (*domain.OrderStatistics, error) {
	q := url.Values{}
	if month > 0 {
		q.Set("month", strconv.Itoa(month))
	}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	var st domain.OrderStatistics
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/statistics/", query: q}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func orderPath(id int) string {
	return "/orders/" + strconv.Itoa(id) + "/"
}

// orderForm encodes an order as multipart/form-data. Price is only sent when
// set; an empty price field would be rejected by the backend.
func orderForm(method, path string, in domain.OrderInput) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"customer_name", in.CustomerName},
		{"customer_phone", in.CustomerPhone},
		{"order_details", in.OrderDetails},
	}
	if in.Price != nil {
		fields = append(fields, [2]string{"price", in.Price.String()})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return request{}, fmt.Errorf("order form: %w", err)
		}
	}

	if in.Image != nil && len(in.Image.Content) > 0 {
		part, err := w.CreateFormFile("image", in.Image.Filename)
		if err != nil {
			return request{}, fmt.Errorf("order form image: %w", err)
		}
		if _, err := part.Write(in.Image.Content); err != nil {
			return request{}, fmt.Errorf("order form image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("order form: %w", err)
	}

	return request{
		method:      method,
		path:        path,
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, nil
}
