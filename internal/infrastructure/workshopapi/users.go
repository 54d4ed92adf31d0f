package workshopapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	return fetchList[domain.User](ctx, c, request{method: http.MethodGet, path: "/auth/users/"})
}

func (c *Client) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: userPath(id)}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// RegisterUser creates an employee account. Like login, the register
// endpoint is called without a bearer token.
func (c *Client) RegisterUser(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/register/", reg)
	if err != nil {
		return nil, err
	}
	req.anonymous, req.noRefresh = true, true

	var u domain.User
	if err := c.do(ctx, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, upd domain.UserUpdate) (*domain.User, error) {
	req, err := jsonRequest(http.MethodPatch, userPath(id), upd)
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := c.do(ctx, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: userPath(id)}, nil)
}

func userPath(id int) string {
	return "/auth/users/" + strconv.Itoa(id) + "/"
}
