package workshopapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// Login exchanges credentials for a token pair and the user profile.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/login/", creds)
	if err != nil {
		return nil, err
	}
	req.anonymous, req.noRefresh = true, true

	var out domain.LoginResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Access == "" || out.Refresh == "" {
		return nil, errors.New("login: backend returned no tokens")
	}
	return &out, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/token/refresh/", map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}
	req.anonymous, req.noRefresh = true, true

	var out struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", fmt.Errorf("refresh: backend returned no access token")
	}
	return out.Access, nil
}

// Logout blacklists the refresh token on the backend.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	req, err := jsonRequest(http.MethodPost, "/auth/logout/", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}
	req.noRefresh = true
	return c.do(ctx, req, nil)
}

// Me returns the profile behind the current access token.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me/"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
