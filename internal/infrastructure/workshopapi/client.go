// Package workshopapi is the REST client for the workshop backend. It attaches
// bearer tokens, rotates them on 401 through a ports.TokenSource and maps
// failures onto domain errors.
package workshopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client talks to the backend under a base URL such as http://host/api.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  atomic.Pointer[tokenHolder]
	log     zerolog.Logger
}

type tokenHolder struct{ ports.TokenSource }

// Options tunes the client. Zero values fall back to defaults.
type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New returns a Client for baseURL. A token source must be attached with
// SetTokenSource before authenticated endpoints can be used.
func New(baseURL string, opts Options, log zerolog.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		log:     log.With().Str("component", "workshopapi").Logger(),
	}
}

// SetTokenSource attaches the session that owns the bearer token.
func (c *Client) SetTokenSource(ts ports.TokenSource) {
	c.tokens.Store(&tokenHolder{ts})
}

func (c *Client) tokenSource() ports.TokenSource {
	if h := c.tokens.Load(); h != nil {
		return h.TokenSource
	}
	return nil
}

// request describes one backend call. Bodies are kept as bytes so the call
// can be replayed after a token refresh.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string

	// anonymous calls carry no bearer token.
	anonymous bool
	// noRefresh calls surface a 401 instead of rotating the token.
	noRefresh bool
}

func jsonRequest(method, path string, payload any) (request, error) {
	r := request{method: method, path: path}
	if payload == nil {
		return r, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return r, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	r.body = b
	r.contentType = "application/json"
	return r, nil
}

// do executes req and decodes a successful JSON response into out (if non-nil).
// A 401 on an authenticated call triggers one shared token refresh and a
// single retry with the rotated token.
func (c *Client) do(ctx context.Context, req request, out any) error {
	ts := c.tokenSource()

	token := ""
	if !req.anonymous && ts != nil {
		token = ts.AccessToken()
	}

	status, body, err := c.send(ctx, req, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !req.anonymous && !req.noRefresh && ts != nil && token != "" {
		c.log.Debug().Str("method", req.method).Str("path", req.path).Msg("access token rejected, refreshing")

		fresh, err := ts.Refresh(ctx, token)
		if err != nil {
			return fmt.Errorf("%s %s: %w", req.method, req.path, err)
		}

		status, body, err = c.send(ctx, req, fresh)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("%s %s: %w", req.method, req.path, decodeError(status, body))
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req request, token string) (int, []byte, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("X-Request-ID", uuid.NewString())
	if req.contentType != "" {
		hreq.Header.Set("Content-Type", req.contentType)
	}
	if token != "" {
		hreq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
		}
		return 0, nil, fmt.Errorf("%s %s: %w: %v", req.method, req.path, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w: read body: %v", req.method, req.path, domain.ErrTransport, err)
	}

	c.log.Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend call")

	return resp.StatusCode, raw, nil
}

// Ping checks that the backend answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.send(ctx, request{method: http.MethodGet, path: "/", anonymous: true}, "")
	return err
}

// page is the paginated list envelope; some endpoints return a bare array.
type page[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var p page[T]
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, err
	}
	return p.Results, nil
}

func fetchList[T any](ctx context.Context, c *Client, req request) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, fmt.Errorf("%s %s: decode list: %w", req.method, req.path, err)
	}
	return items, nil
}

var _ ports.WorkshopAPI = (*Client)(nil)
