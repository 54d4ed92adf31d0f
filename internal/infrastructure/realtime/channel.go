// Package realtime keeps a WebSocket connection to the backend's push feed
// and turns its messages into domain.RealtimeEvent invalidation signals.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
	"github.com/laser-workshop/workshop-console/internal/pkg/metrics"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = 3 * time.Second
	defaultBuffer      = 64

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024 * 1024 // 1MB
)

// TokenProvider hands out the access token used to authenticate the feed.
type TokenProvider interface {
	FreshAccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context, rejected string) (string, error)
}

// Options configures a Channel. Zero values fall back to defaults.
type Options struct {
	URL         string
	MaxAttempts int
	BaseDelay   time.Duration
	Buffer      int
	Dialer      *websocket.Dialer
}

// Channel is a ports.RealtimeChannel over gorilla/websocket.
//
// After an unclean close it reconnects with a delay of BaseDelay × attempt,
// at most MaxAttempts times, then stays disconnected until Connect is called
// again. The attempt counter resets whenever a connection opens. The first
// unclean close after Connect or after a successful open triggers one token
// refresh, since an expired token is the usual cause.
type Channel struct {
	opts   Options
	tokens TokenProvider
	log    zerolog.Logger
	events chan domain.RealtimeEvent

	mu     sync.Mutex
	state  ports.ChannelState
	runID  uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a disconnected Channel.
func New(opts Options, tokens TokenProvider, log zerolog.Logger) *Channel {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	return &Channel{
		opts:   opts,
		tokens: tokens,
		log:    log.With().Str("component", "realtime").Logger(),
		events: make(chan domain.RealtimeEvent, opts.Buffer),
		state:  ports.StateDisconnected,
	}
}

// Events delivers invalidation events. The channel is never closed.
func (c *Channel) Events() <-chan domain.RealtimeEvent {
	return c.events
}

func (c *Channel) State() ports.ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect starts the connection loop unless one is already running.
func (c *Channel) Connect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.runID++
	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = ports.StateConnecting

	go c.run(runCtx, c.runID, c.done)
}

// Disconnect closes the connection cleanly and cancels any pending
// reconnect. It does not wait for the loop to exit.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.setStateLocked(ports.StateDisconnected)
}

// Wait blocks until the current connection loop, if any, has exited.
func (c *Channel) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (c *Channel) run(ctx context.Context, id uint64, done chan struct{}) {
	defer close(done)
	defer c.finish(id)

	attempt := 0
	refreshed := false

	for {
		token, err := c.tokens.FreshAccessToken(ctx)
		if err != nil {
			c.log.Warn().Err(err).Msg("no usable access token, staying disconnected")
			return
		}

		opened, clean, err := c.session(ctx, id, token)
		if ctx.Err() != nil {
			return
		}
		if opened {
			attempt = 0
			refreshed = false
		}
		if clean {
			c.log.Info().Msg("server closed the feed cleanly")
			return
		}
		c.log.Warn().Err(err).Msg("realtime connection lost")

		if !refreshed {
			refreshed = true
			if _, err := c.tokens.Refresh(ctx, token); err != nil {
				if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrNotAuthenticated) {
					c.log.Warn().Err(err).Msg("session ended, not reconnecting")
					return
				}
				c.log.Warn().Err(err).Msg("token refresh before reconnect failed")
			}
		}

		attempt++
		if attempt > c.opts.MaxAttempts {
			c.log.Error().Int("attempts", c.opts.MaxAttempts).Msg("giving up on realtime feed until next connect")
			return
		}

		delay := c.opts.BaseDelay * time.Duration(attempt)
		c.setState(id, ports.StateReconnecting)
		metrics.RealtimeReconnectsTotal.Inc()
		c.log.Info().
			Int("attempt", attempt).
			Int("max_attempts", c.opts.MaxAttempts).
			Dur("delay", delay).
			Msg("reconnecting")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		c.setState(id, ports.StateConnecting)
	}
}

// session dials once and reads until the connection ends. opened reports
// whether the handshake succeeded; clean whether the server closed normally.
func (c *Channel) session(ctx context.Context, id uint64, token string) (opened, clean bool, err error) {
	u, err := feedURL(c.opts.URL, token)
	if err != nil {
		return false, false, err
	}

	conn, resp, err := c.opts.Dialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil {
			return false, false, fmt.Errorf("dial: handshake status %d: %w", resp.StatusCode, err)
		}
		return false, false, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	c.setState(id, ports.StateConnected)
	metrics.RealtimeConnected.Set(1)
	defer metrics.RealtimeConnected.Set(0)
	c.log.Info().Msg("realtime feed connected")

	stop := make(chan struct{})
	defer close(stop)
	go c.writePump(ctx, conn, stop)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return true, true, nil
			}
			return true, false, err
		}
		c.dispatch(raw)
	}
}

// writePump sends keepalive pings and, when ctx is cancelled, a normal
// closure frame that unblocks the reader.
func (c *Channel) writePump(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client disconnect")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			_ = conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// message is the backend's wire format.
type message struct {
	Type    string          `json:"type"`
	Action  string          `json:"action,omitempty"`
	Order   json.RawMessage `json:"order,omitempty"`
	Shift   json.RawMessage `json:"shift,omitempty"`
	Message string          `json:"message,omitempty"`
}

func (c *Channel) dispatch(raw []byte) {
	ev, ok, err := parse(raw)
	if err != nil {
		metrics.RealtimeEventsTotal.WithLabelValues("invalid", "dropped").Inc()
		c.log.Warn().Err(err).Msg("dropping malformed realtime message")
		return
	}
	if !ok {
		return
	}

	select {
	case c.events <- ev:
		metrics.RealtimeEventsTotal.WithLabelValues(string(ev.Kind), "delivered").Inc()
	default:
		// A refresh of this slice is already queued.
		metrics.RealtimeEventsTotal.WithLabelValues(string(ev.Kind), "dropped").Inc()
		c.log.Warn().Str("type", string(ev.Kind)).Msg("event buffer full, dropping event")
	}
}

// parse decodes one message. ok is false for messages that carry no
// invalidation, such as the connection greeting.
func parse(raw []byte) (ev domain.RealtimeEvent, ok bool, err error) {
	var m message
	if err := json.Unmarshal(raw, &m); err != nil {
		return ev, false, fmt.Errorf("decode: %w", err)
	}

	switch m.Type {
	case "connection_established":
		metrics.RealtimeEventsTotal.WithLabelValues("connection_established", "delivered").Inc()
		return ev, false, nil
	case "order_update":
		ev = domain.RealtimeEvent{Kind: domain.EventOrder, Action: domain.EventAction(m.Action), Payload: m.Order}
	case "shift_update":
		ev = domain.RealtimeEvent{Kind: domain.EventShift, Action: domain.EventAction(m.Action), Payload: m.Shift}
	default:
		return ev, false, fmt.Errorf("unknown message type %q", m.Type)
	}

	switch ev.Action {
	case domain.ActionCreated, domain.ActionUpdated, domain.ActionDeleted, "":
	default:
		return ev, false, fmt.Errorf("unknown action %q", m.Action)
	}
	return ev, true, nil
}

func feedURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Channel) setState(id uint64, s ports.ChannelState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runID != id || c.cancel == nil {
		return
	}
	c.setStateLocked(s)
}

func (c *Channel) setStateLocked(s ports.ChannelState) {
	if c.state == s {
		return
	}
	c.log.Debug().Str("from", string(c.state)).Str("to", string(s)).Msg("state change")
	c.state = s
}

// finish marks the loop as stopped so a later Connect starts a new one.
func (c *Channel) finish(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runID != id {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.setStateLocked(ports.StateDisconnected)
}

var _ ports.RealtimeChannel = (*Channel)(nil)
