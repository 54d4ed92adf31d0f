// Package live pushes board snapshots to console clients over WebSocket.
package live

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/service"
	"github.com/laser-workshop/workshop-console/internal/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Message is the frame sent to clients.
type Message struct {
	Type string                 `json:"type"`
	Data *service.BoardSnapshot `json:"data"`
}

// Hub fans out the latest board snapshot to every connected client. A new
// client receives the current snapshot immediately; afterwards it gets one
// frame per board change. Clients that fall behind are dropped.
type Hub struct {
	board *service.Board
	log   zerolog.Logger

	register   chan *Client
	unregister chan *Client
	changed    chan struct{}
	closeAll   chan struct{}
	done       chan struct{}

	clients map[*Client]bool
}

func NewHub(board *service.Board, log zerolog.Logger) *Hub {
	return &Hub{
		board:      board,
		log:        log.With().Str("component", "live").Logger(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		changed:    make(chan struct{}, 1),
		closeAll:   make(chan struct{}, 1),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	unsubscribe := h.board.Subscribe(h.signal)
	defer unsubscribe()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug().Str("client_id", c.id).Str("username", c.username).Msg("live client joined")
			metrics.LiveSubscribers.Set(float64(len(h.clients)))
			if msg, ok := h.render(); ok {
				h.send(c, msg)
			}
		case <-h.closeAll:
			for c := range h.clients {
				h.drop(c)
			}
			h.log.Info().Msg("session ended, live clients disconnected")
		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
			}
		case <-h.changed:
			msg, ok := h.render()
			if !ok {
				continue
			}
			for c := range h.clients {
				h.send(c, msg)
			}
		}
	}
}

// signal runs inside Board.Recompute and must not block.
func (h *Hub) signal() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

// CloseAll disconnects every client. Connections are authorised once at
// upgrade, so this must run whenever the session ends. It never blocks.
func (h *Hub) CloseAll() {
	select {
	case h.closeAll <- struct{}{}:
	default:
	}
}

func (h *Hub) render() ([]byte, bool) {
	snap := h.board.Snapshot()
	if snap == nil {
		return nil, false
	}
	msg, err := json.Marshal(Message{Type: "board", Data: snap})
	if err != nil {
		h.log.Error().Err(err).Msg("encode board snapshot")
		return nil, false
	}
	return msg, true
}

func (h *Hub) send(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.log.Warn().Str("client_id", c.id).Str("username", c.username).Msg("live client too slow, dropping")
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	metrics.LiveSubscribers.Set(float64(len(h.clients)))
}

// Client is one console connection.
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	username string
}

// ServeWs registers conn with the hub and starts its pumps. It returns
// immediately; the pumps close conn when either side goes away.
func ServeWs(hub *Hub, conn *websocket.Conn, username string) {
	c := &Client{id: uuid.NewString(), hub: hub, conn: conn, send: make(chan []byte, sendBuffer), username: username}

	select {
	case hub.register <- c:
	case <-hub.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump only services control frames; clients never send data.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug().Err(err).Str("client_id", c.id).Msg("live client read failed")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
