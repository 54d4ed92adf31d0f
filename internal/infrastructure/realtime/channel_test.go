package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubTokens struct {
	refreshes atomic.Int32
}

func (s *stubTokens) FreshAccessToken(context.Context) (string, error) { return "tok", nil }

func (s *stubTokens) Refresh(context.Context, string) (string, error) {
	s.refreshes.Add(1)
	return "tok", nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// feedServer upgrades every request and hands the connection to serve.
// refuseAfter > 0 makes handshakes beyond that count fail with 503.
func feedServer(t *testing.T, refuseAfter int32, serve func(conn *websocket.Conn)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var handshakes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := handshakes.Add(1)
		if r.URL.Query().Get("token") != "tok" {
			t.Errorf("expected token in query, got %q", r.URL.RawQuery)
		}
		if refuseAfter > 0 && n > refuseAfter {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serve(conn)
	}))
	t.Cleanup(srv.Close)
	return srv, &handshakes
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders/"
}

func waitDone(t *testing.T, c *Channel, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("connection loop did not stop within %s", d)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestChannel_ReconnectIsBounded(t *testing.T) {
	// First connection drops without a close frame; every later handshake fails.
	srv, handshakes := feedServer(t, 1, func(conn *websocket.Conn) {
		_ = conn.UnderlyingConn().Close()
	})

	tokens := &stubTokens{}
	c := New(Options{URL: wsURL(srv), MaxAttempts: 3, BaseDelay: 10 * time.Millisecond}, tokens, zerolog.Nop())

	c.Connect(context.Background())
	waitDone(t, c, 5*time.Second)

	if got := handshakes.Load(); got != 4 {
		t.Fatalf("expected 1 connection + 3 reconnect attempts, got %d handshakes", got)
	}
	if got := tokens.refreshes.Load(); got != 1 {
		t.Fatalf("expected a single token refresh, got %d", got)
	}
	if c.State() != ports.StateDisconnected {
		t.Fatalf("expected disconnected, got %s", c.State())
	}

	time.Sleep(100 * time.Millisecond)
	if got := handshakes.Load(); got != 4 {
		t.Fatalf("no reconnect expected after giving up, got %d handshakes", got)
	}

	c.Connect(context.Background())
	waitDone(t, c, 5*time.Second)
	if got := handshakes.Load(); got <= 4 {
		t.Fatalf("explicit Connect must start a new cycle, got %d handshakes", got)
	}
}

func TestChannel_DeliversEventsAndDropsMalformed(t *testing.T) {
	srv, handshakes := feedServer(t, 0, func(conn *websocket.Conn) {
		defer conn.Close()
		msgs := []string{
			`{"type":"connection_established","message":"Connected to order updates"}`,
			`not json`,
			`{"type":"order_update","action":"updated","order":{"id":1,"status":"DESIGNING"}}`,
			`{"type":"price_update"}`,
			`{"type":"shift_update","action":"created","shift":{"id":3}}`,
		}
		for _, m := range msgs {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))
		// Let the client echo the close frame before the socket goes away.
		_, _, _ = conn.ReadMessage()
	})

	c := New(Options{URL: wsURL(srv), MaxAttempts: 3, BaseDelay: 10 * time.Millisecond}, &stubTokens{}, zerolog.Nop())
	c.Connect(context.Background())
	waitDone(t, c, 5*time.Second)

	var got []domain.RealtimeEvent
	for len(c.Events()) > 0 {
		got = append(got, <-c.Events())
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(got), got)
	}
	if got[0].Kind != domain.EventOrder || got[0].Action != domain.ActionUpdated {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	if got[1].Kind != domain.EventShift || got[1].Action != domain.ActionCreated {
		t.Fatalf("unexpected second event: %+v", got[1])
	}
	if n := handshakes.Load(); n != 1 {
		t.Fatalf("clean close must not reconnect, got %d handshakes", n)
	}
}

func TestChannel_Disconnect(t *testing.T) {
	closed := make(chan int, 1)
	srv, _ := feedServer(t, 0, func(conn *websocket.Conn) {
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if ce, ok := err.(*websocket.CloseError); ok {
					closed <- ce.Code
				}
				return
			}
		}
	})

	c := New(Options{URL: wsURL(srv)}, &stubTokens{}, zerolog.Nop())
	c.Connect(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for c.State() != ports.StateConnected && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.State() != ports.StateConnected {
		t.Fatalf("expected connected, got %s", c.State())
	}

	c.Disconnect()
	waitDone(t, c, 2*time.Second)

	select {
	case code := <-closed:
		if code != websocket.CloseNormalClosure {
			t.Fatalf("expected normal closure, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server never saw a close frame")
	}
	if c.State() != ports.StateDisconnected {
		t.Fatalf("expected disconnected, got %s", c.State())
	}
}

func TestParse(t *testing.T) {
	if _, ok, err := parse([]byte(`{"type":"connection_established"}`)); ok || err != nil {
		t.Fatalf("greeting should be ignored, got ok=%v err=%v", ok, err)
	}
	if _, _, err := parse([]byte(`{"type":"order_update","action":"exploded"}`)); err == nil {
		t.Fatalf("expected error for unknown action")
	}
	ev, ok, err := parse([]byte(`{"type":"order_update","action":"deleted","order":{"id":4}}`))
	if err != nil || !ok {
		t.Fatalf("unexpected result ok=%v err=%v", ok, err)
	}
	if ev.Kind != domain.EventOrder || ev.Action != domain.ActionDeleted || string(ev.Payload) != `{"id":4}` {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
