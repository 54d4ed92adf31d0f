package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/infrastructure/http/live"
)

type LiveHandler struct {
	hub *live.Hub
}

func NewLiveHandler(hub *live.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The console is served locally; any origin may attach.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Serve handles GET /api/live and upgrades to a WebSocket that streams board
// snapshots.
//
// @Summary      Live board updates
// @Tags         live
// @Success      101
// @Failure      401  {object}  ErrorResponse
// @Router       /api/live [get]
func (h *LiveHandler) Serve(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the error response.
		return nil
	}
	live.ServeWs(h.hub, conn, user.Username)
	return nil
}
