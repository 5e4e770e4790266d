package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/wpwscannerapp/scanner-feed/internal/realtime"
	"github.com/wpwscannerapp/scanner-feed/internal/services"
)

// WSHandler attaches authenticated clients to the realtime hub. The hub
// pushes settings changes and new incidents; the client sends nothing but
// pings, so the read loop exists only to notice the close.
type WSHandler struct {
	hub      *realtime.Hub
	settings services.SettingsService
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, settings services.SettingsService) *WSHandler {
	return &WSHandler{
		hub:      hub,
		settings: settings,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

func (h *WSHandler) Feed(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}

	h.hub.Add(conn)
	defer func() {
		h.hub.Remove(conn)
		_ = conn.Close()
	}()

	// push the current theme immediately so a client that connected after
	// an update is not stale until the next change
	if theme, terr := h.settings.Theme(c.Request.Context()); terr == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		_ = conn.WriteJSON(map[string]any{"type": "settings", "theme": theme})
	}

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, rerr := conn.ReadMessage(); rerr != nil {
			return
		}
	}
}
