package handlers

import (
	"chatoverlay/internal/app/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"log/slog"
	"time"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type snapshotFrame struct {
	Type     string                   `json:"type"`
	Settings overlaySettings          `json:"settings"`
	Messages []domain.RenderedMessage `json:"messages"`
}

// WSHandler streams feed changes. The first frame is a snapshot of the screen, every
// following one is a domain.FeedEvent.
func (h *Handlers) WSHandler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	id, events, unsubscribe := h.feed.Subscribe()
	defer unsubscribe()
	h.log.Debug("Overlay subscriber connected", slog.String("subscriber", id), slog.String("remote", c.ClientIP()))

	messages := h.feed.Snapshot()
	if messages == nil {
		messages = []domain.RenderedMessage{}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(snapshotFrame{Type: "snapshot", Settings: h.settings(), Messages: messages}); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			h.log.Debug("Overlay subscriber disconnected", slog.String("subscriber", id))
			return

		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.log.Debug("Failed to write to subscriber", slog.String("subscriber", id), slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
