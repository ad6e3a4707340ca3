package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"dinarex/internal/events"
	"dinarex/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is handled by the CORS middleware
	},
}

// EventsHandler streams order lifecycle events to the staff dashboard.
type EventsHandler struct {
	hub    *events.Hub
	logger logger.Logger
}

func NewEventsHandler(hub *events.Hub, log logger.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, logger: log}
}

// Stream upgrades the connection and forwards hub events until the client
// disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer conn.Close()

	ch, cancel := h.hub.Subscribe()
	defer cancel()

	// Drain reads so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
