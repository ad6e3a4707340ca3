// Package events broadcasts order lifecycle events to websocket listeners
// (the staff dashboard's live order feed).
package events

import (
	"encoding/json"
	"sync"

	"dinarex/internal/order"
	"dinarex/pkg/logger"
)

// Hub fans order events out to subscribers. Publish never blocks: slow
// subscribers drop events rather than stalling the submission pipeline.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan []byte]struct{}
	logger logger.Logger
}

// NewHub constructs an empty hub.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		subs:   make(map[chan []byte]struct{}),
		logger: log,
	}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. The channel is buffered; it is closed on cancel.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish broadcasts an event to every subscriber.
func (h *Hub) Publish(event order.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode order event", map[string]interface{}{"error": err.Error()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- payload:
		default:
			// Listener is behind; drop rather than block.
		}
	}
}

// Subscribers returns the current listener count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
