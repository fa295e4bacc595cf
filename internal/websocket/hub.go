// Package websocket fans document events out to connected dashboard clients.
package websocket

import (
	"context"
	"encoding/json"

	"github.com/siamcare/doctrackgo/internal/logging"
)

// Hub maintains the set of active dashboard clients and broadcasts events
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	log logging.Logger
}

// NewHub creates a new Hub instance
func NewHub(log logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	ctx := context.Background()
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Info(ctx, "dashboard client connected", "id", client.ID)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Info(ctx, "dashboard client disconnected", "id", client.ID)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(v interface{}) {
	message, err := json.Marshal(v)
	if err != nil {
		h.log.Error(context.Background(), "failed to marshal broadcast event", "error", err)
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.log.Warn(context.Background(), "broadcast queue full, event dropped")
	}
}
