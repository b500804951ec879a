package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"ecobin-backend/internal/events"
	"ecobin-backend/internal/metrics"
)

// Hub maintains active dashboard connections and broadcasts events to all of them
type Hub struct {
	// Registered clients
	clients map[*Client]struct{}

	// Encoded envelopes waiting to be fanned out
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// Closed once Run returns
	done chan struct{}

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(total))
			log.Info().
				Str("client_id", client.ID).
				Str("remote", client.RemoteAddr).
				Int("clients", total).
				Msg("✅ [WEBSOCKET] Client CONNECTED")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(total))
			log.Info().
				Str("client_id", client.ID).
				Int("clients", total).
				Msg("🔴 [WEBSOCKET] Client DISCONNECTED")

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client misses this event
					metrics.EventsDropped.Inc()
					log.Warn().Str("client_id", client.ID).Msg("⚠️ [WEBSOCKET] Client buffer full, event skipped")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish broadcasts {"type": event, "data": payload} to every connected client.
// It never blocks; the event is dropped when the hub is saturated.
func (h *Hub) Publish(event string, payload interface{}) {
	env, err := events.NewEnvelope(event, payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("❌ Failed to marshal broadcast message")
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("❌ Failed to marshal broadcast message")
		return
	}

	select {
	case h.broadcast <- data:
		metrics.EventsBroadcast.WithLabelValues(event).Inc()
	default:
		metrics.EventsDropped.Inc()
		log.Warn().Str("event", event).Msg("⚠️ [WEBSOCKET] Broadcast queue full, event dropped")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	metrics.WebsocketClients.Set(0)
}
