package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced on the REST API; the event stream is public
		return true
	},
}

// HandleWebSocket upgrades the request and attaches the dashboard to the hub
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("❌ WebSocket upgrade failed")
			return
		}

		client := NewClient(conn, hub)
		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
