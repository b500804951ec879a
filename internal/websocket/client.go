package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Dashboards only send keepalives
	maxMessageSize = 512

	sendBuffer = 64
)

// Client is one connected dashboard
type Client struct {
	ID         string
	RemoteAddr string
	conn       *websocket.Conn
	hub        *Hub
	send       chan []byte

	// Replies written by WritePump. Never closed, unlike send, so the read
	// side can answer after the hub has dropped the client.
	pongs chan []byte
}

// IncomingMessage is a message from the dashboard
type IncomingMessage struct {
	Type string `json:"type"`
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:         uuid.New().String(),
		RemoteAddr: conn.RemoteAddr().String(),
		conn:       conn,
		hub:        hub,
		send:       make(chan []byte, sendBuffer),
		pongs:      make(chan []byte, 1),
	}
}

// ReadPump drains the connection until it closes. Only "ping" is answered.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.ID).Msg("WebSocket error")
			}
			break
		}

		c.handle(message)
	}
}

// handle answers a dashboard keepalive. Anything else is ignored.
func (c *Client) handle(message []byte) {
	var msg IncomingMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Debug().Err(err).Str("client_id", c.ID).Msg("Invalid message format")
		return
	}
	if msg.Type != "ping" {
		return
	}

	response, _ := json.Marshal(map[string]interface{}{
		"type":      "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	select {
	case c.pongs <- response:
	default:
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One event per frame so clients can decode each message as JSON
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case message := <-c.pongs:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
