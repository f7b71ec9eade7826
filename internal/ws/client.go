package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/buildhub/homeowner-gateway/internal/goroutine"
	"github.com/buildhub/homeowner-gateway/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one websocket connection owned by a homeowner.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	homeownerID int64
	send        chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, homeownerID int64) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		homeownerID: homeownerID,
		send:        make(chan []byte, 256),
	}
}

// Start registers the client and launches its pumps.
func (c *Client) Start() {
	c.hub.register <- c
	goroutine.SafeGo("ws-write-pump", c.writePump)
	goroutine.SafeGo("ws-read-pump", c.readPump)
}

// readPump drains inbound frames. The gateway pushes only; inbound payloads
// are discarded, but the pump keeps pong handling alive.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithError(err).Debug("ws read closed")
			}
			return
		}
	}
}

func (c *Client) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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
