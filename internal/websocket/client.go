package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const sendBuffer = 64

// Client is one push connection of a user's device. The hub owns Send and
// closes it when the client is unregistered.
type Client struct {
	ID       string
	UserID   string
	DeviceID string
	Conn     *websocket.Conn
	Manager  *Manager
	Send     chan []byte
}

func NewClient(id, userID, deviceID string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:       id,
		UserID:   userID,
		DeviceID: deviceID,
		Conn:     conn,
		Manager:  manager,
		Send:     make(chan []byte, sendBuffer),
	}
}

// Serve registers the client and runs both pumps. It returns once the
// connection is gone. A readLimit of zero leaves the frame size unbounded.
func (c *Client) Serve(readLimit int64) {
	if readLimit > 0 {
		c.Conn.SetReadLimit(readLimit)
	}
	if !c.Manager.register(c) {
		c.Conn.Close()
		return
	}

	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(c.Manager.pongWait))
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] Client %s read error: %v", c.ID, err)
			}
			return
		}
		if !c.Manager.dispatch(&ClientMessage{Client: c, Message: frame}) {
			return
		}
	}
}

// writePump writes one frame per queued message; the listener decodes each
// frame as a single JSON document.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.Manager.pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Printf("[WebSocket] Client %s write error: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
