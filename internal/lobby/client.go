package lobby

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
)

// Client is one websocket connection attached to a room.
type Client struct {
	room   *Room
	conn   *websocket.Conn
	send   chan []byte
	userID int64
}

// Attach registers a connection on the room and starts its pumps.
// It returns immediately; the pumps own the connection from here.
func (r *Room) Attach(conn *websocket.Conn, userID int64) {
	c := &Client{
		room:   r,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: userID,
	}
	r.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump relays inbound text frames to the room until the
// connection drops.
func (c *Client) readPump() {
	defer func() {
		c.room.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.room.Broadcast(msg)
	}
}

// writePump drains the send queue and keeps the connection alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
