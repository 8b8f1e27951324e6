package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const sendBufferSize = 256

// Client is one websocket connection.
type Client struct {
	id   string
	conn *websocket.Conn

	// mu guards send against enqueues racing the channel close when the
	// hub drops the client.
	mu     sync.Mutex
	closed bool
	send   chan []byte

	// Set once the client gains or reclaims a seat.
	roomCode string
	playerID string
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// enqueue hands a message to the write pump, dropping it if the client's
// buffer is full rather than blocking the publisher. Enqueues after the
// client has been dropped are discarded.
func (c *Client) enqueue(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.send <- message:
	default:
	}
}

// closeSend shuts the send channel exactly once, ending the write pump.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg Envelope
		if err := json.Unmarshal(message, &msg); err != nil {
			hub.logger.Debug("discarding malformed message",
				zap.String("client_id", c.id),
				zap.Error(err),
			)
			continue
		}

		hub.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
