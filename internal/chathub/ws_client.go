package chathub

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rohit-sabapathi/linkup-chat/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Inbound frames carry base64 attachments up to 5 MB decoded, so the
	// read limit must cover the encoded form plus envelope overhead.
	maxFrameSize = 8 * 1024 * 1024

	sendBufferSize = 256
)

// WebSocketClient binds an authenticated user's WebSocket to a room group.
// It implements the Client interface with the usual gorilla read/write
// pump pair.
type WebSocketClient struct {
	user   *models.User
	roomID string
	conn   *websocket.Conn
	hub    *Hub
	relay  *Relay

	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewWebSocketClient constructs a client for an already authenticated and
// authorized connection.
func NewWebSocketClient(user *models.User, roomID string, conn *websocket.Conn, hub *Hub, relay *Relay) *WebSocketClient {
	return &WebSocketClient{
		user:   user,
		roomID: roomID,
		conn:   conn,
		hub:    hub,
		relay:  relay,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (c *WebSocketClient) GetUser() *models.User         { return c.user }
func (c *WebSocketClient) GetRoomID() string             { return c.roomID }
func (c *WebSocketClient) GetSendChannel() chan<- []byte { return c.send }

// Run registers the client with the hub and starts both pumps.
func (c *WebSocketClient) Run() {
	c.hub.Join(c.roomID, c)
	go c.writePump()
	go c.readPump()
}

// Close shuts the connection down. The once guard keeps teardown
// idempotent whether the close came from the client, the hub, or a
// transport error; closing the conn also unblocks the read pump.
func (c *WebSocketClient) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readPump drives the Active state: it reads frames in arrival order and
// hands each to the relay. On any read error the client is deregistered
// and torn down exactly once.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.hub.Leave(c.roomID, c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("read error for user %s in room %s: %v", c.user.ID, c.roomID, err)
			}
			return
		}
		c.relay.HandleFrame(c, raw)
	}
}

// writePump serializes all writes to the connection and keeps it alive
// with periodic pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
