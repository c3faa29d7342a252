package chathub

import "github.com/rohit-sabapathi/linkup-chat/internal/models"

// Client is one live connection subscribed to a room group. The hub and
// relay only ever talk to this interface, so tests and future transports
// can stand in for the WebSocket implementation.
type Client interface {
	// GetUser returns the authenticated user behind the connection.
	GetUser() *models.User
	// GetRoomID returns the room this connection is bound to. A client
	// belongs to exactly one room for its lifetime.
	GetRoomID() string

	// GetSendChannel returns the channel the hub writes outbound frames
	// to. Writers must not block on it; a full buffer means the client is
	// too slow and gets dropped.
	GetSendChannel() chan<- []byte

	// Close tears the connection down. Safe to call from any goroutine
	// and any number of times; the underlying teardown runs once.
	Close()
}
