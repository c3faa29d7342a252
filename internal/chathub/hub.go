package chathub

import (
	"log"

	"github.com/google/uuid"

	"github.com/rohit-sabapathi/linkup-chat/internal/models"
)

type membership struct {
	roomID string
	client Client
}

type sizeQuery struct {
	roomID string
	reply  chan int
}

// Hub is the connection registry: it owns the room-to-connections map and
// serializes every join, leave, and broadcast through its Run loop, so no
// lock is needed and concurrent callers cannot corrupt membership.
type Hub struct {
	rooms map[string]map[Client]bool

	joinCh      chan membership
	leaveCh     chan membership
	broadcastCh chan models.BroadcastEnvelope
	sizeCh      chan sizeQuery
	stopCh      chan struct{}

	instanceID string
}

// NewHub builds an empty registry. Call Run in its own goroutine before
// accepting connections.
func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[Client]bool),
		joinCh:      make(chan membership),
		leaveCh:     make(chan membership),
		broadcastCh: make(chan models.BroadcastEnvelope),
		sizeCh:      make(chan sizeQuery),
		stopCh:      make(chan struct{}),
		instanceID:  uuid.New().String(),
	}
}

// InstanceID identifies this process on the shared Redis channels.
func (h *Hub) InstanceID() string {
	return h.instanceID
}

// Join adds a connection to its room's group.
func (h *Hub) Join(roomID string, c Client) {
	h.joinCh <- membership{roomID: roomID, client: c}
}

// Leave removes a connection from its room's group. Calling it for a
// connection that was never registered, or twice for the same one, is a
// no-op.
func (h *Hub) Leave(roomID string, c Client) {
	h.leaveCh <- membership{roomID: roomID, client: c}
}

// Broadcast delivers the envelope's message to every connection currently
// in the room's group. Delivery is best-effort: clients whose send buffer
// is full are dropped from the group and closed.
func (h *Hub) Broadcast(env models.BroadcastEnvelope) {
	h.broadcastCh <- env
}

// RoomSize reports how many connections are registered in a room's group.
func (h *Hub) RoomSize(roomID string) int {
	q := sizeQuery{roomID: roomID, reply: make(chan int, 1)}
	h.sizeCh <- q
	return <-q.reply
}

// Stop terminates the Run loop.
func (h *Hub) Stop() {
	close(h.stopCh)
}

// Run is the dispatcher loop. It must be the only goroutine touching
// h.rooms.
func (h *Hub) Run() {
	for {
		select {
		case m := <-h.joinCh:
			group, ok := h.rooms[m.roomID]
			if !ok {
				group = make(map[Client]bool)
				h.rooms[m.roomID] = group
			}
			group[m.client] = true

		case m := <-h.leaveCh:
			if group, ok := h.rooms[m.roomID]; ok {
				delete(group, m.client)
				if len(group) == 0 {
					delete(h.rooms, m.roomID)
				}
			}

		case env := <-h.broadcastCh:
			payload := models.EncodeMessageFrame(env.Message)
			for client := range h.rooms[env.RoomID] {
				select {
				case client.GetSendChannel() <- payload:
				default:
					// Slow consumer: drop it rather than stall the room.
					log.Printf("dropping slow client %s from room %s", client.GetUser().ID, env.RoomID)
					delete(h.rooms[env.RoomID], client)
					client.Close()
				}
			}

		case q := <-h.sizeCh:
			q.reply <- len(h.rooms[q.roomID])

		case <-h.stopCh:
			return
		}
	}
}
