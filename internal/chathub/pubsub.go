package chathub

import (
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/rohit-sabapathi/linkup-chat/internal/models"
)

// RoomSubscriber opens the pattern subscription covering all room
// channels. Implemented by storage.Service.
type RoomSubscriber interface {
	SubscribeRooms() *redis.PubSub
}

// StartPubSubListener bridges Redis Pub/Sub into the local hub. Every
// instance publishes persisted messages to its room channel; the listener
// relays messages from other instances to this hub's local groups and
// skips its own echoes by origin ID.
func (h *Hub) StartPubSubListener(sub RoomSubscriber) {
	go func() {
		pubsub := sub.SubscribeRooms()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var env models.BroadcastEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("discarding malformed pubsub payload on %s: %v", msg.Channel, err)
				continue
			}
			if env.Origin == h.instanceID {
				continue
			}
			h.Broadcast(env)
		}
	}()
}
