package chathub

import (
	"encoding/json"
	"log"

	"github.com/rohit-sabapathi/linkup-chat/internal/models"
	"github.com/rohit-sabapathi/linkup-chat/internal/storage"
)

// Relay processes inbound frames for active connections: probes are
// answered in place, chat frames are re-authorized, validated, persisted,
// and only then fanned out to the room group. No frame, however broken,
// tears the connection down; failures become error frames and the
// connection stays active.
type Relay struct {
	storage    storage.Storage
	hub        *Hub
	authorizer *RoomAuthorizer
}

// NewRelay wires the relay to its collaborators.
func NewRelay(s storage.Storage, hub *Hub, authorizer *RoomAuthorizer) *Relay {
	return &Relay{storage: s, hub: hub, authorizer: authorizer}
}

// HandleFrame processes one raw frame from a client. Called from the
// client's read loop, so frames from a single connection are handled in
// arrival order.
func (r *Relay) HandleFrame(c Client, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic handling frame from %s: %v", c.GetUser().ID, rec)
			r.sendTo(c, models.EncodeErrorFrame("Internal server error"))
		}
	}()

	var frame models.InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		r.sendTo(c, models.EncodeErrorFrame("Invalid message format"))
		return
	}

	if frame.Type == models.FrameConnectionTest {
		r.sendTo(c, models.EncodeProbeResponse())
		return
	}

	r.handleChat(c, frame)
}

func (r *Relay) handleChat(c Client, frame models.InboundFrame) {
	if frame.Message == nil {
		r.sendTo(c, models.EncodeErrorFrame("Invalid message format"))
		return
	}

	sender := c.GetUser()
	roomID := c.GetRoomID()

	// Eligibility can lapse after connect, so every send is authorized
	// independently. A denial here does not close the connection.
	if _, err := r.authorizer.Authorize(sender.ID, roomID); err != nil {
		r.sendTo(c, models.EncodeErrorFrame(err.Error()))
		return
	}

	if err := frame.Message.Validate(); err != nil {
		r.sendTo(c, models.EncodeErrorFrame(err.Error()))
		return
	}

	msg := &models.Message{
		RoomID:   roomID,
		SenderID: sender.ID,
		Content:  frame.Message.Content,
		FileData: frame.Message.FileData,
		FileType: frame.Message.FileType,
		FileName: frame.Message.FileName,
	}
	if err := r.storage.SaveMessage(msg); err != nil {
		r.sendTo(c, models.EncodeErrorFrame("Failed to save message"))
		return
	}

	// Broadcast strictly after the durable write.
	env := models.BroadcastEnvelope{
		Origin:  r.hub.InstanceID(),
		RoomID:  roomID,
		Message: models.NewMessageFrame(msg, sender.Summary()),
	}
	r.hub.Broadcast(env)

	if err := r.storage.PublishMessage(roomID, env); err != nil {
		// Local delivery already happened; peers will miss this one.
		log.Printf("failed to publish message %d to redis: %v", msg.ID, err)
	}
}

func (r *Relay) sendTo(c Client, payload []byte) {
	select {
	case c.GetSendChannel() <- payload:
	default:
	}
}
