package chathub

import (
	"errors"

	"github.com/rohit-sabapathi/linkup-chat/internal/models"
	"github.com/rohit-sabapathi/linkup-chat/internal/storage"
)

// Authorization denials. The text doubles as the close reason at connect
// time and the error-frame body on per-message re-checks.
var (
	ErrNotParticipant = errors.New("You are not a participant in this chat room")
	ErrNotConnected   = errors.New("You can only message users who follow you or who you follow")
)

// RoomAuthorizer decides whether a user may join or post to a room.
// It is consulted both at connect time and again for every inbound chat
// frame, because the follow relation can lapse while a connection is open.
type RoomAuthorizer struct {
	storage storage.Storage
}

// NewRoomAuthorizer builds an authorizer over the storage layer.
func NewRoomAuthorizer(s storage.Storage) *RoomAuthorizer {
	return &RoomAuthorizer{storage: s}
}

// Authorize resolves the room and checks that the user is a participant
// and that a follow relation still exists between the two participants in
// at least one direction. Read-only; returns the room on success.
func (a *RoomAuthorizer) Authorize(userID, roomID string) (*models.ChatRoom, error) {
	room, err := a.storage.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	connected, err := a.storage.UsersConnected(userID, room.OtherParticipant(userID))
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrNotConnected
	}
	return room, nil
}
