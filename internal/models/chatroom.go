package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom pairs exactly two users who may exchange messages.
// The pair is stored in normalized order (User1ID < User2ID) so the
// composite unique index rejects a second room for the same pair
// regardless of which side initiated it.
type ChatRoom struct {
	// RoomID is the unique identifier for the chat room (UUID).
	RoomID string `gorm:"primaryKey" json:"id"`
	// User1ID is the lexicographically smaller participant ID.
	User1ID string `gorm:"type:text;not null;uniqueIndex:idx_room_pair" json:"-"`
	// User2ID is the lexicographically larger participant ID.
	User2ID string `gorm:"type:text;not null;uniqueIndex:idx_room_pair" json:"-"`
	// CreatedAt is set when the pair first exchanges a message.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is bumped whenever a message is persisted into the room.
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for the room and normalizes the
// participant pair if the caller did not.
func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.RoomID == "" {
		r.RoomID = uuid.New().String()
	}
	r.User1ID, r.User2ID = NormalizePair(r.User1ID, r.User2ID)
	return
}

// HasParticipant reports whether userID is one of the room's two users.
func (r *ChatRoom) HasParticipant(userID string) bool {
	return r.User1ID == userID || r.User2ID == userID
}

// OtherParticipant returns the participant that is not userID.
// The caller must have verified membership first.
func (r *ChatRoom) OtherParticipant(userID string) string {
	if r.User1ID == userID {
		return r.User2ID
	}
	return r.User1ID
}

// NormalizePair orders two user IDs so the unordered pair has a single
// canonical representation.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
