package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rohit-sabapathi/linkup-chat/internal/models"
)

func TestNormalizePair(t *testing.T) {
	a, b := models.NormalizePair("bob", "alice")
	assert.Equal(t, "alice", a)
	assert.Equal(t, "bob", b)

	a, b = models.NormalizePair("alice", "bob")
	assert.Equal(t, "alice", a)
	assert.Equal(t, "bob", b)
}

func TestChatRoomBeforeCreate(t *testing.T) {
	room := &models.ChatRoom{User1ID: "bob", User2ID: "alice"}

	assert.NoError(t, room.BeforeCreate(nil))

	// ID generated and the pair normalized regardless of input order.
	_, err := uuid.Parse(room.RoomID)
	assert.NoError(t, err)
	assert.Equal(t, "alice", room.User1ID)
	assert.Equal(t, "bob", room.User2ID)
}

func TestChatRoomBeforeCreate_PreservesExistingID(t *testing.T) {
	existing := uuid.New().String()
	room := &models.ChatRoom{RoomID: existing, User1ID: "a", User2ID: "b"}

	assert.NoError(t, room.BeforeCreate(nil))
	assert.Equal(t, existing, room.RoomID)
}

func TestChatRoomParticipants(t *testing.T) {
	room := &models.ChatRoom{RoomID: "r", User1ID: "alice", User2ID: "bob"}

	assert.True(t, room.HasParticipant("alice"))
	assert.True(t, room.HasParticipant("bob"))
	assert.False(t, room.HasParticipant("mallory"))

	assert.Equal(t, "bob", room.OtherParticipant("alice"))
	assert.Equal(t, "alice", room.OtherParticipant("bob"))
}

func TestUserBeforeCreate(t *testing.T) {
	user := &models.User{Email: "new@linkup.edu"}
	assert.NoError(t, user.BeforeCreate(nil))

	_, err := uuid.Parse(user.ID)
	assert.NoError(t, err)

	existing := uuid.New().String()
	user = &models.User{ID: existing}
	assert.NoError(t, user.BeforeCreate(nil))
	assert.Equal(t, existing, user.ID)
}

func TestUserSummary(t *testing.T) {
	user := &models.User{
		ID:           "u1",
		Email:        "alice@linkup.edu",
		FirstName:    "Alice",
		LastName:     "Doe",
		ProfilePhoto: "https://cdn.linkup.edu/p/u1.jpg",
		Bio:          "not part of the summary",
	}

	s := user.Summary()
	assert.Equal(t, "u1", s.ID)
	assert.Equal(t, "alice@linkup.edu", s.Email)
	assert.Equal(t, "Alice", s.FirstName)
	assert.Equal(t, "Doe", s.LastName)
	assert.Equal(t, "https://cdn.linkup.edu/p/u1.jpg", s.ProfilePhoto)
}
