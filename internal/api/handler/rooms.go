package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rohit-sabapathi/linkup-chat/internal/api/middleware"
	"github.com/rohit-sabapathi/linkup-chat/internal/chathub"
	"github.com/rohit-sabapathi/linkup-chat/internal/models"
	"github.com/rohit-sabapathi/linkup-chat/internal/storage"
)

type roomResponse struct {
	ID          string               `json:"id"`
	User1       models.UserSummary   `json:"user1"`
	User2       models.UserSummary   `json:"user2"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	LastMessage *models.MessageFrame `json:"last_message"`
	UnreadCount int64                `json:"unread_count"`
	OtherUser   models.UserSummary   `json:"other_user"`
}

// ListRooms returns the caller's rooms, most recently active first.
func (h *Handler) ListRooms(c *gin.Context) {
	me := middleware.CurrentUser(c)

	rooms, err := h.storage.ListRoomsForUser(me.ID)
	if err != nil {
		log.Printf("failed to list rooms for %s: %v", me.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat rooms"})
		return
	}

	responses := make([]roomResponse, 0, len(rooms))
	for i := range rooms {
		resp, err := h.buildRoomResponse(&rooms[i], me)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat rooms"})
			return
		}
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, responses)
}

// GetRoom returns one room the caller participates in.
func (h *Handler) GetRoom(c *gin.Context) {
	me := middleware.CurrentUser(c)

	room, err := h.storage.GetRoomByID(c.Param("room_id"))
	if errors.Is(err, storage.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat room"})
		return
	}
	if !room.HasParticipant(me.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot access this chat room"})
		return
	}

	resp, err := h.buildRoomResponse(room, me)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat room"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrCreateRoomWithUser returns the caller's room with another user,
// creating it lazily. Creation is gated on the follow relation; an
// existing room is returned as-is even if the relation has since lapsed
// (posting to it is re-checked separately).
func (h *Handler) GetOrCreateRoomWithUser(c *gin.Context) {
	me := middleware.CurrentUser(c)
	otherID := c.Param("user_id")

	if otherID == me.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot message yourself"})
		return
	}

	other, err := h.storage.GetUserByID(otherID)
	if errors.Is(err, storage.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat room"})
		return
	}

	room, err := h.storage.GetRoomForUsers(me.ID, other.ID)
	if err != nil && !errors.Is(err, storage.ErrRoomNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat room"})
		return
	}

	if room == nil {
		connected, err := h.storage.UsersConnected(me.ID, other.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat room"})
			return
		}
		if !connected {
			c.JSON(http.StatusForbidden, gin.H{"error": chathub.ErrNotConnected.Error()})
			return
		}

		room, err = h.storage.GetOrCreateRoom(me.ID, other.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat room"})
			return
		}
	}

	resp, err := h.buildRoomResponse(room, me)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat room"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) buildRoomResponse(room *models.ChatRoom, me *models.User) (roomResponse, error) {
	other, err := h.storage.GetUserByID(room.OtherParticipant(me.ID))
	if err != nil {
		return roomResponse{}, err
	}

	summaries := map[string]models.UserSummary{
		me.ID:    me.Summary(),
		other.ID: other.Summary(),
	}

	resp := roomResponse{
		ID:        room.RoomID,
		User1:     summaries[room.User1ID],
		User2:     summaries[room.User2ID],
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
		OtherUser: other.Summary(),
	}

	last, err := h.storage.LastMessage(room.RoomID)
	if err != nil {
		return roomResponse{}, err
	}
	if last != nil {
		frame := models.NewMessageFrame(last, summaries[last.SenderID])
		resp.LastMessage = &frame
	}

	unread, err := h.storage.UnreadCount(room.RoomID, me.ID)
	if err != nil {
		return roomResponse{}, err
	}
	resp.UnreadCount = unread

	return resp, nil
}
