package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rohit-sabapathi/linkup-chat/internal/api/middleware"
	"github.com/rohit-sabapathi/linkup-chat/internal/chathub"
	"github.com/rohit-sabapathi/linkup-chat/internal/models"
	"github.com/rohit-sabapathi/linkup-chat/internal/storage"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// ListMessages returns one page of a room's history, newest first. The
// caller must be a participant with a live follow relation, the same gate
// the relay applies to sends.
func (h *Handler) ListMessages(c *gin.Context) {
	me := middleware.CurrentUser(c)

	room, err := h.authorizer.Authorize(me.ID, c.Param("room_id"))
	if err != nil {
		h.abortAuthz(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	messages, err := h.storage.ListMessages(room.RoomID, page, pageSize)
	if err != nil {
		log.Printf("failed to list messages for room %s: %v", room.RoomID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get messages"})
		return
	}

	other, err := h.storage.GetUserByID(room.OtherParticipant(me.ID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get messages"})
		return
	}
	summaries := map[string]models.UserSummary{
		me.ID:    me.Summary(),
		other.ID: other.Summary(),
	}

	frames := make([]models.MessageFrame, 0, len(messages))
	for i := range messages {
		frames = append(frames, models.NewMessageFrame(&messages[i], summaries[messages[i].SenderID]))
	}
	c.JSON(http.StatusOK, gin.H{"results": frames, "page": page, "page_size": pageSize})
}

// CreateMessage persists a message posted over REST rather than the
// WebSocket. Validation and authorization match the relay's; delivery to
// open sockets happens when clients fetch or reconnect.
func (h *Handler) CreateMessage(c *gin.Context) {
	me := middleware.CurrentUser(c)

	room, err := h.authorizer.Authorize(me.ID, c.Param("room_id"))
	if err != nil {
		h.abortAuthz(c, err)
		return
	}

	var payload models.MessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message format"})
		return
	}
	if err := payload.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := &models.Message{
		RoomID:   room.RoomID,
		SenderID: me.ID,
		Content:  payload.Content,
		FileData: payload.FileData,
		FileType: payload.FileType,
		FileName: payload.FileName,
	}
	if err := h.storage.SaveMessage(msg); err != nil {
		log.Printf("failed to save message for room %s: %v", room.RoomID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": models.NewMessageFrame(msg, me.Summary())})
}

// MarkMessagesRead flips the read flag on the other participant's
// messages in the room.
func (h *Handler) MarkMessagesRead(c *gin.Context) {
	me := middleware.CurrentUser(c)

	room, err := h.authorizer.Authorize(me.ID, c.Param("room_id"))
	if err != nil {
		h.abortAuthz(c, err)
		return
	}

	if err := h.storage.MarkMessagesRead(room.RoomID, me.ID); err != nil {
		log.Printf("failed to mark messages read in room %s: %v", room.RoomID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type messageableUser struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profile_photo"`
}

// ListMessageableUsers returns everyone the caller may open a room with:
// the union of their followers and the users they follow.
func (h *Handler) ListMessageableUsers(c *gin.Context) {
	me := middleware.CurrentUser(c)

	users, err := h.storage.ListMessageableUsers(me.ID)
	if err != nil {
		log.Printf("failed to list messageable users for %s: %v", me.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users"})
		return
	}

	result := make([]messageableUser, 0, len(users))
	for _, u := range users {
		result = append(result, messageableUser{
			ID:           u.ID,
			FullName:     strings.TrimSpace(u.FirstName + " " + u.LastName),
			Email:        u.Email,
			ProfilePhoto: u.ProfilePhoto,
		})
	}
	c.JSON(http.StatusOK, result)
}

// abortAuthz maps authorization failures to REST status codes.
func (h *Handler) abortAuthz(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat room not found"})
	case errors.Is(err, chathub.ErrNotParticipant), errors.Is(err, chathub.ErrNotConnected):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
