package handler

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rohit-sabapathi/linkup-chat/internal/chathub"
)

// CloseCodeHandshakeFailure is the application close code sent with every
// authentication or authorization failure during the handshake. Browser
// clients match on it to distinguish rejections from transport errors.
const CloseCodeHandshakeFailure = 4000

// ServeChatRoom upgrades the connection and runs the handshake states:
// authenticate the token from the query string, authorize the target
// room, then hand the connection to the hub. Both handshake failures are
// terminal and reported with close code 4000 and a reason.
func (h *Handler) ServeChatRoom(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	user, err := h.auth.Authenticate(c.Query("token"))
	if err != nil {
		closeWithReason(conn, err.Error())
		return
	}

	roomID := c.Param("room_id")
	room, err := h.authorizer.Authorize(user.ID, roomID)
	if err != nil {
		log.Printf("user %s denied for room %s: %v", user.ID, roomID, err)
		closeWithReason(conn, err.Error())
		return
	}

	client := chathub.NewWebSocketClient(user, room.RoomID, conn, h.hub, h.relay)
	client.Run()
}

func closeWithReason(conn *websocket.Conn, reason string) {
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(CloseCodeHandshakeFailure, reason), deadline)
	conn.Close()
}
