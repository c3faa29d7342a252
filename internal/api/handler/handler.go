package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rohit-sabapathi/linkup-chat/internal/auth"
	"github.com/rohit-sabapathi/linkup-chat/internal/chathub"
	"github.com/rohit-sabapathi/linkup-chat/internal/config"
	"github.com/rohit-sabapathi/linkup-chat/internal/storage"
)

// Handler carries the service dependencies shared by the WebSocket and
// REST endpoints.
type Handler struct {
	storage    storage.Storage
	hub        *chathub.Hub
	relay      *chathub.Relay
	auth       *auth.Authenticator
	authorizer *chathub.RoomAuthorizer
	upgrader   websocket.Upgrader
}

// NewHandler wires a Handler from its collaborators.
func NewHandler(cfg *config.Config, s storage.Storage, hub *chathub.Hub, relay *chathub.Relay, authenticator *auth.Authenticator, authorizer *chathub.RoomAuthorizer) *Handler {
	return &Handler{
		storage:    s,
		hub:        hub,
		relay:      relay,
		auth:       authenticator,
		authorizer: authorizer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return cfg.OriginAllowed(r.Header.Get("Origin"))
			},
		},
	}
}
