package handler_test

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rohit-sabapathi/linkup-chat/internal/api/handler"
	"github.com/rohit-sabapathi/linkup-chat/internal/api/middleware"
	"github.com/rohit-sabapathi/linkup-chat/internal/auth"
	"github.com/rohit-sabapathi/linkup-chat/internal/chathub"
	"github.com/rohit-sabapathi/linkup-chat/internal/config"
	"github.com/rohit-sabapathi/linkup-chat/internal/models"
)

const testSecret = "handler-test-secret"

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) GetRoomForUsers(userA, userB string) (*models.ChatRoom, error) {
	args := m.Called(userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) GetOrCreateRoom(userA, userB string) (*models.ChatRoom, error) {
	args := m.Called(userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) ListRoomsForUser(userID string) ([]models.ChatRoom, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatRoom), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) ListMessages(roomID string, page, pageSize int) ([]models.Message, error) {
	args := m.Called(roomID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) LastMessage(roomID string) (*models.Message, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) UnreadCount(roomID, excludeSenderID string) (int64, error) {
	args := m.Called(roomID, excludeSenderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MarkMessagesRead(roomID, readerID string) error {
	args := m.Called(roomID, readerID)
	return args.Error(0)
}

func (m *MockStorage) UsersConnected(userA, userB string) (bool, error) {
	args := m.Called(userA, userB)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) ListMessageableUsers(userID string) ([]models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) PublishMessage(roomID string, env models.BroadcastEnvelope) error {
	args := m.Called(roomID, env)
	return args.Error(0)
}

// fixture assembles a full router over a mock store, mirroring the wiring
// in cmd/main.go.
type fixture struct {
	storage *MockStorage
	router  *gin.Engine
	hub     *chathub.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storageMock := new(MockStorage)
	cfg := &config.Config{JWTSecret: testSecret}

	hub := chathub.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	authorizer := chathub.NewRoomAuthorizer(storageMock)
	relay := chathub.NewRelay(storageMock, hub, authorizer)
	authenticator := auth.NewAuthenticator(testSecret, storageMock)

	h := handler.NewHandler(cfg, storageMock, hub, relay, authenticator, authorizer)

	r := gin.New()
	r.GET("/ws/chat/rooms/:room_id/", h.ServeChatRoom)
	api := r.Group("/api/chat", middleware.RequireAuth(authenticator))
	{
		api.GET("/rooms/", h.ListRooms)
		api.GET("/rooms/:room_id/", h.GetRoom)
		api.GET("/rooms/:room_id/messages/", h.ListMessages)
		api.POST("/rooms/:room_id/messages/", h.CreateMessage)
		api.POST("/rooms/:room_id/read/", h.MarkMessagesRead)
		api.GET("/users/:user_id/room/", h.GetOrCreateRoomWithUser)
		api.GET("/messageable-users/", h.ListMessageableUsers)
	}

	return &fixture{storage: storageMock, router: r, hub: hub}
}

// asUser registers the user in the mock store and returns a signed token.
func (f *fixture) asUser(t *testing.T, user *models.User) string {
	t.Helper()
	f.storage.On("GetUserByID", user.ID).Return(user, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}
