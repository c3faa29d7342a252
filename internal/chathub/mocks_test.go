package chathub_test

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/rohit-sabapathi/linkup-chat/internal/models"
)

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

// MockClient is a lightweight stand-in for a live connection: a buffered
// send channel plus a closed flag, no real transport.
type MockClient struct {
	user   *models.User
	roomID string
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID, roomID string) *MockClient {
	return &MockClient{
		user:   &models.User{ID: userID, Email: userID + "@linkup.edu"},
		roomID: roomID,
		send:   make(chan []byte, 16),
	}
}

func (c *MockClient) GetUser() *models.User         { return c.user }
func (c *MockClient) GetRoomID() string             { return c.roomID }
func (c *MockClient) GetSendChannel() chan<- []byte { return c.send }

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Received drains and returns everything queued for the client.
func (c *MockClient) Received() [][]byte {
	var payloads [][]byte
	for {
		select {
		case p := <-c.send:
			payloads = append(payloads, p)
		default:
			return payloads
		}
	}
}
