package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rohit-sabapathi/linkup-chat/internal/models"
)

// ErrRoomNotFound is returned when a room ID resolves to nothing.
var ErrRoomNotFound = errors.New("chat room not found")

// ErrUserNotFound is returned when a user ID resolves to nothing.
var ErrUserNotFound = errors.New("user not found")

// Storage is everything the relay core and the REST handlers need from
// the persistence layer.
type Storage interface {
	GetUserByID(id string) (*models.User, error)

	GetRoomByID(roomID string) (*models.ChatRoom, error)
	GetRoomForUsers(userA, userB string) (*models.ChatRoom, error)
	GetOrCreateRoom(userA, userB string) (*models.ChatRoom, error)
	ListRoomsForUser(userID string) ([]models.ChatRoom, error)

	SaveMessage(msg *models.Message) error
	ListMessages(roomID string, page, pageSize int) ([]models.Message, error)
	LastMessage(roomID string) (*models.Message, error)
	UnreadCount(roomID, excludeSenderID string) (int64, error)
	MarkMessagesRead(roomID, readerID string) error

	UsersConnected(userA, userB string) (bool, error)
	ListMessageableUsers(userID string) ([]models.User, error)

	PublishMessage(roomID string, env models.BroadcastEnvelope) error
}

// Service implements Storage over PostgreSQL (GORM) and Redis Pub/Sub.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService constructs the Service.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// GetUserByID loads a user by primary key.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetRoomByID loads a room by primary key.
func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.First(&room, "room_id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		log.Printf("ERROR: failed to load room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// GetRoomForUsers looks up the room for an unordered user pair without
// creating one.
func (s *Service) GetRoomForUsers(userA, userB string) (*models.ChatRoom, error) {
	u1, u2 := models.NormalizePair(userA, userB)

	var room models.ChatRoom
	err := s.DB.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetOrCreateRoom returns the room for an unordered user pair, creating it
// on first contact. The pair is normalized before lookup so either
// ordering resolves to the same row.
func (s *Service) GetOrCreateRoom(userA, userB string) (*models.ChatRoom, error) {
	u1, u2 := models.NormalizePair(userA, userB)

	var room models.ChatRoom
	result := s.DB.Where(models.ChatRoom{User1ID: u1, User2ID: u2}).
		FirstOrCreate(&room)
	if result.Error != nil {
		log.Printf("ERROR: failed to get or create room for %s/%s: %v", u1, u2, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("INFO: created room %s for %s and %s", room.RoomID, u1, u2)
	}
	return &room, nil
}

// ListRoomsForUser returns every room the user participates in, most
// recently active first.
func (s *Service) ListRoomsForUser(userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// SaveMessage persists a message and bumps the room's last-activity
// timestamp in the same transaction. A message must never be visible in a
// room whose updated_at does not reflect it.
func (s *Service) SaveMessage(msg *models.Message) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			log.Printf("ERROR: failed to save message for room %s: %v", msg.RoomID, err)
			return err
		}
		return tx.Model(&models.ChatRoom{}).
			Where("room_id = ?", msg.RoomID).
			Update("updated_at", gorm.Expr("NOW()")).Error
	})
}

// ListMessages returns one page of room history, newest first.
func (s *Service) ListMessages(roomID string, page, pageSize int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	var messages []models.Message
	err := s.DB.Where("room_id = ?", roomID).
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// LastMessage returns the newest message in a room, or nil for an empty
// room.
func (s *Service) LastMessage(roomID string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.Where("room_id = ?", roomID).
		Order("created_at desc").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UnreadCount counts unread messages in a room not sent by the given user.
func (s *Service) UnreadCount(roomID, excludeSenderID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Message{}).
		Where("room_id = ? AND is_read = ? AND sender_id <> ?", roomID, false, excludeSenderID).
		Count(&count).Error
	return count, err
}

// MarkMessagesRead flips the read flag on every message in the room that
// the reader did not send.
func (s *Service) MarkMessagesRead(roomID, readerID string) error {
	return s.DB.Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, readerID, false).
		Update("is_read", true).Error
}

// UsersConnected reports whether a follow edge exists between two users in
// either direction. This is the eligibility gate for messaging.
func (s *Service) UsersConnected(userA, userB string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.UserFollowing{}).
		Where("(user_id = ? AND following_user_id = ?) OR (user_id = ? AND following_user_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMessageableUsers returns the union of the user's followers and the
// users they follow.
func (s *Service) ListMessageableUsers(userID string) ([]models.User, error) {
	var ids []string
	err := s.DB.Model(&models.UserFollowing{}).
		Where("user_id = ?", userID).
		Pluck("following_user_id", &ids).Error
	if err != nil {
		return nil, err
	}

	var followerIDs []string
	err = s.DB.Model(&models.UserFollowing{}).
		Where("following_user_id = ?", userID).
		Pluck("user_id", &followerIDs).Error
	if err != nil {
		return nil, err
	}
	ids = append(ids, followerIDs...)

	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// PublishMessage pushes a broadcast envelope onto the room's Redis channel
// so peer instances can fan it out to their local connections.
func (s *Service) PublishMessage(roomID string, env models.BroadcastEnvelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, RoomChannel(roomID), payload).Err()
}

// SubscribeRooms opens a pattern subscription covering every room channel.
func (s *Service) SubscribeRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, "chat:room:*")
}

// RoomChannel names the Redis Pub/Sub channel for one room.
func RoomChannel(roomID string) string {
	return "chat:room:" + roomID
}
