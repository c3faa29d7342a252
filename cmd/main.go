package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rohit-sabapathi/linkup-chat/internal/api/handler"
	"github.com/rohit-sabapathi/linkup-chat/internal/api/middleware"
	"github.com/rohit-sabapathi/linkup-chat/internal/auth"
	"github.com/rohit-sabapathi/linkup-chat/internal/chathub"
	"github.com/rohit-sabapathi/linkup-chat/internal/config"
	"github.com/rohit-sabapathi/linkup-chat/internal/models"
	"github.com/rohit-sabapathi/linkup-chat/internal/storage"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserFollowing{},
		&models.ChatRoom{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting LinkUp chat service...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	hub := chathub.NewHub()
	authorizer := chathub.NewRoomAuthorizer(s)
	relay := chathub.NewRelay(s, hub, authorizer)
	authenticator := auth.NewAuthenticator(cfg.JWTSecret, s)

	go hub.Run()
	hub.StartPubSubListener(s)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	h := handler.NewHandler(cfg, s, hub, relay, authenticator, authorizer)

	// WebSocket relay endpoint; the token travels as a query parameter
	// because browsers cannot set headers on the ws handshake.
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

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
