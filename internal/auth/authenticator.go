package auth

import (
	"errors"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/rohit-sabapathi/linkup-chat/internal/models"
)

// Authentication failures. Each maps to a distinct close reason on the
// WebSocket handshake; all of them are terminal for the attempt.
var (
	ErrNoToken      = errors.New("Authentication required")
	ErrInvalidToken = errors.New("Invalid authentication token")
	ErrTokenExpired = errors.New("Token has expired")
	ErrUnknownUser  = errors.New("User not found")
)

// UserStore is the read-only user lookup the authenticator needs.
type UserStore interface {
	GetUserByID(id string) (*models.User, error)
}

// Authenticator validates bearer credentials and resolves them to users.
// Tokens are issued by the platform's auth service; this side only
// verifies the shared-secret HS256 signature and the standard claims.
type Authenticator struct {
	secret []byte
	users  UserStore
}

// NewAuthenticator builds an Authenticator around the shared signing
// secret and a user store.
func NewAuthenticator(secret string, users UserStore) *Authenticator {
	return &Authenticator{secret: []byte(secret), users: users}
}

// Authenticate resolves a raw credential string to a user. An optional
// "Bearer " prefix is stripped first. Rejections are one of the sentinel
// errors above; callers close the connection with the error text.
func (a *Authenticator) Authenticate(credential string) (*models.User, error) {
	credential = strings.TrimPrefix(credential, "Bearer ")
	if credential == "" {
		return nil, ErrNoToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	user, err := a.users.GetUserByID(userID)
	if err != nil || user == nil {
		return nil, ErrUnknownUser
	}
	return user, nil
}
