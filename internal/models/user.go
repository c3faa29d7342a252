package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User is a platform member able to chat with users they follow or are
// followed by. The account record is owned by the platform's auth service;
// the chat service reads it to resolve identities and to render sender
// summaries on relayed messages.
type User struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	ProfilePhoto   string         `json:"profile_photo"`
	Bio            string         `gorm:"type:text" json:"-"`
	GraduationYear int            `json:"-"`
	Department     string         `json:"-"`
	Skills         pq.StringArray `gorm:"type:text[]" json:"-"`
}

// BeforeCreate generates a UUID for the user if the ID is not yet set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// UserSummary is the sender representation embedded in message frames and
// room listings: identity fields only, never the full profile.
type UserSummary struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ProfilePhoto string `json:"profile_photo"`
}

// Summary projects a User to its public summary.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfilePhoto: u.ProfilePhoto,
	}
}

// UserFollowing is one directed edge of the follow graph. Two users may
// exchange messages iff at least one edge exists between them in either
// direction.
type UserFollowing struct {
	gorm.Model

	UserID          string `gorm:"type:text;not null;uniqueIndex:idx_follow_edge"`
	FollowingUserID string `gorm:"type:text;not null;uniqueIndex:idx_follow_edge"`
}
