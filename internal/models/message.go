package models

import "gorm.io/gorm"

// Message is one durable chat message. The embedded gorm.Model provides
// the numeric ID and CreatedAt used in the wire representation.
type Message struct {
	gorm.Model

	// RoomID is the room the message belongs to.
	RoomID string `gorm:"type:uuid;not null;index:idx_room_created"`
	// SenderID must be one of the room's two participants.
	SenderID string `gorm:"type:text;not null;index"`
	// Content is the text body. May be empty when an attachment is present.
	Content string `gorm:"type:text"`
	// FileData holds the base64-encoded attachment, if any.
	FileData string `gorm:"type:text"`
	// FileType is the attachment's declared MIME type (image/* or video/*).
	FileType string
	// FileName is the attachment's original file name.
	FileName string
	// IsRead is flipped when the other participant marks the room read.
	IsRead bool `gorm:"default:false"`
}
