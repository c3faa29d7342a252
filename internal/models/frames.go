package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Frame types exchanged over the room WebSocket. Inbound frames carrying
// any other type are treated as chat messages and must include a message
// payload; everything else is rejected with an error frame.
const (
	FrameConnectionTest         = "connection_test"
	FrameConnectionTestResponse = "connection_test_response"
	FrameError                  = "error"
)

// MaxAttachmentBytes caps the decoded size of a message attachment.
const MaxAttachmentBytes = 5 * 1024 * 1024

// Payload validation failures. The error text is sent verbatim to the
// client in an error frame.
var (
	ErrEmptyMessage       = errors.New("Either content or file must be provided")
	ErrMissingFileType    = errors.New("File type is required when sending a file")
	ErrBadFileType        = errors.New("Only image and video files are allowed")
	ErrAttachmentTooLarge = errors.New("File size should be less than 5MB")
)

// InboundFrame is the envelope every client frame must parse into.
type InboundFrame struct {
	Type    string          `json:"type"`
	Message *MessagePayload `json:"message"`
}

// MessagePayload is the client-supplied body of a chat frame.
type MessagePayload struct {
	Content  string `json:"content"`
	FileData string `json:"file_data,omitempty"`
	FileType string `json:"file_type,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// Validate enforces the message invariants: non-empty content or an
// attachment, a declared image/video MIME type on any attachment, and the
// attachment size cap. Base64 expands by 4/3, hence the decoded estimate.
func (p *MessagePayload) Validate() error {
	content := strings.TrimSpace(p.Content)
	if content == "" && p.FileData == "" {
		return ErrEmptyMessage
	}
	if p.FileData != "" {
		if p.FileType == "" {
			return ErrMissingFileType
		}
		if !strings.HasPrefix(p.FileType, "image/") && !strings.HasPrefix(p.FileType, "video/") {
			return ErrBadFileType
		}
		if len(p.FileData)*3/4 > MaxAttachmentBytes {
			return ErrAttachmentTooLarge
		}
	}
	return nil
}

// MessageFrame is the wire representation of a persisted message.
type MessageFrame struct {
	ID        uint        `json:"id"`
	Sender    UserSummary `json:"sender"`
	Content   string      `json:"content"`
	FileData  string      `json:"file_data"`
	FileType  string      `json:"file_type"`
	FileName  string      `json:"file_name"`
	CreatedAt time.Time   `json:"created_at"`
	IsRead    bool        `json:"is_read"`
}

// NewMessageFrame serializes a persisted message with its sender summary.
func NewMessageFrame(msg *Message, sender UserSummary) MessageFrame {
	return MessageFrame{
		ID:        msg.ID,
		Sender:    sender,
		Content:   msg.Content,
		FileData:  msg.FileData,
		FileType:  msg.FileType,
		FileName:  msg.FileName,
		CreatedAt: msg.CreatedAt,
		IsRead:    msg.IsRead,
	}
}

// BroadcastEnvelope is what travels through the connection registry and
// the Redis channel: the room it targets, the serialized message, and the
// publishing instance so subscribers can skip their own echoes.
type BroadcastEnvelope struct {
	Origin  string       `json:"origin"`
	RoomID  string       `json:"room_id"`
	Message MessageFrame `json:"message"`
}

type relayedFrame struct {
	Message MessageFrame `json:"message"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type probeResponseFrame struct {
	Type    string `json:"type"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// EncodeMessageFrame wraps a serialized message in the relay envelope the
// client expects: {"message": {...}}.
func EncodeMessageFrame(frame MessageFrame) []byte {
	data, err := json.Marshal(relayedFrame{Message: frame})
	if err != nil {
		return EncodeErrorFrame("Internal server error")
	}
	return data
}

// EncodeErrorFrame builds {"type": "error", "message": reason}.
func EncodeErrorFrame(reason string) []byte {
	data, _ := json.Marshal(errorFrame{Type: FrameError, Message: reason})
	return data
}

// EncodeProbeResponse builds the liveness probe reply.
func EncodeProbeResponse() []byte {
	f := probeResponseFrame{Type: FrameConnectionTestResponse}
	f.Message.Content = "Connection successful"
	data, _ := json.Marshal(f)
	return data
}
