package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	apiError "github.com/techagentng/chatterbox/errors"
)

// Message is the stored chat record. Rooms only ever gain messages; the
// composite index backs the descending per-room page scan.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID    string    `gorm:"not null;index:idx_messages_room_created,priority:1" json:"room_id"`
	SenderID  string    `gorm:"not null" json:"sender_id"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `gorm:"index:idx_messages_room_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageResponse is the only shape of a message that crosses to clients.
type MessageResponse struct {
	RoomID    string    `json:"room_id"`
	MessageID string    `json:"message_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaginatedMessagesResponse struct {
	Messages      []MessageResponse `json:"messages"`
	TotalMessages int64             `json:"total_messages"`
	Limit         int               `json:"limit"`
	TotalPages    int               `json:"total_pages"`
	Page          int               `json:"page"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// NewMessageResponse is the single mapping across the trust boundary.
// Anything the stored record carries beyond the six response fields is
// dropped here.
func NewMessageResponse(m Message) (MessageResponse, error) {
	if m.ID == uuid.Nil {
		return MessageResponse{}, errors.Wrap(apiError.ErrProjection, "message id is missing")
	}
	if m.RoomID == "" {
		return MessageResponse{}, errors.Wrap(apiError.ErrProjection, "room id is missing")
	}
	if m.SenderID == "" {
		return MessageResponse{}, errors.Wrap(apiError.ErrProjection, "sender id is missing")
	}
	return MessageResponse{
		RoomID:    m.RoomID,
		MessageID: m.ID.String(),
		SenderID:  m.SenderID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
