package services

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	apiError "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
)

// MessageService interface
type MessageService interface {
	SendMessage(ctx context.Context, roomID, senderID, body string) (*models.MessageResponse, error)
	GetRoomMessages(ctx context.Context, roomID string, page int) (*models.PaginatedMessagesResponse, error)
}

// messageService struct
type messageService struct {
	Config      *config.Config
	messageRepo db.MessageRepository
}

// NewMessageService instantiate a messageService
func NewMessageService(messageRepo db.MessageRepository, conf *config.Config) MessageService {
	return &messageService{
		Config:      conf,
		messageRepo: messageRepo,
	}
}

func (s *messageService) SendMessage(ctx context.Context, roomID, senderID, body string) (*models.MessageResponse, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apiError.New("message body is empty", http.StatusBadRequest)
	}
	message := &models.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Body:     body,
	}
	if err := s.messageRepo.SaveMessage(ctx, message); err != nil {
		return nil, err
	}
	dto, err := models.NewMessageResponse(*message)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// GetRoomMessages assembles one page of a room's transcript. The store hands
// back the page newest-first; only that slice is reversed so the page reads
// oldest-to-newest, while page 1 still holds the newest messages overall.
func (s *messageService) GetRoomMessages(ctx context.Context, roomID string, page int) (*models.PaginatedMessagesResponse, error) {
	if page < 1 {
		page = 1
	}

	records, total, err := s.messageRepo.GetRoomMessages(ctx, roomID, page)
	if err != nil {
		return nil, err
	}

	messages := make([]models.MessageResponse, 0, len(records))
	for _, record := range lo.Reverse(records) {
		dto, err := models.NewMessageResponse(record)
		if err != nil {
			// A malformed record is dropped, the rest of the page survives.
			log.Printf("skipping message %s in room %s: %v", record.ID, roomID, err)
			continue
		}
		messages = append(messages, dto)
	}

	totalPages := int(math.Ceil(float64(total) / float64(db.DefaultPageSize)))

	return &models.PaginatedMessagesResponse{
		Messages:      messages,
		TotalMessages: total,
		Limit:         db.DefaultPageSize,
		TotalPages:    totalPages,
		Page:          page,
	}, nil
}
