package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	apiError "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
	"gorm.io/gorm"
)

// DefaultPageSize is the fixed page size for room history reads.
const DefaultPageSize = 30

// MessageRepository interface
type MessageRepository interface {
	SaveMessage(ctx context.Context, message *models.Message) error
	GetRoomMessages(ctx context.Context, roomID string, page int) ([]models.Message, int64, error)
}

// messageRepo struct
type messageRepo struct {
	DB *gorm.DB
}

// NewMessageRepo creates a new instance of MessageRepository
func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

// SaveMessage persists a single message. The id is assigned here when the
// caller did not set one; created_at and updated_at are assigned by gorm at
// write time and are equal for a fresh record.
func (r *messageRepo) SaveMessage(ctx context.Context, message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if err := r.DB.WithContext(ctx).Create(message).Error; err != nil {
		return errors.Wrap(apiError.ErrStorageWrite, err.Error())
	}
	return nil
}

// GetRoomMessages returns one page of a room's history, newest first, plus
// the room's total message count. A page past the end of the history yields
// an empty slice, not an error. The id tiebreak keeps pages stable when two
// messages land on the same timestamp.
func (r *messageRepo) GetRoomMessages(ctx context.Context, roomID string, page int) ([]models.Message, int64, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * DefaultPageSize

	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Message{}).
		Where("room_id = ?", roomID).
		Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(apiError.ErrStorageRead, err.Error())
	}

	var messages []models.Message
	err := r.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		Limit(DefaultPageSize).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, 0, errors.Wrap(apiError.ErrStorageRead, err.Error())
	}
	return messages, total, nil
}
