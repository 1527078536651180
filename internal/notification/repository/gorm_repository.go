package repository

import (
	"time"

	notificationdomain "dealpilot-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// outboundMessageRepository implements OutboundMessageRepository interface
type outboundMessageRepository struct {
	db *gorm.DB
}

func NewOutboundMessageRepository(db *gorm.DB) OutboundMessageRepository {
	return &outboundMessageRepository{db: db}
}

func (r *outboundMessageRepository) Create(message *notificationdomain.OutboundMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
	return r.db.Create(message).Error
}

func (r *outboundMessageRepository) ListByCreator(creatorID string) ([]*notificationdomain.OutboundMessage, error) {
	var messages []*notificationdomain.OutboundMessage
	err := r.db.Where("creator_id = ?", creatorID).
		Order("created_at desc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
