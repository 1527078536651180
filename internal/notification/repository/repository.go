package repository

import (
	notificationdomain "dealpilot-backend/internal/notification/domain"
)

// OutboundMessageRepository records notification attempts. Append-only.
type OutboundMessageRepository interface {
	Create(message *notificationdomain.OutboundMessage) error
	ListByCreator(creatorID string) ([]*notificationdomain.OutboundMessage, error)
}
