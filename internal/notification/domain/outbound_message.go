package domain

import "time"

const (
	ChannelSMS = "SMS"
	StatusSent = "SENT"
)

// OutboundMessage is the append-only audit record of one delivered
// notification. Rows are write-once.
type OutboundMessage struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	CreatorID         string    `json:"creator_id" gorm:"index;not null"`
	DealID            *string   `json:"deal_id,omitempty"`
	Channel           string    `json:"channel"`
	To                string    `json:"to"`
	Body              string    `json:"body" gorm:"type:text"`
	Payload           string    `json:"-" gorm:"type:text"` // serialized trigger context
	ProviderMessageID string    `json:"provider_message_id"`
	Status            string    `json:"status"`
	SentAt            time.Time `json:"sent_at"`
	CreatedAt         time.Time `json:"created_at"`
}
