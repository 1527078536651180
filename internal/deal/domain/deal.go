package domain

import "time"

// Deal lifecycle driven by this pipeline: the synchronizer creates deals in
// PENDING_CREATOR; a single creator reply moves them to one of the terminal
// states below. Later downstream statuses are owned elsewhere.
const (
	StatusPendingCreator = "PENDING_CREATOR"
	StatusActive         = "ACTIVE"
	StatusNegotiation    = "NEGOTIATION"
	StatusUnqualified    = "UNQUALIFIED"
)

const (
	SourceEmail    = "EMAIL"
	SourceOutbound = "OUTBOUND"
)

// Deal is one tracked opportunity. InboundEmailID is nil for outbound-sourced
// deals; at most one deal ever references a given inbound email.
type Deal struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	CreatorID      string     `json:"creator_id" gorm:"index;not null"`
	InboundEmailID *string    `json:"inbound_email_id,omitempty" gorm:"uniqueIndex"`
	BrandID        *string    `json:"brand_id,omitempty"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary" gorm:"type:text"`
	AISummary      string     `json:"ai_summary" gorm:"type:text"`
	AIConfidence   float64    `json:"ai_confidence"`
	Status         string     `json:"status" gorm:"index"`
	Source         string     `json:"source"`
	EstimatedValue *float64   `json:"estimated_value,omitempty"`
	CurrencyCode   string     `json:"currency_code,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Metadata       string     `json:"-" gorm:"type:text"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
