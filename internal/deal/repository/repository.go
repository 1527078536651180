package repository

import (
	dealdomain "dealpilot-backend/internal/deal/domain"
)

// InboundEmailRepository defines the interface for the inbound email ledger.
// Finders return (nil, nil) when no row matches.
type InboundEmailRepository interface {
	// ExistsByGmailMessageID is the per-message idempotency check.
	ExistsByGmailMessageID(gmailMessageID string) (bool, error)
	Create(email *dealdomain.InboundEmail) error
	FindByID(id string) (*dealdomain.InboundEmail, error)
	// UpdateClassification is the only mutation allowed after creation.
	UpdateClassification(id, classification string) error
}

// DealRepository defines the interface for deal storage.
type DealRepository interface {
	Create(deal *dealdomain.Deal) error
	Update(deal *dealdomain.Deal) error
	FindByID(id string) (*dealdomain.Deal, error)
	// FindLatestPendingEmailDeal returns the creator's most recent deal in
	// PENDING_CREATOR sourced from email, or (nil, nil).
	FindLatestPendingEmailDeal(creatorID string) (*dealdomain.Deal, error)
}

// BrandRepository defines the interface for brand normalization.
type BrandRepository interface {
	// Upsert creates or refreshes the brand keyed by (name, domain).
	Upsert(name, domain, contactEmail string) (*dealdomain.Brand, error)
}
