package domain

import "time"

// Brand is the normalized counterparty, keyed by (name, domain). Brands are
// upserted as emails arrive and never deleted.
type Brand struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"uniqueIndex:idx_brand_name_domain;not null"`
	Domain       string    `json:"domain" gorm:"uniqueIndex:idx_brand_name_domain;not null"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Website      string    `json:"website,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
