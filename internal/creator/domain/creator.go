package domain

import "time"

const CreatorStatusActive = "ACTIVE"

// Creator is the person whose inbox is being watched.
type Creator struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	DisplayName string    `json:"display_name" gorm:"not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Preferences string    `json:"preferences,omitempty"` // free-form niche description
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
