package domain

import "time"

// GmailCredential is the per-creator OAuth credential. Metadata is the opaque
// sync-cursor blob managed through pkg/cursor; the refresh token is required
// state once issued and is never cleared by the sync pipeline.
type GmailCredential struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	CreatorID    string     `json:"creator_id" gorm:"uniqueIndex;not null"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-" gorm:"not null"`
	TokenType    string     `json:"token_type,omitempty"`
	Scope        string     `json:"scope,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	Metadata     string     `json:"-" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
