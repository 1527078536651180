package repository

import (
	"time"

	creatordomain "dealpilot-backend/internal/creator/domain"
)

// CreatorRepository defines the interface for creator lookups and updates.
// Finders return (nil, nil) when no row matches.
type CreatorRepository interface {
	Create(creator *creatordomain.Creator) error
	FindByID(id string) (*creatordomain.Creator, error)
	FindByEmail(email string) (*creatordomain.Creator, error)
	// FindByPhoneNumbers matches any of the normalized candidate forms.
	FindByPhoneNumbers(candidates []string) (*creatordomain.Creator, error)
	Update(creator *creatordomain.Creator) error
}

// CredentialRepository defines the interface for Gmail credential storage.
type CredentialRepository interface {
	Create(credential *creatordomain.GmailCredential) error
	FindByCreatorID(creatorID string) (*creatordomain.GmailCredential, error)
	ListAll() ([]*creatordomain.GmailCredential, error)
	// UpdateMetadata persists the opaque sync-cursor blob.
	UpdateMetadata(id, metadata string) error
	// UpdateTokens persists a rotated token set.
	UpdateTokens(id, accessToken, refreshToken string, expiry *time.Time) error
}
