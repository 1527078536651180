package repository

import (
	"errors"
	"time"

	creatordomain "dealpilot-backend/internal/creator/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// creatorRepository implements CreatorRepository interface
type creatorRepository struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) CreatorRepository {
	return &creatorRepository{db: db}
}

func (r *creatorRepository) Create(creator *creatordomain.Creator) error {
	if creator.ID == "" {
		creator.ID = uuid.New().String()
	}
	creator.CreatedAt = time.Now()
	creator.UpdatedAt = time.Now()
	return r.db.Create(creator).Error
}

func (r *creatorRepository) FindByID(id string) (*creatordomain.Creator, error) {
	var creator creatordomain.Creator
	err := r.db.Where("id = ?", id).First(&creator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &creator, nil
}

func (r *creatorRepository) FindByEmail(email string) (*creatordomain.Creator, error) {
	var creator creatordomain.Creator
	err := r.db.Where("email = ?", email).First(&creator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &creator, nil
}

func (r *creatorRepository) FindByPhoneNumbers(candidates []string) (*creatordomain.Creator, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	var creator creatordomain.Creator
	err := r.db.Where("phone_number IN ?", candidates).First(&creator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &creator, nil
}

func (r *creatorRepository) Update(creator *creatordomain.Creator) error {
	creator.UpdatedAt = time.Now()
	return r.db.Save(creator).Error
}

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Create(credential *creatordomain.GmailCredential) error {
	if credential.ID == "" {
		credential.ID = uuid.New().String()
	}
	credential.CreatedAt = time.Now()
	credential.UpdatedAt = time.Now()
	return r.db.Create(credential).Error
}

func (r *credentialRepository) FindByCreatorID(creatorID string) (*creatordomain.GmailCredential, error) {
	var credential creatordomain.GmailCredential
	err := r.db.Where("creator_id = ?", creatorID).First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credential, nil
}

func (r *credentialRepository) ListAll() ([]*creatordomain.GmailCredential, error) {
	var credentials []*creatordomain.GmailCredential
	if err := r.db.Order("created_at asc").Find(&credentials).Error; err != nil {
		return nil, err
	}
	return credentials, nil
}

func (r *credentialRepository) UpdateMetadata(id, metadata string) error {
	return r.db.Model(&creatordomain.GmailCredential{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"metadata": metadata, "updated_at": time.Now()}).Error
}

func (r *credentialRepository) UpdateTokens(id, accessToken, refreshToken string, expiry *time.Time) error {
	updates := map[string]interface{}{
		"access_token": accessToken,
		"expiry_date":  expiry,
		"updated_at":   time.Now(),
	}
	// A refresh token is required state; never overwrite it with nothing.
	if refreshToken != "" {
		updates["refresh_token"] = refreshToken
	}
	return r.db.Model(&creatordomain.GmailCredential{}).
		Where("id = ?", id).
		Updates(updates).Error
}
