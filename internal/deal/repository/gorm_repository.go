package repository

import (
	"errors"
	"time"

	dealdomain "dealpilot-backend/internal/deal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// inboundEmailRepository implements InboundEmailRepository interface
type inboundEmailRepository struct {
	db *gorm.DB
}

func NewInboundEmailRepository(db *gorm.DB) InboundEmailRepository {
	return &inboundEmailRepository{db: db}
}

func (r *inboundEmailRepository) ExistsByGmailMessageID(gmailMessageID string) (bool, error) {
	var count int64
	err := r.db.Model(&dealdomain.InboundEmail{}).
		Where("gmail_message_id = ?", gmailMessageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *inboundEmailRepository) Create(email *dealdomain.InboundEmail) error {
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	email.CreatedAt = time.Now()
	return r.db.Create(email).Error
}

func (r *inboundEmailRepository) FindByID(id string) (*dealdomain.InboundEmail, error) {
	var email dealdomain.InboundEmail
	err := r.db.Where("id = ?", id).First(&email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *inboundEmailRepository) UpdateClassification(id, classification string) error {
	return r.db.Model(&dealdomain.InboundEmail{}).
		Where("id = ?", id).
		Update("classification", classification).Error
}

// dealRepository implements DealRepository interface
type dealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) Create(deal *dealdomain.Deal) error {
	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}
	deal.CreatedAt = time.Now()
	deal.UpdatedAt = time.Now()
	return r.db.Create(deal).Error
}

func (r *dealRepository) Update(deal *dealdomain.Deal) error {
	deal.UpdatedAt = time.Now()
	return r.db.Save(deal).Error
}

func (r *dealRepository) FindByID(id string) (*dealdomain.Deal, error) {
	var deal dealdomain.Deal
	err := r.db.Where("id = ?", id).First(&deal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) FindLatestPendingEmailDeal(creatorID string) (*dealdomain.Deal, error) {
	var deal dealdomain.Deal
	err := r.db.
		Where("creator_id = ? AND status = ? AND source = ?",
			creatorID, dealdomain.StatusPendingCreator, dealdomain.SourceEmail).
		Order("created_at desc").
		First(&deal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

// brandRepository implements BrandRepository interface
type brandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Upsert(name, domain, contactEmail string) (*dealdomain.Brand, error) {
	var brand dealdomain.Brand
	err := r.db.Where("name = ? AND domain = ?", name, domain).First(&brand).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		brand = dealdomain.Brand{
			ID:           uuid.New().String(),
			Name:         name,
			Domain:       domain,
			ContactEmail: contactEmail,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := r.db.Create(&brand).Error; err != nil {
			return nil, err
		}
		return &brand, nil
	} else if err != nil {
		return nil, err
	}

	if contactEmail != "" && contactEmail != brand.ContactEmail {
		brand.ContactEmail = contactEmail
		brand.UpdatedAt = time.Now()
		if err := r.db.Save(&brand).Error; err != nil {
			return nil, err
		}
	}
	return &brand, nil
}
