package repository

import (
	"adchain/internal/models"

	"gorm.io/gorm"
)

type AdvertiserRepository struct {
	db *gorm.DB
}

func NewAdvertiserRepository(db *gorm.DB) *AdvertiserRepository {
	return &AdvertiserRepository{db: db}
}

func (r *AdvertiserRepository) Create(a *models.Advertiser) error {
	return r.db.Create(a).Error
}

func (r *AdvertiserRepository) GetByID(id uint) (*models.Advertiser, error) {
	var a models.Advertiser
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdvertiserRepository) GetByEmail(email string) (*models.Advertiser, error) {
	var a models.Advertiser
	if err := r.db.Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdvertiserRepository) GetByGoogleID(googleID string) (*models.Advertiser, error) {
	var a models.Advertiser
	if err := r.db.Where("google_id = ?", googleID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdvertiserRepository) Update(a *models.Advertiser) error {
	return r.db.Save(a).Error
}
