package repository

import (
	"errors"

	"adchain/internal/domain"
	"adchain/internal/models"

	"gorm.io/gorm"
)

type AdRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) *AdRepository {
	return &AdRepository{db: db}
}

func (r *AdRepository) Create(ad *models.Ad) error {
	return r.db.Create(ad).Error
}

func (r *AdRepository) GetByID(id uint) (*models.Ad, error) {
	var ad models.Ad
	if err := r.db.First(&ad, id).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *AdRepository) GetByIDForAdvertiser(id, advertiserID uint) (*models.Ad, error) {
	var ad models.Ad
	err := r.db.Where("id = ? AND advertiser_id = ?", id, advertiserID).First(&ad).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *AdRepository) ListByAdvertiserID(advertiserID uint) ([]models.Ad, error) {
	var list []models.Ad
	err := r.db.Where("advertiser_id = ?", advertiserID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

// FindMatching returns ads with budget left whose desired profile falls
// within ±tolerance of the wallet's ratings on at least one dimension
// (inclusive, OR across dimensions), newest first, with the advertiser
// joined for display.
func (r *AdRepository) FindMatching(ratings models.ProfileRatings, tolerance float64) ([]models.Ad, error) {
	var list []models.Ad
	window := func(v float64) (float64, float64) { return v - tolerance, v + tolerance }
	wLo, wHi := window(ratings.Whale)
	hLo, hHi := window(ratings.Hodler)
	fLo, fHi := window(ratings.Flipper)
	dLo, dHi := window(ratings.DefiUser)
	eLo, eHi := window(ratings.Experienced)
	err := r.db.Preload("Advertiser").
		Where("remaining_balance > 0").
		Where(`(desired_whale BETWEEN ? AND ?)
			OR (desired_hodler BETWEEN ? AND ?)
			OR (desired_flipper BETWEEN ? AND ?)
			OR (desired_defi_user BETWEEN ? AND ?)
			OR (desired_experienced BETWEEN ? AND ?)`,
			wLo, wHi, hLo, hHi, fLo, fHi, dLo, dHi, eLo, eHi).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// DecrementBalance is the administrative funding-correction path. The guard
// mirrors the ledger's: the update only applies when the remaining balance
// covers the amount, so the check constraint can never trip.
func (r *AdRepository) DecrementBalance(id uint, amount float64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}
	var ad models.Ad
	if err := r.db.Select("id").First(&ad, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	upd := r.db.Model(&models.Ad{}).
		Where("id = ? AND remaining_balance >= ?", id, amount).
		UpdateColumn("remaining_balance", gorm.Expr("remaining_balance - ?", amount))
	if upd.Error != nil {
		return upd.Error
	}
	if upd.RowsAffected == 0 {
		return domain.ErrInsufficientBudget
	}
	return nil
}

func (r *AdRepository) UpdateMediaURL(id uint, url string) error {
	return r.db.Model(&models.Ad{}).Where("id = ?", id).Update("media_url", url).Error
}
