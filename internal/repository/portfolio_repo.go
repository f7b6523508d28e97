package repository

import (
	"errors"

	"adchain/internal/models"

	"gorm.io/gorm"
)

type PortfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) Create(snap *models.PortfolioSnapshot) error {
	return r.db.Create(snap).Error
}

// GetLatestByWallet returns the wallet's current snapshot (most recent by
// created_at). gorm.ErrRecordNotFound when the wallet was never scored.
func (r *PortfolioRepository) GetLatestByWallet(walletAddress string) (*models.PortfolioSnapshot, error) {
	var snap models.PortfolioSnapshot
	err := r.db.Where("wallet_address = ?", walletAddress).
		Order("created_at DESC").First(&snap).Error
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListByWallet returns the wallet's snapshot history, newest first.
func (r *PortfolioRepository) ListByWallet(walletAddress string, limit int) ([]models.PortfolioSnapshot, error) {
	var list []models.PortfolioSnapshot
	err := r.db.Where("wallet_address = ?", walletAddress).
		Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// LatestForWallets returns the current snapshot per wallet for the given set.
// Used by analytics to average the matched audience's ratings.
func (r *PortfolioRepository) LatestForWallets(wallets []string) ([]models.PortfolioSnapshot, error) {
	out := make([]models.PortfolioSnapshot, 0, len(wallets))
	for _, w := range wallets {
		snap, err := r.GetLatestByWallet(w)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, nil
}
