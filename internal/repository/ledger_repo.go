package repository

import (
	"errors"

	"adchain/internal/domain"
	"adchain/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository owns the billable event tables and the ad budget. Every
// mutation runs in one transaction; dedup is structural — the composite
// unique index on (ad_id, wallet_address) decides who billed first, and the
// conditional balance decrement decides whether the budget could cover it.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ImpressionResult reports one RecordImpression outcome.
type ImpressionResult struct {
	AlreadyRecorded bool
	AdvertiserID    uint
}

// InteractionResult reports one RecordInteraction outcome. Amount is the
// reward actually charged (requested amount capped by the remaining balance).
type InteractionResult struct {
	AlreadyRecorded  bool
	Amount           float64
	AdvertiserID     uint
	RemainingBalance float64
}

// RecordImpression inserts the impression row and bumps the ad's counter as
// one atomic unit. A duplicate (ad, wallet) pair is a success no-op.
func (r *LedgerRepository) RecordImpression(adID uint, walletAddress string) (*ImpressionResult, error) {
	result := &ImpressionResult{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ad models.Ad
		if err := tx.Select("id", "advertiser_id").First(&ad, adID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		result.AdvertiserID = ad.AdvertiserID

		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.AdImpression{AdID: adID, WalletAddress: walletAddress})
		if ins.Error != nil {
			return ins.Error
		}
		if ins.RowsAffected == 0 {
			result.AlreadyRecorded = true
			return nil
		}
		return tx.Model(&models.Ad{}).Where("id = ?", adID).
			UpdateColumn("impressions", gorm.Expr("impressions + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordInteraction atomically inserts the interaction row, decrements the
// ad's remaining balance, bumps the interaction counter and credits the
// wallet's current snapshot. The decrement is guarded at commit time
// (WHERE remaining_balance >= amount); a guard miss rolls everything back and
// surfaces ErrBudgetConflict so the caller re-reads and retries.
func (r *LedgerRepository) RecordInteraction(adID uint, walletAddress string, requestedAmount float64) (*InteractionResult, error) {
	result := &InteractionResult{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ad models.Ad
		if err := tx.First(&ad, adID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		result.AdvertiserID = ad.AdvertiserID

		amount := requestedAmount
		if ad.RemainingBalance < amount {
			amount = ad.RemainingBalance
		}
		if amount <= 0 {
			return domain.ErrInsufficientBudget
		}

		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.AdInteraction{AdID: adID, WalletAddress: walletAddress, Amount: amount})
		if ins.Error != nil {
			return ins.Error
		}
		if ins.RowsAffected == 0 {
			result.AlreadyRecorded = true
			result.RemainingBalance = ad.RemainingBalance
			return nil
		}

		upd := tx.Model(&models.Ad{}).
			Where("id = ? AND remaining_balance >= ?", adID, amount).
			UpdateColumns(map[string]interface{}{
				"remaining_balance": gorm.Expr("remaining_balance - ?", amount),
				"interactions":      gorm.Expr("interactions + 1"),
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			// A concurrent interaction spent the budget between our read and
			// the guarded update. Roll back the inserted row too.
			return domain.ErrBudgetConflict
		}

		// Credit the wallet's most recent snapshot. Wallets without a stored
		// profile still consume budget; there is just nothing to credit.
		var snap models.PortfolioSnapshot
		err := tx.Where("wallet_address = ?", walletAddress).
			Order("created_at DESC").First(&snap).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Amount = amount
				result.RemainingBalance = ad.RemainingBalance - amount
				return nil
			}
			return err
		}
		if err := tx.Model(&snap).
			UpdateColumn("earned_rewards", gorm.Expr("earned_rewards + ?", amount)).Error; err != nil {
			return err
		}
		result.Amount = amount
		result.RemainingBalance = ad.RemainingBalance - amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
