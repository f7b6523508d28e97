package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"adchain/internal/models"
)

// newTestDB opens a private in-memory SQLite database. The pool is pinned to
// one connection so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Advertiser{},
		&models.Ad{},
		&models.PortfolioSnapshot{},
		&models.AdImpression{},
		&models.AdInteraction{},
	))
	return db
}

func seedAdvertiser(t *testing.T, db *gorm.DB, name string) *models.Advertiser {
	t.Helper()
	a := &models.Advertiser{Email: name + "@example.com", DisplayName: name}
	require.NoError(t, db.Create(a).Error)
	return a
}

func seedAd(t *testing.T, db *gorm.DB, advertiserID uint, balance float64, desired models.ProfileRatings) *models.Ad {
	t.Helper()
	ad := &models.Ad{
		AdvertiserID:     advertiserID,
		Name:             "test ad",
		TotalBalance:     balance,
		RemainingBalance: balance,
		DesiredProfile:   desired,
	}
	require.NoError(t, db.Create(ad).Error)
	return ad
}

func seedSnapshot(t *testing.T, db *gorm.DB, wallet string, ratings models.ProfileRatings) *models.PortfolioSnapshot {
	t.Helper()
	snap := &models.PortfolioSnapshot{WalletAddress: wallet, Ratings: ratings}
	require.NoError(t, db.Create(snap).Error)
	return snap
}
