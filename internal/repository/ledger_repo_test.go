package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adchain/internal/domain"
	"adchain/internal/models"
)

func TestRecordImpression(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	adv := seedAdvertiser(t, db, "acme")
	ad := seedAd(t, db, adv.ID, 100, models.ProfileRatings{})

	result, err := ledger.RecordImpression(ad.ID, "0xwallet")
	require.NoError(t, err)
	assert.False(t, result.AlreadyRecorded)
	assert.Equal(t, adv.ID, result.AdvertiserID)

	var got models.Ad
	require.NoError(t, db.First(&got, ad.ID).Error)
	assert.Equal(t, int64(1), got.Impressions)

	// Second call is an idempotent no-op.
	result, err = ledger.RecordImpression(ad.ID, "0xwallet")
	require.NoError(t, err)
	assert.True(t, result.AlreadyRecorded)

	require.NoError(t, db.First(&got, ad.ID).Error)
	assert.Equal(t, int64(1), got.Impressions)

	var count int64
	require.NoError(t, db.Model(&models.AdImpression{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordImpressionUnknownAd(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)

	_, err := ledger.RecordImpression(999, "0xwallet")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordImpressionDistinctWallets(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	adv := seedAdvertiser(t, db, "acme")
	ad := seedAd(t, db, adv.ID, 100, models.ProfileRatings{})

	for _, w := range []string{"0xaaa", "0xbbb", "0xccc"} {
		_, err := ledger.RecordImpression(ad.ID, w)
		require.NoError(t, err)
	}
	var got models.Ad
	require.NoError(t, db.First(&got, ad.ID).Error)
	assert.Equal(t, int64(3), got.Impressions)
}

func TestRecordInteractionCapsAtRemainingBalance(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	adv := seedAdvertiser(t, db, "acme")
	ad := seedAd(t, db, adv.ID, 100, models.ProfileRatings{})
	seedSnapshot(t, db, "0xwallet", models.ProfileRatings{})

	result, err := ledger.RecordInteraction(ad.ID, "0xwallet", 150)
	require.NoError(t, err)
	assert.False(t, result.AlreadyRecorded)
	assert.Equal(t, 100.0, result.Amount)
	assert.Equal(t, 0.0, result.RemainingBalance)

	var got models.Ad
	require.NoError(t, db.First(&got, ad.ID).Error)
	assert.Equal(t, 0.0, got.RemainingBalance)
	assert.Equal(t, 100.0, got.TotalBalance)
	assert.Equal(t, int64(1), got.Interactions)

	var snap models.PortfolioSnapshot
	require.NoError(t, db.Where("wallet_address = ?", "0xwallet").First(&snap).Error)
	assert.Equal(t, 100.0, snap.EarnedRewards)
}

func TestRecordInteractionIdempotent(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	adv := seedAdvertiser(t, db, "acme")
	ad := seedAd(t, db, adv.ID, 100, models.ProfileRatings{})
	seedSnapshot(t, db, "0xwallet", models.ProfileRatings{})

	_, err := ledger.RecordInteraction(ad.ID, "0xwallet", 10)
	require.NoError(t, err)

	// Retry changes nothing: no balance move, no reward credit, no new row.
	result, err := ledger.RecordInteraction(ad.ID, "0xwallet", 10)
	require.NoError(t, err)
	assert.True(t, result.AlreadyRecorded)

	var got models.Ad
	require.NoError(t, db.First(&got, ad.ID).Error)
	assert.Equal(t, 90.0, got.RemainingBalance)
	assert.Equal(t, int64(1), got.Interactions)

	var snap models.PortfolioSnapshot
	require.NoError(t, db.Where("wallet_address = ?", "0xwallet").First(&snap).Error)
	assert.Equal(t, 10.0, snap.EarnedRewards)

	var count int64
	require.NoError(t, db.Model(&models.AdInteraction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordInteractionExhaustedBudget(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	adv := seedAdvertiser(t, db, "acme")
	ad := seedAd(t, db, adv.ID, 1, models.ProfileRatings{})

	result, err := ledger.RecordInteraction(ad.ID, "0xfirst", 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Amount)

	// The budget is gone; the next wallet gets a clean refusal, never a
	// negative balance.
	_, err = ledger.RecordInteraction(ad.ID, "0xsecond", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientBudget)

	var got models.Ad
	require.NoError(t, db.First(&got, ad.ID).Error)
	assert.Equal(t, 0.0, got.RemainingBalance)
}

func TestRecordInteractionUnknownAd(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)

	_, err := ledger.RecordInteraction(42, "0xwallet", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordInteractionZeroRequest(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	adv := seedAdvertiser(t, db, "acme")
	ad := seedAd(t, db, adv.ID, 100, models.ProfileRatings{})

	_, err := ledger.RecordInteraction(ad.ID, "0xwallet", 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientBudget)

	// Nothing written.
	var count int64
	require.NoError(t, db.Model(&models.AdInteraction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordInteractionWithoutSnapshot(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	adv := seedAdvertiser(t, db, "acme")
	ad := seedAd(t, db, adv.ID, 100, models.ProfileRatings{})

	// A wallet that was never scored still consumes budget; there is just no
	// snapshot to credit.
	result, err := ledger.RecordInteraction(ad.ID, "0xunknown", 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.Amount)

	var got models.Ad
	require.NoError(t, db.First(&got, ad.ID).Error)
	assert.Equal(t, 95.0, got.RemainingBalance)
}

func TestInteractionConservation(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	adv := seedAdvertiser(t, db, "acme")
	ad := seedAd(t, db, adv.ID, 50, models.ProfileRatings{})

	wallets := []string{"0xa", "0xb", "0xc", "0xd"}
	for _, w := range wallets {
		_, err := ledger.RecordInteraction(ad.ID, w, 15)
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientBudget)
		}
	}

	var got models.Ad
	require.NoError(t, db.First(&got, ad.ID).Error)

	var sum float64
	require.NoError(t, db.Model(&models.AdInteraction{}).
		Where("ad_id = ?", ad.ID).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error)

	// total - remaining always equals the sum of charged amounts.
	assert.InDelta(t, got.TotalBalance-got.RemainingBalance, sum, 1e-9)
	assert.GreaterOrEqual(t, got.RemainingBalance, 0.0)
}
