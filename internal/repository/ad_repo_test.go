package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adchain/internal/domain"
	"adchain/internal/models"
)

// far is a desired profile that matches nothing for a wallet with all-zero
// ratings except the dimension under test.
var far = models.ProfileRatings{Whale: 99, Hodler: 99, Flipper: 99, DefiUser: 99, Experienced: 99}

func TestFindMatchingWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdRepository(db)
	adv := seedAdvertiser(t, db, "acme")

	wallet := models.ProfileRatings{Whale: 50, Hodler: 0, Flipper: 0, DefiUser: 0, Experienced: 0}

	inside := far
	inside.Whale = 60
	boundary := far
	boundary.Whale = 40
	outside := far
	outside.Whale = 61

	adInside := seedAd(t, db, adv.ID, 100, inside)
	adBoundary := seedAd(t, db, adv.ID, 100, boundary)
	seedAd(t, db, adv.ID, 100, outside)

	ads, err := repo.FindMatching(wallet, domain.MatchTolerance)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	ids := []uint{ads[0].ID, ads[1].ID}
	assert.Contains(t, ids, adInside.ID)
	assert.Contains(t, ids, adBoundary.ID)
}

func TestFindMatchingOrSemantics(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdRepository(db)
	adv := seedAdvertiser(t, db, "acme")

	wallet := models.ProfileRatings{Whale: 0, Hodler: 0, Flipper: 0, DefiUser: 80, Experienced: 0}

	// Four dimensions far away; defi_user alone inside the window.
	desired := far
	desired.DefiUser = 72
	ad := seedAd(t, db, adv.ID, 100, desired)

	ads, err := repo.FindMatching(wallet, domain.MatchTolerance)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, ad.ID, ads[0].ID)
}

func TestFindMatchingSkipsExhaustedBudget(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdRepository(db)
	adv := seedAdvertiser(t, db, "acme")

	wallet := models.ProfileRatings{Whale: 50}
	desired := models.ProfileRatings{Whale: 50}

	drained := seedAd(t, db, adv.ID, 100, desired)
	require.NoError(t, db.Model(drained).Update("remaining_balance", 0).Error)
	active := seedAd(t, db, adv.ID, 100, desired)

	ads, err := repo.FindMatching(wallet, domain.MatchTolerance)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, active.ID, ads[0].ID)
}

func TestFindMatchingNewestFirstWithAdvertiser(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdRepository(db)
	adv := seedAdvertiser(t, db, "acme")

	desired := models.ProfileRatings{Whale: 50}
	older := seedAd(t, db, adv.ID, 100, desired)
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer := seedAd(t, db, adv.ID, 100, desired)

	ads, err := repo.FindMatching(models.ProfileRatings{Whale: 50}, domain.MatchTolerance)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, newer.ID, ads[0].ID)
	assert.Equal(t, older.ID, ads[1].ID)
	assert.Equal(t, "acme", ads[0].Advertiser.DisplayName)
}

func TestFindMatchingEmptyResult(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdRepository(db)

	ads, err := repo.FindMatching(models.ProfileRatings{Whale: 50}, domain.MatchTolerance)
	require.NoError(t, err)
	assert.Empty(t, ads)
}

func TestDecrementBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdRepository(db)
	adv := seedAdvertiser(t, db, "acme")
	ad := seedAd(t, db, adv.ID, 100, models.ProfileRatings{})

	require.NoError(t, repo.DecrementBalance(ad.ID, 40))

	var got models.Ad
	require.NoError(t, db.First(&got, ad.ID).Error)
	assert.Equal(t, 60.0, got.RemainingBalance)

	// Overdraw is refused, balance untouched.
	err := repo.DecrementBalance(ad.ID, 61)
	assert.ErrorIs(t, err, domain.ErrInsufficientBudget)
	require.NoError(t, db.First(&got, ad.ID).Error)
	assert.Equal(t, 60.0, got.RemainingBalance)
}

func TestDecrementBalanceUnknownAd(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdRepository(db)
	assert.ErrorIs(t, repo.DecrementBalance(123, 10), domain.ErrNotFound)
}

func TestDecrementBalanceRejectsNonPositive(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdRepository(db)
	assert.ErrorIs(t, repo.DecrementBalance(1, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, repo.DecrementBalance(1, -5), domain.ErrInvalidInput)
}
