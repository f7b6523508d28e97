package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adchain/internal/models"
	"gorm.io/gorm"
)

func TestGetLatestByWallet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPortfolioRepository(db)

	older := seedSnapshot(t, db, "0xwallet", models.ProfileRatings{Whale: 10})
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	seedSnapshot(t, db, "0xwallet", models.ProfileRatings{Whale: 20})
	seedSnapshot(t, db, "0xother", models.ProfileRatings{Whale: 99})

	snap, err := repo.GetLatestByWallet("0xwallet")
	require.NoError(t, err)
	assert.Equal(t, 20.0, snap.Ratings.Whale)
}

func TestGetLatestByWalletMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewPortfolioRepository(db)

	_, err := repo.GetLatestByWallet("0xnobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByWallet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPortfolioRepository(db)

	for i, whale := range []float64{10, 20, 30} {
		snap := seedSnapshot(t, db, "0xwallet", models.ProfileRatings{Whale: whale})
		require.NoError(t, db.Model(snap).
			Update("created_at", time.Now().Add(time.Duration(i-3)*time.Hour)).Error)
	}
	seedSnapshot(t, db, "0xother", models.ProfileRatings{Whale: 99})

	snaps, err := repo.ListByWallet("0xwallet", 10)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	// Newest first.
	assert.Equal(t, 30.0, snaps[0].Ratings.Whale)
	assert.Equal(t, 10.0, snaps[2].Ratings.Whale)

	limited, err := repo.ListByWallet("0xwallet", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, 30.0, limited[0].Ratings.Whale)
}

func TestLatestForWalletsSkipsUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewPortfolioRepository(db)

	seedSnapshot(t, db, "0xa", models.ProfileRatings{Whale: 10})
	seedSnapshot(t, db, "0xb", models.ProfileRatings{Whale: 30})

	snaps, err := repo.LatestForWallets([]string{"0xa", "0xmissing", "0xb"})
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestMonthlyVolumeRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPortfolioRepository(db)

	snap := &models.PortfolioSnapshot{WalletAddress: "0xwallet"}
	require.NoError(t, snap.SetMonthlyVolume([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}))
	require.NoError(t, repo.Create(snap))

	got, err := repo.GetLatestByWallet("0xwallet")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, got.MonthlyVolumeBuckets())
}

func TestMonthlyVolumeBucketsCorrupt(t *testing.T) {
	snap := &models.PortfolioSnapshot{MonthlyVolume: "not json"}
	assert.Equal(t, make([]int, 12), snap.MonthlyVolumeBuckets())
}
