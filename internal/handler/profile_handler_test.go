package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"adchain/internal/models"
	"adchain/internal/repository"
)

func newHistoryRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	f := newTrackingFixture(t)
	h := NewProfileHandler(nil, repository.NewPortfolioRepository(f.db))
	r := gin.New()
	r.GET("/api/v1/profiles/history", h.History)
	return r, f.db
}

func TestHistoryRequiresWallet(t *testing.T) {
	r, _ := newHistoryRouter(t)
	f := &trackingFixture{router: r}
	w, _ := f.do(t, http.MethodGet, "/api/v1/profiles/history", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	r, _ := newHistoryRouter(t)
	f := &trackingFixture{router: r}
	w, _ := f.do(t, http.MethodGet, "/api/v1/profiles/history?walletAddress=0xwallet&limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = f.do(t, http.MethodGet, "/api/v1/profiles/history?walletAddress=0xwallet&limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryNewestFirst(t *testing.T) {
	r, db := newHistoryRouter(t)
	f := &trackingFixture{router: r}

	older := &models.PortfolioSnapshot{
		WalletAddress: "0xwallet",
		Ratings:       models.ProfileRatings{Whale: 10},
	}
	require.NoError(t, db.Create(older).Error)
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer := &models.PortfolioSnapshot{
		WalletAddress: "0xwallet",
		Ratings:       models.ProfileRatings{Whale: 20},
	}
	require.NoError(t, db.Create(newer).Error)

	w, out := f.do(t, http.MethodGet, "/api/v1/profiles/history?walletAddress=0xwallet", "")
	require.Equal(t, http.StatusOK, w.Code)
	snaps := out["snapshots"].([]interface{})
	require.Len(t, snaps, 2)
	first := snaps[0].(map[string]interface{})["profile_ratings"].(map[string]interface{})
	assert.Equal(t, 20.0, first["whale"])
}

func TestHistoryEmptyWallet(t *testing.T) {
	r, _ := newHistoryRouter(t)
	f := &trackingFixture{router: r}
	w, out := f.do(t, http.MethodGet, "/api/v1/profiles/history?walletAddress=0xnobody", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, out["snapshots"])
}
