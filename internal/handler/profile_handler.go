package handler

import (
	"errors"
	"net/http"
	"strconv"

	"adchain/internal/repository"
	"adchain/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	profileSvc    *service.ProfileService
	portfolioRepo *repository.PortfolioRepository
}

func NewProfileHandler(profileSvc *service.ProfileService, portfolioRepo *repository.PortfolioRepository) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, portfolioRepo: portfolioRepo}
}

// Refresh pulls fresh data from the portfolio provider, scores the wallet and
// stores a new snapshot.
func (h *ProfileHandler) Refresh(c *gin.Context) {
	wallet := c.Query("walletAddress")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	snap, err := h.profileSvc.Refresh(c.Request.Context(), wallet)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "portfolio refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet_address":  snap.WalletAddress,
		"profile_ratings": snap.Ratings,
		"monthly_volume":  snap.MonthlyVolumeBuckets(),
		"earned_rewards":  snap.EarnedRewards,
		"created_at":      snap.CreatedAt,
	})
}

// Get returns the wallet's current profile: ratings, the 12-month volume
// histogram (oldest month first) and accumulated rewards.
func (h *ProfileHandler) Get(c *gin.Context) {
	wallet := c.Query("walletAddress")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	snap, err := h.portfolioRepo.GetLatestByWallet(wallet)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no profile found for wallet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet_address":  snap.WalletAddress,
		"profile_ratings": snap.Ratings,
		"net_worth":       snap.NetWorth,
		"defi_value":      snap.DefiValue,
		"token_value":     snap.TokenValue,
		"monthly_volume":  snap.MonthlyVolumeBuckets(),
		"earned_rewards":  snap.EarnedRewards,
		"created_at":      snap.CreatedAt,
	})
}

// History returns the wallet's snapshot history, newest first, so dashboards
// can chart how the ratings moved over time.
func (h *ProfileHandler) History(c *gin.Context) {
	wallet := c.Query("walletAddress")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	limit := 30
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	snaps, err := h.portfolioRepo.ListByWallet(wallet, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history lookup failed"})
		return
	}
	out := make([]gin.H, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, gin.H{
			"profile_ratings": snap.Ratings,
			"net_worth":       snap.NetWorth,
			"earned_rewards":  snap.EarnedRewards,
			"created_at":      snap.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"wallet_address": wallet, "snapshots": out})
}
