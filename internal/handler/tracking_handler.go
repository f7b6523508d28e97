package handler

import (
	"errors"
	"net/http"

	"adchain/internal/domain"
	"adchain/internal/models"
	"adchain/internal/repository"
	"adchain/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TrackingHandler is the wallet-facing surface: serve matching ads, record
// impressions and interactions.
type TrackingHandler struct {
	adRepo        *repository.AdRepository
	portfolioRepo *repository.PortfolioRepository
	ledgerSvc     *service.LedgerService
	defaultReward float64
}

func NewTrackingHandler(
	adRepo *repository.AdRepository,
	portfolioRepo *repository.PortfolioRepository,
	ledgerSvc *service.LedgerService,
	defaultReward float64,
) *TrackingHandler {
	return &TrackingHandler{
		adRepo:        adRepo,
		portfolioRepo: portfolioRepo,
		ledgerSvc:     ledgerSvc,
		defaultReward: defaultReward,
	}
}

// Matching returns ads targeted at the wallet's current profile: budget left
// and at least one desired rating within the tolerance window.
func (h *TrackingHandler) Matching(c *gin.Context) {
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
	ads, err := h.adRepo.FindMatching(snap.Ratings, domain.MatchTolerance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "matching failed"})
		return
	}
	out := make([]gin.H, 0, len(ads))
	for _, ad := range ads {
		out = append(out, matchedAdView(ad))
	}
	c.JSON(http.StatusOK, gin.H{"ads": out})
}

func matchedAdView(ad models.Ad) gin.H {
	return gin.H{
		"id":                ad.ID,
		"name":              ad.Name,
		"short_description": ad.ShortDescription,
		"body":              ad.Body,
		"media_url":         ad.MediaURL,
		"desired_profile":   ad.DesiredProfile,
		"advertiser_name":   ad.Advertiser.DisplayName,
		"created_at":        ad.CreatedAt,
	}
}

// Impression records that the ad was shown to the wallet. Calling it again
// for the same pair is a success no-op.
func (h *TrackingHandler) Impression(c *gin.Context) {
	adID, err := parseAdID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}
	wallet := c.Query("walletAddress")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	result, err := h.ledgerSvc.TrackImpression(adID, wallet)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impression failed"})
		return
	}
	if result.AlreadyRecorded {
		c.JSON(http.StatusOK, gin.H{"message": "impression already recorded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "impression recorded"})
}

// Interaction records a billable click, consuming the ad's budget and
// crediting the wallet. The requested amount is capped by the remaining
// balance; a duplicate call reports alreadyInteracted with no further effect.
func (h *TrackingHandler) Interaction(c *gin.Context) {
	adID, err := parseAdID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}
	wallet := c.Query("walletAddress")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	req := struct {
		Amount *float64 `json:"amount"`
	}{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
	}
	amount := h.defaultReward
	if req.Amount != nil {
		amount = *req.Amount
	}
	result, err := h.ledgerSvc.TrackInteraction(adID, wallet, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
		case errors.Is(err, domain.ErrInsufficientBudget):
			c.JSON(http.StatusBadRequest, gin.H{"error": "ad budget exhausted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "interaction failed"})
		}
		return
	}
	if result.AlreadyRecorded {
		c.JSON(http.StatusOK, gin.H{"success": true, "alreadyInteracted": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "amount": result.Amount})
}
