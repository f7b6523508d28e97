package handler

import (
	"net/http"
	"time"

	"adchain/internal/middleware"
	"adchain/internal/models"
	"adchain/internal/repository"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsRepo *repository.AnalyticsRepository
	portfolioRepo *repository.PortfolioRepository
}

func NewAnalyticsHandler(analyticsRepo *repository.AnalyticsRepository, portfolioRepo *repository.PortfolioRepository) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsRepo: analyticsRepo, portfolioRepo: portfolioRepo}
}

// Overview is the advertiser dashboard rollup: totals, a dense 30-day series,
// top-5 ads by interaction rate, and the mean profile of the matched
// audience. All zeroed, never an error, when there is nothing to show yet.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	advertiserID := middleware.GetAdvertiserID(c)

	totals, err := h.analyticsRepo.Totals(advertiserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics failed"})
		return
	}
	series, err := h.analyticsRepo.DailySeries(advertiserID, 30, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics failed"})
		return
	}
	topAds, err := h.analyticsRepo.TopAds(advertiserID, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics failed"})
		return
	}
	wallets, err := h.analyticsRepo.AudienceWallets(advertiserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics failed"})
		return
	}
	snaps, err := h.portfolioRepo.LatestForWallets(wallets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics failed"})
		return
	}

	top := make([]gin.H, 0, len(topAds))
	for _, ad := range topAds {
		top = append(top, gin.H{
			"id":               ad.ID,
			"name":             ad.Name,
			"impressions":      ad.Impressions,
			"interactions":     ad.Interactions,
			"interaction_rate": ad.InteractionRate(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"totals":           totals,
		"daily":            series,
		"top_ads":          top,
		"audience_profile": meanRatings(snaps),
		"audience_size":    len(snaps),
	})
}

// meanRatings averages each dimension across the audience's current
// snapshots; zeros when the audience is empty.
func meanRatings(snaps []models.PortfolioSnapshot) models.ProfileRatings {
	var mean models.ProfileRatings
	if len(snaps) == 0 {
		return mean
	}
	for _, s := range snaps {
		mean.Whale += s.Ratings.Whale
		mean.Hodler += s.Ratings.Hodler
		mean.Flipper += s.Ratings.Flipper
		mean.DefiUser += s.Ratings.DefiUser
		mean.Experienced += s.Ratings.Experienced
	}
	n := float64(len(snaps))
	mean.Whale /= n
	mean.Hodler /= n
	mean.Flipper /= n
	mean.DefiUser /= n
	mean.Experienced /= n
	return mean
}
