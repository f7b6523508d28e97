package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"adchain/internal/domain"
	"adchain/internal/middleware"
	"adchain/internal/models"
	"adchain/internal/repository"
	"adchain/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdHandler struct {
	adRepo *repository.AdRepository
	cloud  cloudinary.Client
}

func NewAdHandler(adRepo *repository.AdRepository, cloud cloudinary.Client) *AdHandler {
	return &AdHandler{adRepo: adRepo, cloud: cloud}
}

// Create funds a new ad up front. The total balance is immutable afterwards;
// the remaining balance starts equal to it and only ever decreases.
func (h *AdHandler) Create(c *gin.Context) {
	advertiserID := middleware.GetAdvertiserID(c)
	var req struct {
		Name             string                `json:"name" binding:"required"`
		ShortDescription string                `json:"short_description"`
		Body             string                `json:"body"`
		TotalBalance     float64               `json:"total_balance" binding:"required,gt=0"`
		DesiredProfile   models.ProfileRatings `json:"desired_profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.DesiredProfile.Clamp()
	ad := &models.Ad{
		AdvertiserID:     advertiserID,
		Name:             req.Name,
		ShortDescription: req.ShortDescription,
		Body:             req.Body,
		TotalBalance:     req.TotalBalance,
		RemainingBalance: req.TotalBalance,
		DesiredProfile:   req.DesiredProfile,
	}
	if err := h.adRepo.Create(ad); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, ad)
}

func (h *AdHandler) ListMine(c *gin.Context) {
	advertiserID := middleware.GetAdvertiserID(c)
	list, err := h.adRepo.ListByAdvertiserID(advertiserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ads": list})
}

func (h *AdHandler) Get(c *gin.Context) {
	advertiserID := middleware.GetAdvertiserID(c)
	id, err := parseAdID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}
	ad, err := h.adRepo.GetByIDForAdvertiser(id, advertiserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	c.JSON(http.StatusOK, ad)
}

// DecrementBalance is the administrative correction path. 400 when the
// decrement would take the balance negative.
func (h *AdHandler) DecrementBalance(c *gin.Context) {
	advertiserID := middleware.GetAdvertiserID(c)
	id, err := parseAdID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}
	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.adRepo.GetByIDForAdvertiser(id, advertiserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	if err := h.adRepo.DecrementBalance(id, req.Amount); err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientBudget):
			c.JSON(http.StatusBadRequest, gin.H{"error": "balance would go negative"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		}
		return
	}
	ad, _ := h.adRepo.GetByID(id)
	c.JSON(http.StatusOK, ad)
}

// UploadMedia stores the ad creative on Cloudinary and saves the URL.
func (h *AdHandler) UploadMedia(c *gin.Context) {
	advertiserID := middleware.GetAdvertiserID(c)
	id, err := parseAdID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}
	if _, err := h.adRepo.GetByIDForAdvertiser(id, advertiserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()
	url, _, err := h.cloud.UploadImage(c.Request.Context(), file, "ad-creatives", fmt.Sprintf("ad_%d", id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	if err := h.adRepo.UpdateMediaURL(id, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"media_url": url})
}

func parseAdID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidInput
	}
	return uint(id), nil
}
