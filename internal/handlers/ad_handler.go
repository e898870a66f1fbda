package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdHandler handles ad-related HTTP requests
type AdHandler struct {
	adService services.AdService
}

// NewAdHandler creates a new AdHandler
func NewAdHandler(adService services.AdService) *AdHandler {
	return &AdHandler{
		adService: adService,
	}
}

// CreateAd handles POST /ads
func (h *AdHandler) CreateAd(c *gin.Context) {
	var ad models.Ad
	if err := c.ShouldBindJSON(&ad); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adService.CreateAd(c, &ad); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ad: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ad)
}

// GetAdByID handles GET /ads/:id; ?view=true counts the read as a view
func (h *AdHandler) GetAdByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	countView := c.DefaultQuery("view", "false") == "true"

	ad, err := h.adService.GetAdByID(c, id, countView)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ad: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ad)
}

// GetAds handles GET /ads
func (h *AdHandler) GetAds(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	category := models.AdCategory(c.Query("category"))

	ads, err := h.adService.GetAds(c, category, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ads: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ads)
}

// GetFeaturedAds handles GET /ads/featured
func (h *AdHandler) GetFeaturedAds(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	ads, err := h.adService.GetFeaturedAds(c, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get featured ads: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ads)
}

// GetAdsByUser handles GET /ads/user/:userId
func (h *AdHandler) GetAdsByUser(c *gin.Context) {
	ads, err := h.adService.GetAdsByUser(c, c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ads: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ads)
}

// DeleteAd handles DELETE /ads/:id
func (h *AdHandler) DeleteAd(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.adService.DeleteAd(c, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ad: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ad deleted"})
}

// GetAdCount handles GET /ads/count
func (h *AdHandler) GetAdCount(c *gin.Context) {
	count, err := h.adService.GetAdCount(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ad count: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
