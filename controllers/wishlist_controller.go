package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/models"
	"github.com/uni10/storefront-api/services"
	"github.com/uni10/storefront-api/utils"
)

// AddWishlistRequest represents the request body for saving a product
type AddWishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// ListWishlist handles GET /api/v1/wishlist
func ListWishlist(c *gin.Context) {
	db := config.GetDB()
	user := requireUser(c, db)
	if user == nil {
		return
	}

	var items []models.WishlistItem
	err := db.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		respondDatabaseError(c, "Failed to load wishlist", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, items)
}

// AddToWishlist handles POST /api/v1/wishlist
func AddToWishlist(c *gin.Context) {
	var req AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Product id is required", err)
		return
	}
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Product id is required")
		return
	}

	db := config.GetDB()
	user := requireUser(c, db)
	if user == nil {
		return
	}

	item := models.WishlistItem{UserID: user.ID, ProductID: productID}
	if err := db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		if services.IsUniqueViolation(err) {
			utils.RespondError(c, http.StatusConflict, "ALREADY_IN_WISHLIST", "Product is already in your wishlist")
			return
		}
		respondDatabaseError(c, "Failed to update wishlist", err)
		return
	}

	utils.RespondOK(c, http.StatusCreated, item)
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/:productId
func RemoveFromWishlist(c *gin.Context) {
	db := config.GetDB()
	user := requireUser(c, db)
	if user == nil {
		return
	}

	result := db.WithContext(c.Request.Context()).
		Where("user_id = ? AND product_id = ?", user.ID, c.Param("productId")).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		respondDatabaseError(c, "Failed to update wishlist", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "NOT_IN_WISHLIST", "Product is not in your wishlist")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"productId": c.Param("productId"), "removed": true})
}
