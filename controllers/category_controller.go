package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/models"
	"github.com/uni10/storefront-api/services"
	"github.com/uni10/storefront-api/utils"
	"gorm.io/gorm"
)

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// UpdateCategoryRequest represents the request body for PATCH /admin/categories/:id
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// ListCategories handles GET /api/v1/categories - active categories by name
func ListCategories(c *gin.Context) {
	var categories []models.Category
	err := config.GetDB().WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		respondDatabaseError(c, "Failed to load categories", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, categories)
}

// AdminListCategories handles GET /api/v1/admin/categories?active=&q=
func AdminListCategories(c *gin.Context) {
	query := config.GetDB().WithContext(c.Request.Context()).Model(&models.Category{})

	switch strings.ToLower(c.Query("active")) {
	case "true", "1":
		query = query.Where("active = ?", true)
	case "false", "0":
		query = query.Where("active = ?", false)
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", pattern, pattern)
	}

	var categories []models.Category
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		respondDatabaseError(c, "Failed to load categories", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, categories)
}

// CreateCategory handles POST /api/v1/admin/categories
func CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Name is required", err)
		return
	}

	name := strings.TrimSpace(req.Name)
	slug := utils.Slugify(name)
	if name == "" || slug == "" {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name is required")
		return
	}

	category := models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		Active:      req.Active == nil || *req.Active,
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		if services.IsUniqueViolation(err) {
			utils.RespondError(c, http.StatusConflict, "CATEGORY_EXISTS", "Category already exists")
			return
		}
		respondDatabaseError(c, "Failed to create category", err)
		return
	}

	utils.RespondOK(c, http.StatusCreated, category)
}

// UpdateCategory handles PATCH /api/v1/admin/categories/:id. Renaming
// regenerates the slug; products keep their denormalised category name.
func UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Invalid request data", err)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		slug := utils.Slugify(name)
		if name == "" || slug == "" {
			utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name is required")
			return
		}
		updates["name"] = name
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No updates provided")
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		respondCategoryLookupError(c, err)
		return
	}

	if err := db.Model(&category).Updates(updates).Error; err != nil {
		if services.IsUniqueViolation(err) {
			utils.RespondError(c, http.StatusConflict, "CATEGORY_EXISTS", "Category already exists")
			return
		}
		respondDatabaseError(c, "Failed to update category", err)
		return
	}
	if err := db.First(&category, id).Error; err != nil {
		respondDatabaseError(c, "Failed to load category", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/v1/admin/categories/:id (hard delete)
func DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		respondCategoryLookupError(c, err)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		respondDatabaseError(c, "Failed to delete category", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"id": category.ID, "deleted": true})
}

func respondCategoryLookupError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found")
		return
	}
	respondDatabaseError(c, "Failed to load category", err)
}
