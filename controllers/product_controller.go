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

// ProductQuery holds the public catalogue filters
type ProductQuery struct {
	Category string `form:"category"`
	Q        string `form:"q"`
	Size     string `form:"size" binding:"omitempty,size"`
	Page     string `form:"page"`
	Limit    string `form:"limit"`
}

// ProductRequest is the body of admin product create and update
type ProductRequest struct {
	Title       string         `json:"title"`
	Price       *float64       `json:"price"`
	CategoryID  *uint          `json:"categoryId"`
	Category    string         `json:"category"`
	Description *string        `json:"description"`
	Stock       *int           `json:"stock" binding:"omitempty,gte=0"`
	ImageURL    string         `json:"imageUrl"`
	Images      []string       `json:"images"`
	Sizes       []string       `json:"sizes"`
	Attributes  map[string]any `json:"attributes"`
	Active      *bool          `json:"active"`
}

// ListProducts handles GET /api/v1/products - active products, paginated
func ListProducts(c *gin.Context) {
	var q ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondValidationError(c, "Invalid product filter", err)
		return
	}
	page, limit := utils.ParsePagination(q.Page, q.Limit)

	db := config.GetDB()
	scope := func() *gorm.DB {
		query := db.WithContext(c.Request.Context()).Model(&models.Product{}).Where("active = ?", true)
		if category := strings.TrimSpace(q.Category); category != "" {
			query = query.Where("LOWER(category) = ?", strings.ToLower(category))
		}
		if term := strings.ToLower(strings.TrimSpace(q.Q)); term != "" {
			pattern := "%" + term + "%"
			query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		}
		if q.Size != "" {
			query = query.Where("sizes LIKE ?", `%"`+strings.ToUpper(strings.TrimSpace(q.Size))+`"%`)
		}
		return query
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		respondDatabaseError(c, "Failed to count products", err)
		return
	}

	var products []models.Product
	err := scope().
		Order("created_at DESC").
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		respondDatabaseError(c, "Failed to fetch products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"data":       products,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// GetProduct handles GET /api/v1/products/:idOrSlug
func GetProduct(c *gin.Context) {
	product, err := services.FindProduct(c.Request.Context(), config.GetDB(), c.Param("idOrSlug"), true)
	if err != nil {
		respondProductLookupError(c, err)
		return
	}

	utils.RespondOK(c, http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/admin/products
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Invalid product data", err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Title is required")
		return
	}
	if req.Price == nil || *req.Price <= 0 {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Price must be greater than zero")
		return
	}

	db := config.GetDB()
	ctx := c.Request.Context()

	product := models.Product{
		Title:      title,
		Price:      *req.Price,
		Category:   strings.TrimSpace(req.Category),
		Sizes:      utils.NormalizeSizes(req.Sizes),
		Attributes: req.Attributes,
		Active:     req.Active == nil || *req.Active,
	}
	if product.Attributes == nil {
		product.Attributes = map[string]any{}
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	product.Images, product.ImageURL = normalizeImages(req.Images, req.ImageURL)

	if req.CategoryID != nil {
		if !applyCategory(c, db, &product, *req.CategoryID) {
			return
		}
	}

	slug, err := services.UniqueProductSlug(ctx, db, title, 0)
	if err != nil {
		respondDatabaseError(c, "Failed to create product", err)
		return
	}
	product.Slug = slug

	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		if services.IsUniqueViolation(err) {
			utils.RespondError(c, http.StatusConflict, "PRODUCT_EXISTS", "A product with this slug already exists")
			return
		}
		respondDatabaseError(c, "Failed to create product", err)
		return
	}

	utils.RespondOK(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/admin/products/:id. Absent fields are
// kept; a changed title regenerates the slug.
func UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Invalid product data", err)
		return
	}

	db := config.GetDB()
	ctx := c.Request.Context()

	var product models.Product
	if err := db.WithContext(ctx).First(&product, id).Error; err != nil {
		respondProductLookupError(c, err)
		return
	}

	if title := strings.TrimSpace(req.Title); title != "" && title != product.Title {
		slug, err := services.UniqueProductSlug(ctx, db, title, product.ID)
		if err != nil {
			respondDatabaseError(c, "Failed to update product", err)
			return
		}
		product.Title = title
		product.Slug = slug
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Price must be greater than zero")
			return
		}
		product.Price = *req.Price
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Sizes != nil {
		product.Sizes = utils.NormalizeSizes(req.Sizes)
	}
	if req.Attributes != nil {
		product.Attributes = req.Attributes
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if req.Images != nil || req.ImageURL != "" {
		product.Images, product.ImageURL = normalizeImages(req.Images, req.ImageURL)
	}
	if req.CategoryID != nil {
		if !applyCategory(c, db, &product, *req.CategoryID) {
			return
		}
	} else if category := strings.TrimSpace(req.Category); category != "" {
		product.Category = category
	}

	if err := db.WithContext(ctx).Save(&product).Error; err != nil {
		if services.IsUniqueViolation(err) {
			utils.RespondError(c, http.StatusConflict, "PRODUCT_EXISTS", "A product with this slug already exists")
			return
		}
		respondDatabaseError(c, "Failed to update product", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id
func DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := config.GetDB().WithContext(c.Request.Context()).Delete(&models.Product{}, id)
	if result.Error != nil {
		respondDatabaseError(c, "Failed to delete product", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// normalizeImages keeps imageUrl and images[0] in step
func normalizeImages(images []string, imageURL string) ([]string, string) {
	out := make([]string, 0, len(images)+1)
	for _, image := range images {
		if image = strings.TrimSpace(image); image != "" {
			out = append(out, image)
		}
	}
	imageURL = strings.TrimSpace(imageURL)
	if len(out) == 0 && imageURL != "" {
		out = append(out, imageURL)
	}
	if len(out) > 0 {
		imageURL = out[0]
	}
	return out, imageURL
}

// applyCategory resolves categoryId and copies the category name onto the
// product; it responds 400 itself when the category does not exist
func applyCategory(c *gin.Context, db *gorm.DB, product *models.Product, categoryID uint) bool {
	var category models.Category
	err := db.WithContext(c.Request.Context()).First(&category, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusBadRequest, "CATEGORY_NOT_FOUND", "Category not found")
		return false
	}
	if err != nil {
		respondDatabaseError(c, "Failed to load category", err)
		return false
	}
	product.CategoryID = &category.ID
	product.Category = category.Name
	return true
}

func respondProductLookupError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}
	respondDatabaseError(c, "Failed to load product", err)
}
