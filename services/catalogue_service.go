package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/uni10/storefront-api/models"
	"github.com/uni10/storefront-api/utils"
	"gorm.io/gorm"
)

// FindProduct looks a product up by numeric id or by slug
func FindProduct(ctx context.Context, db *gorm.DB, idOrSlug string, activeOnly bool) (*models.Product, error) {
	scope := func() *gorm.DB {
		query := db.WithContext(ctx)
		if activeOnly {
			query = query.Where("active = ?", true)
		}
		return query
	}

	var product models.Product
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		err := scope().Where("id = ?", id).First(&product).Error
		if err == nil {
			return &product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := scope().Where("slug = ?", idOrSlug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UniqueProductSlug derives a slug from title and appends -2, -3, ... while it
// collides with another product. excludeID skips the product being updated.
func UniqueProductSlug(ctx context.Context, db *gorm.DB, title string, excludeID uint) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "product"
	}

	slug := base
	for n := 2; ; n++ {
		var count int64
		query := db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
