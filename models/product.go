package models

import "time"

// Product is a catalogue entry. Orders copy title and price at checkout.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Price       float64        `gorm:"not null" json:"price"`
	Images      []string       `gorm:"serializer:json" json:"images"`
	ImageURL    string         `json:"imageUrl"` // mirrors Images[0]
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"index" json:"category"` // denormalised category name
	CategoryID  *uint          `gorm:"index" json:"categoryId"`
	Sizes       []string       `gorm:"serializer:json" json:"sizes"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	Attributes  map[string]any `gorm:"serializer:json" json:"attributes"`
	Active      bool           `gorm:"not null;index" json:"active"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Category groups products. Deleting one leaves products untouched.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `json:"description"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// WishlistItem marks a product saved by a user
type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"userId"`
	ProductID string    `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for the WishlistItem model
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
