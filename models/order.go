package models

import (
	"strings"
	"time"
)

// PaymentMethod is how the customer pays for an order
type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "COD"
	PaymentUPI PaymentMethod = "UPI"
)

// ParsePaymentMethod accepts "cod"/"upi" in any case
func ParsePaymentMethod(value string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(value))) {
	case PaymentCOD:
		return PaymentCOD, true
	case PaymentUPI:
		return PaymentUPI, true
	}
	return "", false
}

// Order is one purchase. Customer fields and items are a snapshot taken at
// checkout and are never re-read from users or products.
type Order struct {
	ID            string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        *uint         `gorm:"index" json:"userId"` // nullable, guest checkout
	Name          string        `gorm:"not null" json:"name"`
	Phone         string        `gorm:"not null" json:"phone"`
	Address       string        `gorm:"type:text;not null" json:"address"`
	City          string        `gorm:"not null;default:''" json:"city"`
	State         string        `gorm:"not null;default:''" json:"state"`
	Pincode       string        `gorm:"not null;default:''" json:"pincode"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(8);not null;index" json:"paymentMethod"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total         float64       `gorm:"not null;default:0" json:"total"` // sum of price*qty at creation, never recomputed
	Status        OrderStatus   `gorm:"type:varchar(32);not null;index" json:"status"`
	UPI           *UPIProof     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"upi,omitempty"`
	CreatedAt     time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsGuest reports whether the order was placed without an account
func (o Order) IsGuest() bool {
	return o.UserID == nil
}

// IsOwnedBy reports whether the order belongs to the given user
func (o Order) IsOwnedBy(userID uint) bool {
	return o.UserID != nil && *o.UserID == userID
}

// OrderItem is one line of an order
type OrderItem struct {
	ID        uint              `gorm:"primaryKey" json:"-"`
	OrderID   string            `gorm:"type:varchar(36);not null;index" json:"-"`
	Position  int               `gorm:"not null" json:"-"`
	ProductID string            `json:"productId"` // may reference a product or be freeform
	Title     string            `json:"title"`
	Price     float64           `gorm:"not null" json:"price"`
	Qty       int               `gorm:"not null;check:qty > 0" json:"qty"`
	Image     string            `json:"image"`
	Variant   map[string]string `gorm:"serializer:json" json:"variant,omitempty"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// UPIProof is the customer-supplied evidence of a UPI transfer
type UPIProof struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	OrderID       string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"-"`
	PayerName     string    `json:"payerName"`
	TransactionID string    `gorm:"index" json:"transactionId"`
	PaidAmount    *float64  `json:"paidAmount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the UPIProof model
func (UPIProof) TableName() string {
	return "order_upi_proofs"
}
