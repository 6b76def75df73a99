package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uni10/storefront-api/models"
	"gorm.io/gorm"
)

// totalTolerance absorbs client-side float rounding when comparing totals
var totalTolerance = decimal.New(5, -3)

// CheckoutItem is one submitted line item
type CheckoutItem struct {
	ProductID string            `json:"productId"`
	Title     string            `json:"title"`
	Price     float64           `json:"price" binding:"gte=0"`
	Qty       int               `json:"qty" binding:"gt=0"`
	Image     string            `json:"image"`
	Variant   map[string]string `json:"variant"`
}

// UPIPayload carries the payer details of a UPI checkout
type UPIPayload struct {
	PayerName     string `json:"payerName"`
	TransactionID string `json:"transactionId"`
}

// CheckoutRequest is the body of POST /orders. The payment fields form a
// union on PaymentMethod and are resolved by Validate.
type CheckoutRequest struct {
	Name          string         `json:"name" binding:"required"`
	Phone         string         `json:"phone" binding:"required"`
	Address       string         `json:"address" binding:"required"`
	City          string         `json:"city"`
	State         string         `json:"state"`
	Pincode       string         `json:"pincode"`
	PaymentMethod string         `json:"paymentMethod" binding:"required,payment_method"`
	Items         []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	Total         *float64       `json:"total"`
	UPI           *UPIPayload    `json:"upi"`
	PayerName     string         `json:"payerName"`
	TransactionID string         `json:"transactionId"`
}

// PaymentDetails is the validated payment branch of a checkout
type PaymentDetails interface {
	Method() models.PaymentMethod
}

// CODPayment needs no extra data
type CODPayment struct{}

func (CODPayment) Method() models.PaymentMethod { return models.PaymentCOD }

// UPIPayment always has a payer name; the transaction id may follow later
type UPIPayment struct {
	PayerName     string
	TransactionID string
}

func (UPIPayment) Method() models.PaymentMethod { return models.PaymentUPI }

// Customer is the shipping snapshot copied onto the order
type Customer struct {
	Name    string
	Phone   string
	Address string
	City    string
	State   string
	Pincode string
}

// Checkout is a validated checkout submission
type Checkout struct {
	Customer    Customer
	Payment     PaymentDetails
	Items       []CheckoutItem
	ClientTotal *float64
}

// ValidationError is a checkout problem reported to the client as 400
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate trims the submission and resolves the payment union
func (r CheckoutRequest) Validate() (*Checkout, error) {
	customer := Customer{
		Name:    strings.TrimSpace(r.Name),
		Phone:   strings.TrimSpace(r.Phone),
		Address: strings.TrimSpace(r.Address),
		City:    strings.TrimSpace(r.City),
		State:   strings.TrimSpace(r.State),
		Pincode: strings.TrimSpace(r.Pincode),
	}
	if customer.Name == "" || customer.Phone == "" || customer.Address == "" {
		return nil, &ValidationError{Code: "VALIDATION_ERROR", Message: "Name, phone and address are required"}
	}

	if len(r.Items) == 0 {
		return nil, &ValidationError{Code: "VALIDATION_ERROR", Message: "At least one item is required"}
	}
	for _, item := range r.Items {
		if item.Qty < 1 {
			return nil, &ValidationError{Code: "VALIDATION_ERROR", Message: "Item quantity must be at least 1"}
		}
		if item.Price < 0 {
			return nil, &ValidationError{Code: "VALIDATION_ERROR", Message: "Item price cannot be negative"}
		}
	}

	method, ok := models.ParsePaymentMethod(r.PaymentMethod)
	if !ok {
		return nil, &ValidationError{Code: "INVALID_PAYMENT_METHOD", Message: "Payment method must be COD or UPI"}
	}

	var payment PaymentDetails = CODPayment{}
	if method == models.PaymentUPI {
		upi := UPIPayment{
			PayerName:     strings.TrimSpace(r.PayerName),
			TransactionID: strings.TrimSpace(r.TransactionID),
		}
		if r.UPI != nil {
			if name := strings.TrimSpace(r.UPI.PayerName); name != "" {
				upi.PayerName = name
			}
			if txn := strings.TrimSpace(r.UPI.TransactionID); txn != "" {
				upi.TransactionID = txn
			}
		}
		if upi.PayerName == "" {
			return nil, &ValidationError{Code: "PAYER_NAME_REQUIRED", Message: "Payer name is required for UPI payments"}
		}
		payment = upi
	}

	items := make([]CheckoutItem, len(r.Items))
	for i, item := range r.Items {
		item.ProductID = strings.TrimSpace(item.ProductID)
		item.Title = strings.TrimSpace(item.Title)
		items[i] = item
	}

	return &Checkout{
		Customer:    customer,
		Payment:     payment,
		Items:       items,
		ClientTotal: r.Total,
	}, nil
}

// ItemsTotal sums price*qty with decimal arithmetic, rounded to paise
func ItemsTotal(items []CheckoutItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Qty)))
		total = total.Add(line)
	}
	return total.Round(2)
}

// BuildOrder turns a validated checkout into an order ready to insert.
// The stored total is always the computed sum; a client total that disagrees is rejected.
func BuildOrder(checkout *Checkout, userID *uint) (*models.Order, error) {
	total := ItemsTotal(checkout.Items)
	if checkout.ClientTotal != nil {
		diff := decimal.NewFromFloat(*checkout.ClientTotal).Sub(total).Abs()
		if diff.GreaterThan(totalTolerance) {
			return nil, &ValidationError{
				Code:    "TOTAL_MISMATCH",
				Message: "Order total does not match the sum of its items (expected " + total.StringFixed(2) + ")",
			}
		}
	}

	method := checkout.Payment.Method()
	order := &models.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          checkout.Customer.Name,
		Phone:         checkout.Customer.Phone,
		Address:       checkout.Customer.Address,
		City:          checkout.Customer.City,
		State:         checkout.Customer.State,
		Pincode:       checkout.Customer.Pincode,
		PaymentMethod: method,
		Total:         total.InexactFloat64(),
		Status:        models.InitialStatus(method),
	}

	order.Items = make([]models.OrderItem, len(checkout.Items))
	for i, item := range checkout.Items {
		title := item.Title
		if title == "" {
			title = "Item"
		}
		order.Items[i] = models.OrderItem{
			Position:  i,
			ProductID: item.ProductID,
			Title:     title,
			Price:     item.Price,
			Qty:       item.Qty,
			Image:     item.Image,
			Variant:   item.Variant,
		}
	}

	if upi, ok := checkout.Payment.(UPIPayment); ok {
		order.UPI = &models.UPIProof{
			PayerName:     upi.PayerName,
			TransactionID: upi.TransactionID,
		}
	}

	return order, nil
}

// RepriceItems replaces title and price of lines whose productId resolves to
// an active catalogue product. Unknown ids keep the submitted values.
func RepriceItems(ctx context.Context, db *gorm.DB, items []CheckoutItem) ([]CheckoutItem, error) {
	out := make([]CheckoutItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.ProductID == "" {
			continue
		}
		product, err := FindProduct(ctx, db, item.ProductID, true)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[i].Title = product.Title
		out[i].Price = product.Price
		if out[i].Image == "" {
			out[i].Image = product.ImageURL
		}
	}
	return out, nil
}
