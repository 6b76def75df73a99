package services

import (
	"time"

	"github.com/uni10/storefront-api/models"
)

// OrderDetail is the admin console view of an order
type OrderDetail struct {
	ID            string               `json:"id"`
	CreatedAt     time.Time            `json:"createdAt"`
	Status        models.OrderStatus   `json:"status"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Totals        OrderDetailTotals    `json:"totals"`
	Shipping      OrderDetailShipping  `json:"shipping"`
	Items         []OrderDetailItem    `json:"items"`
	UPI           *OrderDetailUPI      `json:"upi"`
}

type OrderDetailTotals struct {
	Total float64 `json:"total"`
}

type OrderDetailShipping struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

type OrderDetailItem struct {
	ProductID string            `json:"productId"`
	Title     string            `json:"title"`
	Image     string            `json:"image"`
	Price     float64           `json:"price"`
	Qty       int               `json:"qty"`
	Variant   map[string]string `json:"variant"`
}

type OrderDetailUPI struct {
	PayerName     string   `json:"payerName"`
	TransactionID string   `json:"transactionId"`
	PaidAmount    *float64 `json:"paidAmount"`
}

// BuildOrderDetail flattens an order for display. Missing strings become "",
// a missing title becomes "Item" and an empty variant becomes null. COD
// orders have no upi block.
func BuildOrderDetail(order *models.Order) OrderDetail {
	detail := OrderDetail{
		ID:            order.ID,
		CreatedAt:     order.CreatedAt,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		Totals:        OrderDetailTotals{Total: order.Total},
		Shipping: OrderDetailShipping{
			Name:     order.Name,
			Phone:    order.Phone,
			Address1: order.Address,
			City:     order.City,
			State:    order.State,
			Pincode:  order.Pincode,
		},
		Items: make([]OrderDetailItem, 0, len(order.Items)),
	}

	for _, item := range order.Items {
		title := item.Title
		if title == "" {
			title = "Item"
		}
		var variant map[string]string
		if len(item.Variant) > 0 {
			variant = item.Variant
		}
		detail.Items = append(detail.Items, OrderDetailItem{
			ProductID: item.ProductID,
			Title:     title,
			Image:     item.Image,
			Price:     item.Price,
			Qty:       item.Qty,
			Variant:   variant,
		})
	}

	if order.PaymentMethod == models.PaymentUPI {
		detail.UPI = &OrderDetailUPI{}
		if order.UPI != nil {
			detail.UPI.PayerName = order.UPI.PayerName
			detail.UPI.TransactionID = order.UPI.TransactionID
			detail.UPI.PaidAmount = order.UPI.PaidAmount
		}
	}

	return detail
}
