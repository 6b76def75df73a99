package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uni10/storefront-api/models"
)

func validRequest(method string) CheckoutRequest {
	return CheckoutRequest{
		Name:          "  Asha Rao ",
		Phone:         "9999999999",
		Address:       "1 MG Road",
		City:          "Bengaluru",
		PaymentMethod: method,
		Items: []CheckoutItem{
			{ProductID: "tee", Title: "Tee", Price: 499.5, Qty: 2},
			{Price: 100, Qty: 1},
		},
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestCheckoutValidate(t *testing.T) {
	t.Run("COD", func(t *testing.T) {
		checkout, err := validRequest("cod").Validate()
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", checkout.Customer.Name)
		assert.Equal(t, models.PaymentCOD, checkout.Payment.Method())
	})

	t.Run("UPI with nested payer", func(t *testing.T) {
		req := validRequest("UPI")
		req.UPI = &UPIPayload{PayerName: "Asha", TransactionID: "TXN1"}
		checkout, err := req.Validate()
		require.NoError(t, err)

		upi, ok := checkout.Payment.(UPIPayment)
		require.True(t, ok)
		assert.Equal(t, "Asha", upi.PayerName)
		assert.Equal(t, "TXN1", upi.TransactionID)
	})

	t.Run("UPI with top-level payer and no transaction id", func(t *testing.T) {
		req := validRequest("UPI")
		req.PayerName = "Asha"
		checkout, err := req.Validate()
		require.NoError(t, err)
		assert.Equal(t, UPIPayment{PayerName: "Asha"}, checkout.Payment)
	})

	tests := []struct {
		name   string
		mutate func(r *CheckoutRequest)
		code   string
	}{
		{"blank name", func(r *CheckoutRequest) { r.Name = "   " }, "VALIDATION_ERROR"},
		{"no items", func(r *CheckoutRequest) { r.Items = nil }, "VALIDATION_ERROR"},
		{"zero qty", func(r *CheckoutRequest) { r.Items[0].Qty = 0 }, "VALIDATION_ERROR"},
		{"negative price", func(r *CheckoutRequest) { r.Items[0].Price = -1 }, "VALIDATION_ERROR"},
		{"unknown method", func(r *CheckoutRequest) { r.PaymentMethod = "CARD" }, "INVALID_PAYMENT_METHOD"},
		{"UPI without payer", func(r *CheckoutRequest) {
			r.PaymentMethod = "UPI"
			r.UPI = &UPIPayload{TransactionID: "TXN1"}
		}, "PAYER_NAME_REQUIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("COD")
			tt.mutate(&req)

			_, err := req.Validate()
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.code, vErr.Code)
		})
	}
}

func TestItemsTotal(t *testing.T) {
	items := []CheckoutItem{
		{Price: 0.1, Qty: 3},
		{Price: 0.2, Qty: 1},
	}
	assert.Equal(t, "0.5", ItemsTotal(items).String())
}

func TestBuildOrder(t *testing.T) {
	t.Run("COD starts in cod_pending with the computed total", func(t *testing.T) {
		checkout, err := validRequest("COD").Validate()
		require.NoError(t, err)

		order, err := BuildOrder(checkout, nil)
		require.NoError(t, err)

		assert.Len(t, order.ID, 36)
		assert.Equal(t, models.StatusCODPending, order.Status)
		assert.Equal(t, 1099.0, order.Total)
		assert.Nil(t, order.UPI)
		assert.True(t, order.IsGuest())
		require.Len(t, order.Items, 2)
		assert.Equal(t, "Item", order.Items[1].Title)
		assert.Equal(t, 1, order.Items[1].Position)
	})

	t.Run("UPI starts in pending_verification with proof", func(t *testing.T) {
		req := validRequest("UPI")
		req.PayerName = "Asha"
		checkout, err := req.Validate()
		require.NoError(t, err)

		userID := uint(7)
		order, err := BuildOrder(checkout, &userID)
		require.NoError(t, err)

		assert.Equal(t, models.StatusPendingVerification, order.Status)
		require.NotNil(t, order.UPI)
		assert.Equal(t, "Asha", order.UPI.PayerName)
		assert.True(t, order.IsOwnedBy(7))
	})

	t.Run("client total within tolerance is accepted", func(t *testing.T) {
		req := validRequest("COD")
		req.Total = floatPtr(1099.004)
		checkout, err := req.Validate()
		require.NoError(t, err)

		order, err := BuildOrder(checkout, nil)
		require.NoError(t, err)
		assert.Equal(t, 1099.0, order.Total)
	})

	t.Run("client total mismatch is rejected", func(t *testing.T) {
		req := validRequest("COD")
		req.Total = floatPtr(1.0)
		checkout, err := req.Validate()
		require.NoError(t, err)

		_, err = BuildOrder(checkout, nil)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "TOTAL_MISMATCH", vErr.Code)
	})
}

func TestRepriceItems(t *testing.T) {
	db := setupTestDB(t)
	product := models.Product{Title: "Classic Tee", Slug: "classic-tee", Price: 599, ImageURL: "/img/tee.png", Active: true}
	require.NoError(t, db.Create(&product).Error)
	inactive := models.Product{Title: "Old Tee", Slug: "old-tee", Price: 10, Active: false}
	require.NoError(t, db.Create(&inactive).Error)

	items := []CheckoutItem{
		{ProductID: "classic-tee", Title: "Tee", Price: 1, Qty: 2},
		{ProductID: "old-tee", Title: "Old", Price: 5, Qty: 1},
		{ProductID: "custom-print", Title: "Custom", Price: 250, Qty: 1},
	}

	repriced, err := RepriceItems(context.Background(), db, items)
	require.NoError(t, err)

	assert.Equal(t, "Classic Tee", repriced[0].Title)
	assert.Equal(t, 599.0, repriced[0].Price)
	assert.Equal(t, "/img/tee.png", repriced[0].Image)
	assert.Equal(t, 5.0, repriced[1].Price, "inactive products keep the submitted price")
	assert.Equal(t, 250.0, repriced[2].Price)
	assert.Equal(t, 1.0, items[0].Price, "input is not modified")
}
