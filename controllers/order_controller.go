package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/middleware"
	"github.com/uni10/storefront-api/models"
	"github.com/uni10/storefront-api/services"
	"github.com/uni10/storefront-api/utils"
	"gorm.io/gorm"
)

// ClientIDHeader identifies a guest device for the recent-order cache
const ClientIDHeader = "X-Client-ID"

// UPIProofUpdate is a partial update of an order's UPI proof
type UPIProofUpdate struct {
	PayerName     *string  `json:"payerName"`
	TransactionID *string  `json:"transactionId"`
	PaidAmount    *float64 `json:"paidAmount" binding:"omitempty,gte=0"`
}

// UpdateOrderRequest represents the request body of the admin order update.
// Unknown keys are ignored.
type UpdateOrderRequest struct {
	Status  *string         `json:"status" binding:"omitempty,order_status"`
	UPI     *UPIProofUpdate `json:"upi"`
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *string         `json:"address"`
	City    *string         `json:"city"`
	State   *string         `json:"state"`
	Pincode *string         `json:"pincode"`
}

func (r UpdateOrderRequest) isEmpty() bool {
	return r.Status == nil && r.UPI == nil && r.Name == nil && r.Phone == nil &&
		r.Address == nil && r.City == nil && r.State == nil && r.Pincode == nil
}

// AttachUPIRequest represents the request body of POST /orders/:id/upi
type AttachUPIRequest struct {
	TransactionID string   `json:"transactionId" binding:"required"`
	PayerName     string   `json:"payerName"`
	PaidAmount    *float64 `json:"paidAmount" binding:"omitempty,gte=0"`
}

// preloadOrder loads items in checkout order together with the UPI proof
func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Preload("UPI")
}

// findOrder responds 404 itself when the order does not exist
func findOrder(c *gin.Context, db *gorm.DB) (*models.Order, bool) {
	var order models.Order
	err := preloadOrder(db.WithContext(c.Request.Context())).Where("id = ?", c.Param("id")).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
		return nil, false
	}
	if err != nil {
		respondDatabaseError(c, "Failed to load order", err)
		return nil, false
	}
	return &order, true
}

// authorizeOrderAccess lets anyone reach a guest order and restricts owned
// orders to their owner and admins. It responds itself on refusal.
func authorizeOrderAccess(c *gin.Context, db *gorm.DB, order *models.Order) bool {
	if order.IsGuest() {
		return true
	}

	caller, err := callerUser(c, db)
	if err != nil {
		respondDatabaseError(c, "Failed to load user", err)
		return false
	}
	if caller == nil {
		utils.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in to view this order")
		return false
	}
	if !order.IsOwnedBy(caller.ID) && !caller.IsAdmin() {
		utils.RespondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this order")
		return false
	}
	return true
}

// recentOrdersKey picks the cache key of the caller, "" when there is none
func recentOrdersKey(c *gin.Context) string {
	if auth0ID, err := middleware.GetUserID(c); err == nil {
		return services.UserCacheKey(auth0ID)
	}
	if clientID := strings.TrimSpace(c.GetHeader(ClientIDHeader)); clientID != "" {
		return services.ClientCacheKey(clientID)
	}
	return ""
}

// CreateOrder godoc
// @Summary      Place an order
// @Description  Guest or signed-in checkout with cash on delivery or UPI
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      services.CheckoutRequest  true  "Checkout"
// @Success      201    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]interface{}
// @Router       /orders [post]
func CreateOrder(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Invalid order data", err)
		return
	}

	checkout, err := req.Validate()
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	db := config.GetDB()
	ctx := c.Request.Context()

	if config.GetConfig().CheckoutReprice {
		items, err := services.RepriceItems(ctx, db, checkout.Items)
		if err != nil {
			respondDatabaseError(c, "Failed to price order items", err)
			return
		}
		checkout.Items = items
	}

	caller, err := callerUser(c, db)
	if err != nil {
		respondDatabaseError(c, "Failed to load user", err)
		return
	}
	var userID *uint
	if caller != nil {
		userID = &caller.ID
	}

	order, err := services.BuildOrder(checkout, userID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	// Order row, items and UPI proof are written together or not at all
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		respondDatabaseError(c, "Failed to create order", err)
		return
	}

	if key := recentOrdersKey(c); key != "" {
		if cache := services.GetOrderCache(); cache != nil {
			if err := cache.Push(ctx, key, services.SummaryOf(order)); err != nil {
				log.Printf("rid=%s failed to cache order %s: %v", middleware.GetRequestID(c), order.ID, err)
			}
		}
	}

	utils.RespondOK(c, http.StatusCreated, gin.H{
		"id":            order.ID,
		"total":         order.Total,
		"status":        order.Status,
		"paymentMethod": order.PaymentMethod,
		"order":         order,
	})
}

func respondCheckoutError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		utils.RespondError(c, http.StatusBadRequest, vErr.Code, vErr.Message)
		return
	}
	respondDatabaseError(c, "Failed to create order", err)
}

// GetOrder godoc
// @Summary  Get an order by id
// @Tags     orders
// @Produce  json
// @Param    id   path      string  true  "Order id"
// @Success  200  {object}  map[string]interface{}
// @Failure  404  {object}  map[string]interface{}
// @Router   /orders/{id} [get]
func GetOrder(c *gin.Context) {
	db := config.GetDB()

	order, ok := findOrder(c, db)
	if !ok {
		return
	}
	if !authorizeOrderAccess(c, db, order) {
		return
	}

	utils.RespondOK(c, http.StatusOK, order)
}

// ListOrders handles GET /api/v1/orders - paginated order list for admins
func ListOrders(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))

	var status models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := models.ParseOrderStatus(raw)
		if !ok {
			utils.RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status")
			return
		}
		status = parsed
	}

	var method models.PaymentMethod
	if raw := c.Query("paymentMethod"); raw != "" {
		parsed, ok := models.ParsePaymentMethod(raw)
		if !ok {
			utils.RespondError(c, http.StatusBadRequest, "INVALID_PAYMENT_METHOD", "Payment method must be COD or UPI")
			return
		}
		method = parsed
	}

	db := config.GetDB()
	scope := func() *gorm.DB {
		query := db.WithContext(c.Request.Context()).Model(&models.Order{})
		if status != "" {
			query = query.Where("status = ?", status)
		}
		if method != "" {
			query = query.Where("payment_method = ?", method)
		}
		return query
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		respondDatabaseError(c, "Failed to count orders", err)
		return
	}

	var orders []models.Order
	err := preloadOrder(scope()).
		Order("created_at DESC").
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		respondDatabaseError(c, "Failed to fetch orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"data":       orders,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// ListMyOrders handles GET /api/v1/orders/mine - the caller's orders, newest first
func ListMyOrders(c *gin.Context) {
	db := config.GetDB()
	user := requireUser(c, db)
	if user == nil {
		return
	}

	var orders []models.Order
	err := preloadOrder(db.WithContext(c.Request.Context())).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		respondDatabaseError(c, "Failed to fetch orders", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, orders)
}

// UpdateOrder godoc
// @Summary      Update an order (admin)
// @Description  Status changes follow the transition table; the write is last-write-wins
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id     path      string              true  "Order id"
// @Param        order  body      UpdateOrderRequest  true  "Fields to change"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]interface{}
// @Failure      409    {object}  map[string]interface{}
// @Router       /orders/{id} [put]
func UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Invalid request data", err)
		return
	}
	if req.isEmpty() {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No fields to update")
		return
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		status, ok := models.ParseOrderStatus(*req.Status)
		if !ok {
			utils.RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status")
			return
		}
		updates["status"] = status
	}
	for column, value := range map[string]*string{
		"name":    req.Name,
		"phone":   req.Phone,
		"address": req.Address,
	} {
		if value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", column+" cannot be empty")
			return
		}
		updates[column] = trimmed
	}
	for column, value := range map[string]*string{
		"city":    req.City,
		"state":   req.State,
		"pincode": req.Pincode,
	} {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}

	db := config.GetDB()
	order, ok := findOrder(c, db)
	if !ok {
		return
	}

	if req.UPI != nil && order.PaymentMethod != models.PaymentUPI {
		utils.RespondError(c, http.StatusBadRequest, "UPI_NOT_ALLOWED", "UPI details can only be set on UPI orders")
		return
	}

	if next, ok := updates["status"].(models.OrderStatus); ok {
		if err := models.ValidateStatusTransition(order.Status, next); err != nil {
			utils.RespondError(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
			return
		}
		if next == order.Status {
			delete(updates, "status")
		}
	}

	err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.UPI != nil {
			return upsertUPIProof(tx, order, req.UPI)
		}
		return nil
	})
	if err != nil {
		respondDatabaseError(c, "Failed to update order", err)
		return
	}

	if updated, ok := findOrder(c, db); ok {
		utils.RespondOK(c, http.StatusOK, updated)
	}
}

// upsertUPIProof applies the present fields to the order's proof, creating it when missing
func upsertUPIProof(tx *gorm.DB, order *models.Order, update *UPIProofUpdate) error {
	proof := models.UPIProof{OrderID: order.ID}
	if order.UPI != nil {
		proof = *order.UPI
	}
	if update.PayerName != nil {
		proof.PayerName = strings.TrimSpace(*update.PayerName)
	}
	if update.TransactionID != nil {
		proof.TransactionID = strings.TrimSpace(*update.TransactionID)
	}
	if update.PaidAmount != nil {
		amount := *update.PaidAmount
		proof.PaidAmount = &amount
	}
	return tx.Save(&proof).Error
}

// AttachUPIProof godoc
// @Summary      Attach UPI payment proof
// @Description  Records the transaction id; the order status is unchanged until an admin verifies it
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id     path      string            true  "Order id"
// @Param        proof  body      AttachUPIRequest  true  "UPI proof"
// @Success      200    {object}  map[string]interface{}
// @Router       /orders/{id}/upi [post]
func AttachUPIProof(c *gin.Context) {
	var req AttachUPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Transaction id is required", err)
		return
	}
	txn := strings.TrimSpace(req.TransactionID)
	if txn == "" {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Transaction id is required")
		return
	}

	db := config.GetDB()
	order, ok := findOrder(c, db)
	if !ok {
		return
	}
	if !authorizeOrderAccess(c, db, order) {
		return
	}
	if order.PaymentMethod != models.PaymentUPI {
		utils.RespondError(c, http.StatusBadRequest, "UPI_NOT_ALLOWED", "UPI details can only be set on UPI orders")
		return
	}

	update := &UPIProofUpdate{TransactionID: &txn, PaidAmount: req.PaidAmount}
	if payer := strings.TrimSpace(req.PayerName); payer != "" {
		update.PayerName = &payer
	}

	if err := upsertUPIProof(db.WithContext(c.Request.Context()), order, update); err != nil {
		respondDatabaseError(c, "Failed to save UPI details", err)
		return
	}

	if updated, ok := findOrder(c, db); ok {
		utils.RespondOK(c, http.StatusOK, updated)
	}
}

// RecentOrders handles GET /api/v1/orders/recent - cached summaries of the
// caller's latest orders. The list may lag the database.
func RecentOrders(c *gin.Context) {
	key := recentOrdersKey(c)
	if key == "" {
		utils.RespondError(c, http.StatusBadRequest, "CLIENT_ID_REQUIRED", "Sign in or send an X-Client-ID header")
		return
	}

	summaries := []services.OrderSummary{}
	if cache := services.GetOrderCache(); cache != nil {
		cached, err := cache.Recent(c.Request.Context(), key)
		if err != nil {
			log.Printf("rid=%s failed to read recent orders: %v", middleware.GetRequestID(c), err)
		} else {
			summaries = cached
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"data":  summaries,
		"stale": true,
	})
}
