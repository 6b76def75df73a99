package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/models"
	"github.com/uni10/storefront-api/utils"
	"gorm.io/gorm"
)

// CreateTicketRequest represents the request body for opening a support ticket
type CreateTicketRequest struct {
	Subject   string  `json:"subject" binding:"required"`
	Message   string  `json:"message" binding:"required"`
	OrderID   *string `json:"orderId"`
	ProductID *uint   `json:"productId"`
}

// ReplyRequest represents the request body for replying on a ticket
type ReplyRequest struct {
	Message string `json:"message" binding:"required"`
}

// AdminTicketUpdateRequest is the admin PATCH body: a reply, a status, or both
type AdminTicketUpdateRequest struct {
	Message *string `json:"message"`
	Status  *string `json:"status"`
}

// preloadTicket loads replies oldest first with their authors
func preloadTicket(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Replies", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC, id ASC")
	}).Preload("Replies.Author")
}

// findTicket responds 404 itself when the ticket does not exist
func findTicket(c *gin.Context, db *gorm.DB) (*models.SupportTicket, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	var ticket models.SupportTicket
	err := preloadTicket(db.WithContext(c.Request.Context())).First(&ticket, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, "TICKET_NOT_FOUND", "Ticket not found")
		return nil, false
	}
	if err != nil {
		respondDatabaseError(c, "Failed to load ticket", err)
		return nil, false
	}
	return &ticket, true
}

// CreateTicket handles POST /api/v1/support/tickets
func CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Subject and message are required", err)
		return
	}
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if subject == "" || message == "" {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Subject and message are required")
		return
	}

	db := config.GetDB()
	user := requireUser(c, db)
	if user == nil {
		return
	}
	ctx := c.Request.Context()

	ticket := models.SupportTicket{
		UserID:  user.ID,
		Subject: subject,
		Message: message,
		Status:  models.TicketOpen,
	}

	if req.OrderID != nil && strings.TrimSpace(*req.OrderID) != "" {
		orderID := strings.TrimSpace(*req.OrderID)
		var count int64
		if err := db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
			respondDatabaseError(c, "Failed to create ticket", err)
			return
		}
		if count == 0 {
			utils.RespondError(c, http.StatusBadRequest, "ORDER_NOT_FOUND", "Referenced order does not exist")
			return
		}
		ticket.OrderID = &orderID
	}
	if req.ProductID != nil {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", *req.ProductID).Count(&count).Error; err != nil {
			respondDatabaseError(c, "Failed to create ticket", err)
			return
		}
		if count == 0 {
			utils.RespondError(c, http.StatusBadRequest, "PRODUCT_NOT_FOUND", "Referenced product does not exist")
			return
		}
		ticket.ProductID = req.ProductID
	}

	if err := db.WithContext(ctx).Omit("User").Create(&ticket).Error; err != nil {
		respondDatabaseError(c, "Failed to create ticket", err)
		return
	}

	utils.RespondOK(c, http.StatusCreated, ticket)
}

// ListMyTickets handles GET /api/v1/support/tickets
func ListMyTickets(c *gin.Context) {
	db := config.GetDB()
	user := requireUser(c, db)
	if user == nil {
		return
	}

	var tickets []models.SupportTicket
	err := preloadTicket(db.WithContext(c.Request.Context())).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		respondDatabaseError(c, "Failed to load tickets", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, tickets)
}

// GetTicket handles GET /api/v1/support/tickets/:id - owner or admin
func GetTicket(c *gin.Context) {
	db := config.GetDB()
	user := requireUser(c, db)
	if user == nil {
		return
	}

	ticket, ok := findTicket(c, db)
	if !ok {
		return
	}
	if ticket.UserID != user.ID && !user.IsAdmin() {
		utils.RespondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this ticket")
		return
	}

	utils.RespondOK(c, http.StatusOK, ticket)
}

// ReplyToTicket handles POST /api/v1/support/tickets/:id/replies - owner or admin
func ReplyToTicket(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Message is required", err)
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message is required")
		return
	}

	db := config.GetDB()
	user := requireUser(c, db)
	if user == nil {
		return
	}

	ticket, ok := findTicket(c, db)
	if !ok {
		return
	}
	if ticket.UserID != user.ID && !user.IsAdmin() {
		utils.RespondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this ticket")
		return
	}
	if ticket.Status == models.TicketClosed && !user.IsAdmin() {
		utils.RespondError(c, http.StatusConflict, "TICKET_CLOSED", "This ticket is closed")
		return
	}

	reply := models.TicketReply{TicketID: ticket.ID, AuthorID: user.ID, Message: message}
	if err := db.WithContext(c.Request.Context()).Omit("Author").Create(&reply).Error; err != nil {
		respondDatabaseError(c, "Failed to save reply", err)
		return
	}

	if updated, ok := findTicket(c, db); ok {
		utils.RespondOK(c, http.StatusCreated, updated)
	}
}

// AdminListTickets handles GET /api/v1/support/admin/tickets?status=
func AdminListTickets(c *gin.Context) {
	query := preloadTicket(config.GetDB().WithContext(c.Request.Context()))

	if status := strings.ToLower(strings.TrimSpace(c.Query("status"))); status != "" && status != "all" {
		if !models.IsValidTicketStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be open, pending or closed")
			return
		}
		query = query.Where("status = ?", status)
	}

	var tickets []models.SupportTicket
	if err := query.Order("updated_at DESC").Find(&tickets).Error; err != nil {
		respondDatabaseError(c, "Failed to load tickets", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, tickets)
}

// AdminGetTicket handles GET /api/v1/support/admin/tickets/:id
func AdminGetTicket(c *gin.Context) {
	ticket, ok := findTicket(c, config.GetDB())
	if !ok {
		return
	}

	utils.RespondOK(c, http.StatusOK, ticket)
}

// AdminUpdateTicket handles PATCH /api/v1/support/admin/tickets/:id
func AdminUpdateTicket(c *gin.Context) {
	var req AdminTicketUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Invalid request data", err)
		return
	}

	var message, status string
	if req.Message != nil {
		message = strings.TrimSpace(*req.Message)
	}
	if req.Status != nil {
		status = strings.ToLower(strings.TrimSpace(*req.Status))
		if !models.IsValidTicketStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be open, pending or closed")
			return
		}
	}
	if message == "" && status == "" {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Provide a reply or a status")
		return
	}

	db := config.GetDB()
	admin := requireUser(c, db)
	if admin == nil {
		return
	}

	ticket, ok := findTicket(c, db)
	if !ok {
		return
	}

	err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if message != "" {
			reply := models.TicketReply{TicketID: ticket.ID, AuthorID: admin.ID, Message: message}
			if err := tx.Omit("Author").Create(&reply).Error; err != nil {
				return err
			}
		}
		if status != "" && status != ticket.Status {
			return tx.Model(&models.SupportTicket{}).Where("id = ?", ticket.ID).Update("status", status).Error
		}
		return nil
	})
	if err != nil {
		respondDatabaseError(c, "Failed to update ticket", err)
		return
	}

	if updated, ok := findTicket(c, db); ok {
		utils.RespondOK(c, http.StatusOK, updated)
	}
}
