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

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"omitempty"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty"`
}

// CreateUser handles POST /api/v1/users - creates a new user from Auth0 userinfo
// This endpoint requires authentication and fetches user data from Auth0's /userinfo endpoint
func CreateUser(c *gin.Context) {
	// Get the Auth0 user ID from the validated JWT
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user ID from token")
		return
	}

	// Get the access token to call Auth0's /userinfo endpoint
	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found")
		return
	}

	auth0Service := services.NewAuth0Service(config.GetConfig())
	userInfo, err := auth0Service.GetUserInfo(c.Request.Context(), accessToken)
	if err != nil {
		log.Printf("rid=%s userinfo lookup failed: %v", middleware.GetRequestID(c), err)
		utils.RespondError(c, http.StatusBadGateway, "AUTH0_ERROR", "Failed to fetch user information from Auth0")
		return
	}

	if userInfo.Email == "" {
		utils.RespondError(c, http.StatusBadRequest, "MISSING_EMAIL", "Email not provided by Auth0")
		return
	}
	if userInfo.Name == "" {
		utils.RespondError(c, http.StatusBadRequest, "MISSING_NAME", "Name not provided by Auth0")
		return
	}

	role := models.RoleUser
	if claimed := middleware.GetRole(c); models.IsValidRole(claimed) {
		role = claimed
	}

	user := models.User{
		Auth0ID: auth0ID,
		Name:    userInfo.Name,
		Email:   userInfo.Email,
		Phone:   userInfo.PhoneNumber,
		Role:    role,
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if services.IsUniqueViolation(err) {
			utils.RespondError(c, http.StatusConflict, "USER_EXISTS", "A user with this Auth0 ID or email already exists")
			return
		}
		respondDatabaseError(c, "Failed to create user", err)
		return
	}

	utils.RespondOK(c, http.StatusCreated, user)
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	user := requireUser(c, config.GetDB())
	if user == nil {
		return
	}

	utils.RespondOK(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates current user's profile
func UpdateMyProfile(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Invalid request data", err)
		return
	}

	db := config.GetDB()
	user := requireUser(c, db)
	if user == nil {
		return
	}

	updates := make(map[string]interface{})
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		updates["email"] = email
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		updates["phone"] = phone
	}

	// If no fields to update, return current user
	if len(updates) == 0 {
		utils.RespondOK(c, http.StatusOK, user)
		return
	}

	ctx := c.Request.Context()
	if err := db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if services.IsUniqueViolation(err) {
			utils.RespondError(c, http.StatusConflict, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		respondDatabaseError(c, "Failed to update user profile", err)
		return
	}

	var updated models.User
	if err := db.WithContext(ctx).First(&updated, user.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to fetch updated profile", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, updated)
}

// AdminListUsers handles GET /api/v1/admin/users?page=&limit=&q=
func AdminListUsers(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))

	db := config.GetDB()
	scope := func() *gorm.DB {
		query := db.WithContext(c.Request.Context()).Model(&models.User{})
		if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
			pattern := "%" + q + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		return query
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		respondDatabaseError(c, "Failed to count users", err)
		return
	}

	var users []models.User
	if err := scope().Order("created_at DESC").Offset(utils.Offset(page, limit)).Limit(limit).Find(&users).Error; err != nil {
		respondDatabaseError(c, "Failed to fetch users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"data":       users,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// AdminDeleteUser handles DELETE /api/v1/admin/users/:id. Orders keep their
// customer snapshot; admins cannot delete themselves.
func AdminDeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	admin := requireUser(c, db)
	if admin == nil {
		return
	}
	if admin.ID == id {
		utils.RespondError(c, http.StatusBadRequest, "CANNOT_DELETE_SELF", "You cannot delete your own account")
		return
	}

	var user models.User
	err := db.WithContext(c.Request.Context()).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	if err != nil {
		respondDatabaseError(c, "Failed to load user", err)
		return
	}

	if err := db.WithContext(c.Request.Context()).Delete(&user).Error; err != nil {
		respondDatabaseError(c, "Failed to delete user", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"id": user.ID, "deleted": true})
}
