package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/middleware"
	"github.com/uni10/storefront-api/models"
	"github.com/uni10/storefront-api/utils"
	"gorm.io/gorm"
)

func init() {
	utils.RegisterValidators()
}

// callerUser returns the caller's user row, nil for anonymous callers or
// callers without a profile
func callerUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	if !middleware.IsAuthenticated(c) {
		return nil, nil
	}
	user, err := middleware.LoadCurrentUser(c, db)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return user, err
}

// requireUser responds 401/404 itself and returns nil when the caller has no profile
func requireUser(c *gin.Context, db *gorm.DB) *models.User {
	user, err := middleware.LoadCurrentUser(c, db)
	if err == nil {
		return user
	}

	var authErr *middleware.AuthError
	switch {
	case errors.As(err, &authErr):
		utils.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found. Please create a profile first.")
	default:
		respondDatabaseError(c, "Failed to load user", err)
	}
	return nil
}

// respondDatabaseError logs the full error and hides it from the client
func respondDatabaseError(c *gin.Context, message string, err error) {
	log.Printf("rid=%s %s: %v", middleware.GetRequestID(c), message, err)
	utils.RespondError(c, http.StatusInternalServerError, "DATABASE_ERROR", message)
}

// parseIDParam reads a numeric path parameter; it responds 400 and returns false on failure
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
