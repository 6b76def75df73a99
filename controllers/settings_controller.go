package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/services"
	"github.com/uni10/storefront-api/utils"
)

// GetPaymentSettings handles GET /api/v1/settings/payment - what checkout shows
// for UPI payments
func GetPaymentSettings(c *gin.Context) {
	setting, err := services.GetSiteSetting(c.Request.Context(), config.GetDB(), config.GetConfig().SiteDomain)
	if err != nil {
		respondDatabaseError(c, "Failed to load settings", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, setting.Payment)
}

// GetSettings handles GET /api/v1/admin/settings
func GetSettings(c *gin.Context) {
	setting, err := services.GetSiteSetting(c.Request.Context(), config.GetDB(), config.GetConfig().SiteDomain)
	if err != nil {
		respondDatabaseError(c, "Failed to load settings", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, services.MaskSecrets(*setting))
}

// UpdateSettings handles PUT /api/v1/admin/settings - partial update
func UpdateSettings(c *gin.Context) {
	var req services.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, "Invalid settings data", err)
		return
	}
	if req.IsEmpty() {
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No settings provided")
		return
	}

	db := config.GetDB()
	setting, err := services.GetSiteSetting(c.Request.Context(), db, config.GetConfig().SiteDomain)
	if err != nil {
		respondDatabaseError(c, "Failed to load settings", err)
		return
	}

	req.Apply(setting)
	if err := db.WithContext(c.Request.Context()).Save(setting).Error; err != nil {
		respondDatabaseError(c, "Failed to save settings", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, services.MaskSecrets(*setting))
}
