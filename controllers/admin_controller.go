package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/services"
	"github.com/uni10/storefront-api/utils"
)

// GetAdminOrder handles GET /api/v1/admin/orders/:id - display model of one order
func GetAdminOrder(c *gin.Context) {
	order, ok := findOrder(c, config.GetDB())
	if !ok {
		return
	}

	utils.RespondOK(c, http.StatusOK, services.BuildOrderDetail(order))
}

// GetStatsOverview godoc
// @Summary  Dashboard totals, calendar-month comparison and daily series
// @Tags     admin
// @Produce  json
// @Param    range  query     string  false  "7d, 30d or 90d"  default(30d)
// @Success  200    {object}  services.Overview
// @Router   /admin/stats/overview [get]
func GetStatsOverview(c *gin.Context) {
	stats := services.NewStatsService(config.GetDB(), config.GetConfig().StatsLocation(), nil)

	overview, err := stats.Overview(c.Request.Context(), c.Query("range"))
	if err != nil {
		respondDatabaseError(c, "Failed to compute statistics", err)
		return
	}

	utils.RespondOK(c, http.StatusOK, overview)
}
