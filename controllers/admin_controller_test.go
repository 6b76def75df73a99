package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uni10/storefront-api/middleware"
	"github.com/uni10/storefront-api/models"
	"gorm.io/gorm"
)

func setupAdminRouter(auth0ID string) *gin.Engine {
	router := setupTestRouter()
	admin := router.Group("/admin", mockAuthMiddleware(auth0ID, "admin", "mock-token"), middleware.RequireAdmin())
	admin.GET("/orders/:id", GetAdminOrder)
	admin.GET("/stats/overview", GetStatsOverview)
	return router
}

func insertOrder(t *testing.T, db *gorm.DB, method models.PaymentMethod, total float64, createdAt time.Time) models.Order {
	order := models.Order{
		ID:            uuid.NewString(),
		Name:          "Asha Rao",
		Phone:         "9800000000",
		Address:       "12 MG Road",
		PaymentMethod: method,
		Total:         total,
		Status:        models.InitialStatus(method),
		Items:         []models.OrderItem{{Position: 0, Title: "Classic Tee", Price: total, Qty: 1}},
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestGetAdminOrder(t *testing.T) {
	db := setupOrderTest(t)
	createTestUser(t, db, "auth0|admin", "admin@example.com", models.RoleAdmin)
	router := setupAdminRouter("auth0|admin")

	codID := placeOrder(t, setupOrderRouter("", ""), codCheckout())
	upiID := placeOrder(t, setupOrderRouter("", ""), upiCheckout())

	t.Run("COD order", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodGet, "/admin/orders/"+codID, nil)
		require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

		data := responseData(t, response)
		assert.Equal(t, codID, data["id"])
		assert.Equal(t, "cod_pending", data["status"])
		assert.Equal(t, map[string]interface{}{"total": float64(1099)}, data["totals"])
		assert.Nil(t, data["upi"])

		shipping := data["shipping"].(map[string]interface{})
		assert.Equal(t, "12 MG Road", shipping["address1"])
		assert.Equal(t, "", shipping["address2"])
		assert.Equal(t, "560001", shipping["pincode"])

		items := data["items"].([]interface{})
		require.Len(t, items, 2)
		assert.Equal(t, "Classic Tee", items[0].(map[string]interface{})["title"])
		assert.Nil(t, items[1].(map[string]interface{})["variant"])
	})

	t.Run("UPI order always has a upi block", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodGet, "/admin/orders/"+upiID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		upi := responseData(t, response)["upi"].(map[string]interface{})
		assert.Equal(t, "Asha Rao", upi["payerName"])
		assert.Equal(t, "", upi["transactionId"])
		assert.Nil(t, upi["paidAmount"])
	})

	t.Run("unknown order", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodGet, "/admin/orders/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ORDER_NOT_FOUND", response["code"])
	})
}

func TestGetStatsOverview(t *testing.T) {
	db := setupOrderTest(t)
	createTestUser(t, db, "auth0|admin", "admin@example.com", models.RoleAdmin)
	createTestUser(t, db, "auth0|shopper", "shopper@example.com", models.RoleUser)
	router := setupAdminRouter("auth0|admin")

	now := time.Now().UTC()
	insertOrder(t, db, models.PaymentCOD, 100, now)
	insertOrder(t, db, models.PaymentUPI, 250.5, now)
	insertOrder(t, db, models.PaymentCOD, 40, now.AddDate(-1, 0, 0))

	w, response := performJSON(t, router, http.MethodGet, "/admin/stats/overview?range=7d", nil)
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	data := responseData(t, response)
	assert.Equal(t, "7d", data["range"])

	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, 390.5, totals["revenue"])
	assert.Equal(t, float64(3), totals["orders"])
	assert.Equal(t, float64(2), totals["users"])

	thisMonth := data["thisMonth"].(map[string]interface{})
	assert.Equal(t, 350.5, thisMonth["revenue"])
	assert.Equal(t, float64(2), thisMonth["orders"])

	series := data["series"].([]interface{})
	require.Len(t, series, 7)
	today := series[6].(map[string]interface{})
	assert.Equal(t, now.Format("2006-01-02"), today["date"])
	assert.Equal(t, 350.5, today["revenue"])
	assert.Equal(t, float64(2), today["orders"])
	assert.Equal(t, float64(0), series[0].(map[string]interface{})["orders"])
}

func TestGetStatsOverview_DefaultRange(t *testing.T) {
	db := setupOrderTest(t)
	createTestUser(t, db, "auth0|admin", "admin@example.com", models.RoleAdmin)
	router := setupAdminRouter("auth0|admin")

	w, response := performJSON(t, router, http.MethodGet, "/admin/stats/overview?range=1y", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := responseData(t, response)
	assert.Equal(t, "30d", data["range"])
	assert.Len(t, data["series"].([]interface{}), 30)
	assert.Equal(t, float64(0), data["totals"].(map[string]interface{})["revenue"])
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	db := setupOrderTest(t)
	createTestUser(t, db, "auth0|shopper", "shopper@example.com", models.RoleUser)

	w, response := performJSON(t, setupAdminRouter("auth0|shopper"), http.MethodGet, "/admin/stats/overview", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", response["code"])

	w, response = performJSON(t, setupAdminRouter(""), http.MethodGet, "/admin/stats/overview", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", response["code"])
}
