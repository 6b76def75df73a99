package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/middleware"
	"github.com/uni10/storefront-api/models"
	"github.com/uni10/storefront-api/routes"
	"github.com/uni10/storefront-api/services"
	"github.com/uni10/storefront-api/tests/testutil"
	"gorm.io/gorm"
)

// OrderIntegrationTestSuite drives checkout and fulfilment through the full router
type OrderIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	admin  string
	buyer  string
}

// SetupSuite runs once before all tests
func (suite *OrderIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())

	os.Setenv("DATABASE_URL", "sqlite://file::memory:")
	os.Setenv("JWT_SECRET", testutil.TestJWTSecret)
	os.Unsetenv("AUTH0_DOMAIN")
	os.Unsetenv("AWS_S3_BUCKET")

	cfg, err := config.Load()
	suite.Require().NoError(err)
	suite.cfg = cfg
}

// SetupTest runs before each test
func (suite *OrderIntegrationTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	config.SetConfig(suite.cfg)
	services.SetOrderCache(services.NewMemoryOrderCache(time.Now))

	testutil.CreateUser(suite.T(), suite.db, "auth0|admin", "admin@example.com", models.RoleAdmin)
	testutil.CreateUser(suite.T(), suite.db, "auth0|buyer", "buyer@example.com", models.RoleUser)
	suite.admin = testutil.BearerHeader(testutil.MintToken(suite.T(), suite.cfg, "auth0|admin", "admin", time.Hour))
	suite.buyer = testutil.BearerHeader(testutil.MintToken(suite.T(), suite.cfg, "auth0|buyer", "user", time.Hour))

	suite.router = routes.NewRouter(routes.Options{
		Auth:         middleware.EnsureValidToken(suite.cfg),
		OptionalAuth: middleware.OptionalToken(suite.cfg),
		CORSOrigins:  suite.cfg.CORSAllowedOrigins,
	})
}

// TearDownTest runs after each test
func (suite *OrderIntegrationTestSuite) TearDownTest() {
	services.SetOrderCache(nil)
}

// request sends a JSON request; headers are key/value pairs
func (suite *OrderIntegrationTestSuite) request(method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), "Response body: %s", w.Body.String())
	return w, response
}

func (suite *OrderIntegrationTestSuite) checkout(method string) map[string]interface{} {
	body := map[string]interface{}{
		"name":          "Asha Rao",
		"phone":         "9800000000",
		"address":       "12 MG Road",
		"city":          "Bengaluru",
		"state":         "KA",
		"pincode":       "560001",
		"paymentMethod": method,
		"items": []map[string]interface{}{
			{"productId": "p1", "title": "Classic Tee", "price": 999, "qty": 1, "variant": map[string]string{"size": "M"}},
			{"productId": "p2", "title": "Socks", "price": 50, "qty": 2},
		},
		"total": 1099,
	}
	if method == "UPI" {
		body["upi"] = map[string]interface{}{"payerName": "Asha Rao"}
	}
	return body
}

func (suite *OrderIntegrationTestSuite) placeOrder(method string, headers ...string) string {
	w, response := suite.request(http.MethodPost, "/api/v1/orders", suite.checkout(method), headers...)
	suite.Require().Equal(http.StatusCreated, w.Code, "Response body: %s", w.Body.String())
	return response["data"].(map[string]interface{})["id"].(string)
}

func (suite *OrderIntegrationTestSuite) setStatus(id, status string) (*httptest.ResponseRecorder, map[string]interface{}) {
	return suite.request(http.MethodPut, "/api/v1/orders/"+id, map[string]interface{}{"status": status}, "Authorization", suite.admin)
}

func (suite *OrderIntegrationTestSuite) TestGuestUPIOrderLifecycle() {
	id := suite.placeOrder("UPI", "X-Client-ID", "device-1")

	w, response := suite.request(http.MethodPost, "/api/v1/orders/"+id+"/upi", map[string]interface{}{
		"transactionId": "UTR123",
		"paidAmount":    1099,
	})
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	assert.Equal(suite.T(), "pending_verification", response["data"].(map[string]interface{})["status"])

	// Admin detail view shows the proof
	w, response = suite.request(http.MethodGet, "/api/v1/admin/orders/"+id, nil, "Authorization", suite.admin)
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	upi := response["data"].(map[string]interface{})["upi"].(map[string]interface{})
	assert.Equal(suite.T(), "UTR123", upi["transactionId"])

	// verified is stored as paid
	w, response = suite.setStatus(id, "verified")
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	assert.Equal(suite.T(), "paid", response["data"].(map[string]interface{})["status"])

	for _, status := range []string{"shipped", "delivered"} {
		w, response = suite.setStatus(id, status)
		suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
		assert.Equal(suite.T(), status, response["data"].(map[string]interface{})["status"])
	}

	w, response = suite.setStatus(id, "cancelled")
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), "INVALID_STATUS_TRANSITION", response["code"])

	var order models.Order
	suite.Require().NoError(suite.db.First(&order, "id = ?", id).Error)
	assert.Equal(suite.T(), models.StatusDelivered, order.Status)
}

func (suite *OrderIntegrationTestSuite) TestCODOrderCancelled() {
	id := suite.placeOrder("COD")

	w, response := suite.setStatus(id, "cancelled")
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	assert.Equal(suite.T(), "cancelled", response["data"].(map[string]interface{})["status"])

	w, response = suite.setStatus(id, "shipped")
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), "INVALID_STATUS_TRANSITION", response["code"])
}

func (suite *OrderIntegrationTestSuite) TestCustomerCannotManageOrders() {
	id := suite.placeOrder("COD", "Authorization", suite.buyer)

	w, response := suite.request(http.MethodPut, "/api/v1/orders/"+id, map[string]interface{}{"status": "shipped"}, "Authorization", suite.buyer)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Equal(suite.T(), "FORBIDDEN", response["code"])

	w, _ = suite.request(http.MethodGet, "/api/v1/orders", nil, "Authorization", suite.buyer)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w, _ = suite.request(http.MethodPut, "/api/v1/orders/"+id, map[string]interface{}{"status": "shipped"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *OrderIntegrationTestSuite) TestOwnedOrderAccess() {
	id := suite.placeOrder("COD", "Authorization", suite.buyer)

	w, response := suite.request(http.MethodGet, "/api/v1/orders/"+id, nil, "Authorization", suite.buyer)
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	assert.Equal(suite.T(), "cod_pending", response["data"].(map[string]interface{})["status"])

	w, _ = suite.request(http.MethodGet, "/api/v1/orders/"+id, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	testutil.CreateUser(suite.T(), suite.db, "auth0|other", "other@example.com", models.RoleUser)
	other := testutil.BearerHeader(testutil.MintToken(suite.T(), suite.cfg, "auth0|other", "user", time.Hour))
	w, _ = suite.request(http.MethodGet, "/api/v1/orders/"+id, nil, "Authorization", other)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w, response = suite.request(http.MethodGet, "/api/v1/orders/mine", nil, "Authorization", suite.buyer)
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	mine := response["data"].([]interface{})
	suite.Require().Len(mine, 1)
	assert.Equal(suite.T(), id, mine[0].(map[string]interface{})["id"])
}

func (suite *OrderIntegrationTestSuite) TestRecentOrdersByClient() {
	first := suite.placeOrder("COD", "X-Client-ID", "device-1")
	second := suite.placeOrder("UPI", "X-Client-ID", "device-1")
	suite.placeOrder("COD", "X-Client-ID", "device-2")

	w, response := suite.request(http.MethodGet, "/api/v1/orders/recent", nil, "X-Client-ID", "device-1")
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	assert.Equal(suite.T(), true, response["stale"])

	recent := response["data"].([]interface{})
	suite.Require().Len(recent, 2)
	assert.Equal(suite.T(), second, recent[0].(map[string]interface{})["id"])
	assert.Equal(suite.T(), first, recent[1].(map[string]interface{})["id"])
}

func (suite *OrderIntegrationTestSuite) TestStatsReflectOrders() {
	suite.placeOrder("COD")
	suite.placeOrder("UPI")

	w, response := suite.request(http.MethodGet, "/api/v1/admin/stats/overview?range=7d", nil, "Authorization", suite.admin)
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	data := response["data"].(map[string]interface{})
	totals := data["totals"].(map[string]interface{})
	assert.Equal(suite.T(), 2198.0, totals["revenue"])
	assert.Equal(suite.T(), float64(2), totals["orders"])
	assert.Equal(suite.T(), float64(2), totals["users"])

	series := data["series"].([]interface{})
	suite.Require().Len(series, 7)
	today := series[6].(map[string]interface{})
	assert.Equal(suite.T(), float64(2), today["orders"])
}

// TestOrderIntegrationTestSuite runs the test suite
func TestOrderIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderIntegrationTestSuite))
}
