package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uni10/storefront-api/models"
)

func setupProductRouter() *gin.Engine {
	router := setupTestRouter()
	router.GET("/products", ListProducts)
	router.GET("/products/:idOrSlug", GetProduct)
	router.POST("/admin/products", CreateProduct)
	router.PUT("/admin/products/:id", UpdateProduct)
	router.DELETE("/admin/products/:id", DeleteProduct)
	return router
}

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	router := setupProductRouter()

	tees := models.Category{Name: "Tees", Slug: "tees", Active: true}
	require.NoError(t, db.Create(&tees).Error)

	w, response := performJSON(t, router, http.MethodPost, "/admin/products", map[string]interface{}{
		"title":      "Classic Tee",
		"price":      499,
		"categoryId": tees.ID,
		"sizes":      []string{"m", "XL", "m", "XS"},
		"imageUrl":   "https://cdn.example/tee.png",
		"stock":      12,
	})
	require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	data := responseData(t, response)
	assert.Equal(t, "classic-tee", data["slug"])
	assert.Equal(t, "Tees", data["category"])
	assert.Equal(t, []interface{}{"M", "XL"}, data["sizes"])
	assert.Equal(t, []interface{}{"https://cdn.example/tee.png"}, data["images"])
	assert.Equal(t, "https://cdn.example/tee.png", data["imageUrl"])
	assert.Equal(t, true, data["active"])

	w, response = performJSON(t, router, http.MethodPost, "/admin/products", map[string]interface{}{
		"title": "Classic Tee",
		"price": 599,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "classic-tee-2", responseData(t, response)["slug"], "Colliding slugs get a suffix")

	tests := []struct {
		name         string
		body         map[string]interface{}
		expectedCode string
	}{
		{"missing title", map[string]interface{}{"price": 10}, "VALIDATION_ERROR"},
		{"zero price", map[string]interface{}{"title": "Cap", "price": 0}, "VALIDATION_ERROR"},
		{"negative stock", map[string]interface{}{"title": "Cap", "price": 10, "stock": -1}, "VALIDATION_ERROR"},
		{"unknown category", map[string]interface{}{"title": "Cap", "price": 10, "categoryId": 999}, "CATEGORY_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := performJSON(t, router, http.MethodPost, "/admin/products", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.expectedCode, response["code"])
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	db := setupTestDB(t)
	router := setupProductRouter()

	product := models.Product{Title: "Classic Tee", Slug: "classic-tee", Price: 499, Sizes: []string{"M"}, Active: true}
	require.NoError(t, db.Create(&product).Error)
	path := fmt.Sprintf("/admin/products/%d", product.ID)

	w, response := performJSON(t, router, http.MethodPut, path, map[string]interface{}{
		"title":  "Oversized Tee",
		"price":  549,
		"images": []string{"a.png", " ", "b.png"},
	})
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	data := responseData(t, response)
	assert.Equal(t, "oversized-tee", data["slug"])
	assert.Equal(t, float64(549), data["price"])
	assert.Equal(t, []interface{}{"M"}, data["sizes"], "Absent fields are kept")
	assert.Equal(t, []interface{}{"a.png", "b.png"}, data["images"])
	assert.Equal(t, "a.png", data["imageUrl"])

	w, response = performJSON(t, router, http.MethodPut, path, map[string]interface{}{"price": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", response["code"])

	w, response = performJSON(t, router, http.MethodPut, "/admin/products/999", map[string]interface{}{"price": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", response["code"])
}

func TestListAndGetProducts(t *testing.T) {
	db := setupTestDB(t)
	router := setupProductRouter()

	products := []models.Product{
		{Title: "Classic Tee", Slug: "classic-tee", Price: 499, Category: "Tees", Sizes: []string{"M", "L"}, Active: true},
		{Title: "Zip Hoodie", Slug: "zip-hoodie", Price: 1299, Category: "Hoodies", Sizes: []string{"XL"}, Active: true},
		{Title: "Old Tee", Slug: "old-tee", Price: 199, Category: "Tees", Sizes: []string{"M"}, Active: false},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}

	w, response := performJSON(t, router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, responseList(t, response), 2, "Inactive products are hidden")
	assert.Equal(t, float64(2), response["pagination"].(map[string]interface{})["total"])

	w, response = performJSON(t, router, http.MethodGet, "/products?category=tees&size=m", nil)
	require.Equal(t, http.StatusOK, w.Code)
	filtered := responseList(t, response)
	require.Len(t, filtered, 1)
	assert.Equal(t, "classic-tee", filtered[0].(map[string]interface{})["slug"])

	w, response = performJSON(t, router, http.MethodGet, "/products?q=HOODIE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, responseList(t, response), 1)

	w, response = performJSON(t, router, http.MethodGet, "/products?size=XS", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", response["code"])

	w, response = performJSON(t, router, http.MethodGet, "/products/zip-hoodie", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Zip Hoodie", responseData(t, response)["title"])

	w, response = performJSON(t, router, http.MethodGet, fmt.Sprintf("/products/%d", products[0].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "classic-tee", responseData(t, response)["slug"])

	w, response = performJSON(t, router, http.MethodGet, "/products/old-tee", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", response["code"])
}

func TestDeleteProduct(t *testing.T) {
	db := setupTestDB(t)
	router := setupProductRouter()

	product := models.Product{Title: "Classic Tee", Slug: "classic-tee", Price: 499, Active: true}
	require.NoError(t, db.Create(&product).Error)
	path := fmt.Sprintf("/admin/products/%d", product.ID)

	w, _ := performJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, response := performJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", response["code"])
}
