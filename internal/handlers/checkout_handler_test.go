package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-storefront/internal/database"
	"go-storefront/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.Migrate(db)
	database.DB = db

	r := gin.New()
	r.POST("/api/checkout", Checkout)
	r.POST("/api/checkout/preview", CheckoutPreview)
	r.POST("/api/coupons/validate", ValidateCoupon)
	r.GET("/api/members/detect", DetectMember)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkoutBody(productID uint, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"customer_name": "Farhan Ahmed",
		"phone":         "01812345678",
		"address":       "45 New Market Road, Rajshahi",
		"delivery_area": "outside",
		"items": []map[string]interface{}{
			{
				"product_id":     productID,
				"name":           "Denim Jacket",
				"price":          1000,
				"quantity":       quantity,
				"stock_quantity": 5,
			},
		},
	}
}

func TestCheckoutPlacesOrder(t *testing.T) {
	r := setupRouter(t)
	p := models.Product{Name: "Denim Jacket", Price: 1000, StockQuantity: 5, IsActive: true}
	require.NoError(t, database.DB.Create(&p).Error)

	w := postJSON(t, r, "/api/checkout", checkoutBody(p.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Order       models.Order `json:"order"`
		WhatsappURL string       `json:"whatsapp_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UC-0001", resp.Order.OrderID)
	assert.Equal(t, 2120, resp.Order.Total)
	assert.Contains(t, resp.WhatsappURL, "wa.me")

	var stored models.Product
	require.NoError(t, database.DB.First(&stored, p.ID).Error)
	assert.Equal(t, 3, stored.StockQuantity)
}

func TestCheckoutOutOfStockIsConflict(t *testing.T) {
	r := setupRouter(t)
	p := models.Product{Name: "Denim Jacket", Price: 1000, StockQuantity: 1, IsActive: true}
	require.NoError(t, database.DB.Create(&p).Error)

	body := checkoutBody(p.ID, 2)
	// client believes more stock exists than the shelf holds
	body["items"].([]map[string]interface{})[0]["stock_quantity"] = 10

	w := postJSON(t, r, "/api/checkout", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")
}

func TestCheckoutRejectsInvalidCoupon(t *testing.T) {
	r := setupRouter(t)
	p := models.Product{Name: "Denim Jacket", Price: 1000, StockQuantity: 5, IsActive: true}
	require.NoError(t, database.DB.Create(&p).Error)

	body := checkoutBody(p.ID, 1)
	body["coupon_code"] = "BOGUS"

	w := postJSON(t, r, "/api/checkout", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid coupon code")
}

func TestCheckoutValidatesCustomerFields(t *testing.T) {
	r := setupRouter(t)

	body := checkoutBody(1, 1)
	body["phone"] = "017" // too short

	w := postJSON(t, r, "/api/checkout", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewComputesBreakdownWithoutWrites(t *testing.T) {
	r := setupRouter(t)
	require.NoError(t, database.DB.Create(&models.Coupon{
		Code: "SAVE10", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true,
	}).Error)

	w := postJSON(t, r, "/api/checkout/preview", map[string]interface{}{
		"delivery_area": "outside",
		"coupon_code":   "SAVE10",
		"items": []map[string]interface{}{
			{"product_id": 1, "name": "Saree", "price": 1000, "quantity": 1, "stock_quantity": 5},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Breakdown struct {
			Subtotal int `json:"subtotal"`
			Total    int `json:"total"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1000, resp.Breakdown.Subtotal)
	assert.Equal(t, 1020, resp.Breakdown.Total)

	var count int64
	require.NoError(t, database.DB.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestValidateCouponEndpoint(t *testing.T) {
	r := setupRouter(t)
	require.NoError(t, database.DB.Create(&models.Coupon{
		Code: "SAVE10", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true,
	}).Error)

	w := postJSON(t, r, "/api/coupons/validate", map[string]interface{}{
		"code": "save10", "subtotal": 999,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"discount":100`)
}

func TestDetectMemberEndpoint(t *testing.T) {
	r := setupRouter(t)
	require.NoError(t, database.DB.Create(&models.Member{
		MemberCode: "UCM-AABBCCDD", Name: "Nusrat", Phone: "01712345678",
		DiscountType: models.DiscountPercentage, DiscountValue: 5, IsActive: true,
	}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/members/detect?phone=01712345678&subtotal=2000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome back, Nusrat!")
	assert.Contains(t, w.Body.String(), `"discount":100`)

	req = httptest.NewRequest(http.MethodGet, "/api/members/detect?phone=01712345679&subtotal=2000", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"member":null`)
}
