package handlers

import (
	"net/http"
	"strconv"

	"go-storefront/internal/database"
	"go-storefront/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET /api/products ---
// Public catalog listing: active products only, with optional category,
// search and featured filters.
func GetProducts(c *gin.Context) {
	query := database.DB.Where("is_active = ?", true)

	if category := c.Query("category"); category != "" {
		id, err := strconv.Atoi(category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		query = query.Where("category_id = ?", id)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// --- GET /api/products/:id ---
func GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.Where("is_active = ?", true).First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// --- GET /api/categories ---
func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Order("name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// --- GET /api/banners ---
func GetBanners(c *gin.Context) {
	var banners []models.Banner
	err := database.DB.Where("is_active = ?", true).
		Order("display_order").
		Find(&banners).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch banners"})
		return
	}
	c.JSON(http.StatusOK, banners)
}

// --- GET /api/notice ---
// The shop shows at most one active notice bar.
func GetNotice(c *gin.Context) {
	var notice models.Notice
	err := database.DB.Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&notice).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"notice": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": notice})
}
