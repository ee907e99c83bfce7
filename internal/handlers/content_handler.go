package handlers

import (
	"net/http"
	"strconv"

	"go-storefront/internal/database"
	"go-storefront/internal/models"

	"github.com/gin-gonic/gin"
)

// Categories, banners and the notice bar share the same thin CRUD shape,
// so they live together here.

// --- POST /api/admin/categories ---
func AddCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// --- PUT /api/admin/categories/:id ---
func UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Category ID"})
		return
	}

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&category).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	c.JSON(http.StatusOK, category)
}

// --- DELETE /api/admin/categories/:id ---
// Products referencing the category keep a dangling category_id; the
// reference is weak by design.
func DeleteCategory(c *gin.Context) {
	if err := database.DB.Delete(&models.Category{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// --- GET /api/admin/banners ---
func AdminListBanners(c *gin.Context) {
	var banners []models.Banner
	if err := database.DB.Order("display_order").Find(&banners).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch banners"})
		return
	}
	c.JSON(http.StatusOK, banners)
}

// --- POST /api/admin/banners ---
func AddBanner(c *gin.Context) {
	var banner models.Banner
	if err := c.ShouldBindJSON(&banner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.Create(&banner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create banner"})
		return
	}
	c.JSON(http.StatusCreated, banner)
}

// --- PUT /api/admin/banners/:id ---
func UpdateBanner(c *gin.Context) {
	var banner models.Banner
	if err := database.DB.First(&banner, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&banner).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update banner"})
		return
	}
	c.JSON(http.StatusOK, banner)
}

// --- DELETE /api/admin/banners/:id ---
func DeleteBanner(c *gin.Context) {
	if err := database.DB.Delete(&models.Banner{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete banner"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Banner deleted successfully"})
}

// --- PUT /api/admin/notice ---
// There is a single notice bar; saving replaces its text and active flag.
func SaveNotice(c *gin.Context) {
	var input struct {
		Text     string `json:"text" binding:"required"`
		IsActive bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var notice models.Notice
	err := database.DB.First(&notice).Error
	if err != nil {
		notice = models.Notice{Text: input.Text, IsActive: input.IsActive}
		if err := database.DB.Create(&notice).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save notice"})
			return
		}
		c.JSON(http.StatusOK, notice)
		return
	}

	notice.Text = input.Text
	notice.IsActive = input.IsActive
	if err := database.DB.Save(&notice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save notice"})
		return
	}
	c.JSON(http.StatusOK, notice)
}
