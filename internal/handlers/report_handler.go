package handlers

import (
	"net/http"

	"go-storefront/internal/database"
	"go-storefront/internal/models"

	"github.com/gin-gonic/gin"
)

// ReportData is the admin dashboard payload.
type ReportData struct {
	TotalRevenue  int              `json:"total_revenue"`
	TotalOrders   int64            `json:"total_orders"`
	OrdersByState map[string]int64 `json:"orders_by_status"`
	TopSelling    []struct {
		ProductName string `json:"product_name"`
		Sold        int    `json:"sold"`
	} `json:"top_selling"`
	LowStock     []models.Product `json:"low_stock"`
	RecentOrders []models.Order   `json:"recent_orders"`
}

const lowStockCeiling = 5

// --- GET /api/admin/reports ---
func GetDashboardReport(c *gin.Context) {
	var data ReportData

	// Revenue counts everything not cancelled/returned
	liveStates := []string{models.StatusCancelled, models.StatusReturned}
	err := database.DB.Model(&models.Order{}).
		Where("status NOT IN ?", liveStates).
		Select("COALESCE(SUM(total), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	if err := database.DB.Model(&models.Order{}).Count(&data.TotalOrders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}

	data.OrdersByState = make(map[string]int64)
	var rows []struct {
		Status string
		N      int64
	}
	err = database.DB.Model(&models.Order{}).
		Select("status, COUNT(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to group orders"})
		return
	}
	for _, row := range rows {
		data.OrdersByState[row.Status] = row.N
	}

	// Top 5 best sellers by the sold counter maintained at checkout
	err = database.DB.Model(&models.Product{}).
		Select("name as product_name, sold_count as sold").
		Order("sold_count DESC").
		Limit(5).
		Scan(&data.TopSelling).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	err = database.DB.Where("is_active = ? AND stock_quantity <= ?", true, lowStockCeiling).
		Order("stock_quantity").
		Find(&data.LowStock).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low stock items"})
		return
	}

	err = database.DB.Order("created_at DESC").Limit(10).Find(&data.RecentOrders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent orders"})
		return
	}

	c.JSON(http.StatusOK, data)
}
