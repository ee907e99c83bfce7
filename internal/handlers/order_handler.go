package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-storefront/internal/database"
	"go-storefront/internal/models"
	"go-storefront/internal/orders"

	"github.com/gin-gonic/gin"
)

// --- GET /api/admin/orders ---
// Supports the console filters: status, free-text search over order id /
// name / phone, and referral code.
func AdminListOrders(c *gin.Context) {
	query := database.DB.Order("created_at DESC")

	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("order_id LIKE ? OR customer_name LIKE ? OR phone LIKE ?", like, like, like)
	}
	if referral := c.Query("referral"); referral != "" {
		query = query.Where("referral_code LIKE ?", "%"+referral+"%")
	}

	var orderRows []models.Order
	if err := query.Find(&orderRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orderRows)
}

// --- GET /api/admin/orders/:id ---
func AdminGetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Order ID"})
		return
	}

	manager := orders.NewManager(database.DB)
	order, err := manager.Get(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- PUT /api/admin/orders/:id/status ---
// Setting cancelled or returned here routes through the stock-restoring
// paths; everything else is a plain relabel.
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Order ID"})
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	manager := orders.NewManager(database.DB)
	if err := manager.UpdateStatus(uint(id), req.Status); err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// --- POST /api/admin/orders/:id/return ---
func ReturnOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Order ID"})
		return
	}

	manager := orders.NewManager(database.DB)
	if err := manager.MarkReturned(uint(id)); err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order marked as returned! Stock has been restored."})
}

// --- POST /api/admin/orders/:id/cancel ---
func CancelOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Order ID"})
		return
	}

	manager := orders.NewManager(database.DB)
	if err := manager.Cancel(uint(id)); err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled! Stock has been restored."})
}

// --- DELETE /api/admin/orders/:id ---
func DeleteOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Order ID"})
		return
	}

	manager := orders.NewManager(database.DB)
	if err := manager.Delete(uint(id)); err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted! Stock has been restored."})
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, orders.ErrAlreadyFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": "Order is already cancelled or returned"})
	case errors.Is(err, orders.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}
