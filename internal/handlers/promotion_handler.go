package handlers

import (
	"net/http"
	"strings"

	"go-storefront/internal/database"
	"go-storefront/internal/models"
	"go-storefront/internal/orders"
	"go-storefront/internal/promotions"
	"go-storefront/internal/settings"

	"github.com/gin-gonic/gin"
)

// --- GET /api/admin/coupons ---
func AdminListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := database.DB.Order("created_at DESC").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
		return
	}
	c.JSON(http.StatusOK, coupons)
}

// --- POST /api/admin/coupons ---
func AddCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Codes live uppercase so customer input can be matched case-blind
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if coupon.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code is required"})
		return
	}
	if coupon.DiscountType != models.DiscountFixed && coupon.DiscountType != models.DiscountPercentage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount type must be fixed or percentage"})
		return
	}

	if err := database.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code already exists"})
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

// --- PUT /api/admin/coupons/:id ---
func UpdateCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := database.DB.First(&coupon, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if code, ok := updateData["code"].(string); ok {
		updateData["code"] = strings.ToUpper(strings.TrimSpace(code))
	}

	if err := database.DB.Model(&coupon).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coupon"})
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// --- DELETE /api/admin/coupons/:id ---
func DeleteCoupon(c *gin.Context) {
	if err := database.DB.Delete(&models.Coupon{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete coupon"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
}

// --- GET /api/admin/referrals ---
func AdminListReferrals(c *gin.Context) {
	var referrals []models.Referral
	if err := database.DB.Order("created_at DESC").Find(&referrals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referrals"})
		return
	}
	c.JSON(http.StatusOK, referrals)
}

// --- POST /api/admin/referrals ---
func AddReferral(c *gin.Context) {
	var referral models.Referral
	if err := c.ShouldBindJSON(&referral); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	referral.Code = strings.ToUpper(strings.TrimSpace(referral.Code))
	if referral.Code == "" || referral.ReferrerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code and referrer name are required"})
		return
	}

	if err := database.DB.Create(&referral).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Referral code already exists"})
		return
	}
	c.JSON(http.StatusCreated, referral)
}

// --- PUT /api/admin/referrals/:id ---
func UpdateReferral(c *gin.Context) {
	var referral models.Referral
	if err := database.DB.First(&referral, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Referral not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if code, ok := updateData["code"].(string); ok {
		updateData["code"] = strings.ToUpper(strings.TrimSpace(code))
	}

	if err := database.DB.Model(&referral).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update referral"})
		return
	}
	c.JSON(http.StatusOK, referral)
}

// --- DELETE /api/admin/referrals/:id ---
func DeleteReferral(c *gin.Context) {
	if err := database.DB.Delete(&models.Referral{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete referral"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Referral deleted successfully"})
}

// --- GET /api/admin/referrals/:id/stats ---
// Commission summary: fixed pays per delivered order, percentage pays on
// the delivered sales total.
func ReferralStats(c *gin.Context) {
	var referral models.Referral
	if err := database.DB.First(&referral, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Referral not found"})
		return
	}

	resolver := promotions.NewResolver(database.DB)
	stats, err := resolver.StatsFor(referral.Code)
	if err != nil {
		if promotions.IsRejection(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- GET /api/admin/members ---
func AdminListMembers(c *gin.Context) {
	query := database.DB.Order("created_at DESC")
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR member_code LIKE ?", like, like, like)
	}

	var members []models.Member
	if err := query.Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// --- POST /api/admin/members ---
func AddMember(c *gin.Context) {
	var member models.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if member.Name == "" || member.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and phone are required"})
		return
	}

	// The code is system-assigned, admins never pick it
	member.MemberCode = orders.NewMemberCode()

	if err := database.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}
	c.JSON(http.StatusCreated, member)
}

// --- PUT /api/admin/members/:id ---
func UpdateMember(c *gin.Context) {
	var member models.Member
	if err := database.DB.First(&member, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	delete(updateData, "member_code") // immutable once assigned

	if err := database.DB.Model(&member).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// --- DELETE /api/admin/members/:id ---
// Orders keep their member_id; the reference is weak and nothing cascades.
func DeleteMember(c *gin.Context) {
	if err := database.DB.Delete(&models.Member{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// --- GET /api/admin/members/:id/orders ---
func MemberOrders(c *gin.Context) {
	var orderRows []models.Order
	err := database.DB.Where("member_id = ?", c.Param("id")).
		Order("created_at DESC").
		Find(&orderRows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch member orders"})
		return
	}
	c.JSON(http.StatusOK, orderRows)
}

// --- GET /api/admin/settings/membership ---
func GetMembershipSettings(c *gin.Context) {
	m, err := settings.LoadMembership(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// --- PUT /api/admin/settings/membership ---
func UpdateMembershipSettings(c *gin.Context) {
	var m settings.Membership
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if m.DefaultDiscount.Type != models.DiscountFixed && m.DefaultDiscount.Type != models.DiscountPercentage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount type must be fixed or percentage"})
		return
	}

	if err := settings.SaveMembership(database.DB, m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, m)
}
