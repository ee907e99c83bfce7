package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"go-storefront/internal/cart"
	"go-storefront/internal/database"
	"go-storefront/internal/orders"
	"go-storefront/internal/pricing"
	"go-storefront/internal/promotions"
	"go-storefront/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest is what the shop frontend submits. Discount amounts are
// deliberately absent: the server recomputes everything from the codes.
type CheckoutRequest struct {
	CustomerName string      `json:"customer_name" binding:"required,min=2,max=100"`
	Phone        string      `json:"phone" binding:"required,min=11,max=15"`
	Address      string      `json:"address" binding:"required,min=10,max=500"`
	DeliveryArea string      `json:"delivery_area" binding:"required,oneof=dhaka outside"`
	Items        []cart.Item `json:"items" binding:"required"`
	CouponCode   string      `json:"coupon_code"`
	ReferralCode string      `json:"referral_code"`
}

// normalizeItems runs the raw payload through the cart rules so duplicate
// product+size lines merge and quantities stay inside the stock ceiling.
func normalizeItems(items []cart.Item) *cart.Cart {
	c := cart.New()
	for _, item := range items {
		c.Add(item)
	}
	return c
}

// --- POST /api/checkout ---
func Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	basket := normalizeItems(req.Items)

	manager := orders.NewManager(database.DB)
	result, err := manager.Create(orders.Customer{
		Name:         req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		DeliveryArea: req.DeliveryArea,
	}, basket.ToOrderItems(), req.CouponCode, req.ReferralCode)

	if err != nil {
		var short orders.ErrInsufficientStock
		switch {
		case errors.As(err, &short):
			c.JSON(http.StatusConflict, gin.H{"error": short.Error()})
		case promotions.IsRejection(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, orders.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":        result.Order,
		"breakdown":    result.Breakdown,
		"whatsapp_url": whatsapp.OrderLink(os.Getenv("WHATSAPP_NUMBER"), result.Order),
	})
}

// PreviewRequest asks for a price breakdown without placing an order.
type PreviewRequest struct {
	Items        []cart.Item `json:"items" binding:"required"`
	DeliveryArea string      `json:"delivery_area" binding:"required,oneof=dhaka outside"`
	Phone        string      `json:"phone"`
	CouponCode   string      `json:"coupon_code"`
}

// --- POST /api/checkout/preview ---
// Same pricing rules as checkout, no writes and no stock check. The stock
// check only matters at submit time anyway — the shelf can change in
// between and the preview makes no promises.
func CheckoutPreview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	basket := normalizeItems(req.Items)
	items := basket.ToOrderItems()
	subtotal := basket.Subtotal()

	resolver := promotions.NewResolver(database.DB)

	couponDiscount := 0
	var applied *promotions.AppliedCoupon
	if req.CouponCode != "" {
		coupon, err := resolver.ValidateCoupon(req.CouponCode, subtotal)
		if err != nil {
			respondPromotionError(c, err)
			return
		}
		applied = coupon
		couponDiscount = coupon.Discount
	}

	memberDiscount := 0
	match, err := resolver.DetectMember(req.Phone, subtotal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up member"})
		return
	}
	if match != nil {
		memberDiscount = match.Discount
	}

	breakdown, err := pricing.Compute(items, req.DeliveryArea, couponDiscount, memberDiscount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery area"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"breakdown": breakdown,
		"coupon":    applied,
		"member":    match,
	})
}

// ValidateCouponRequest - on-demand coupon check while the form is open.
type ValidateCouponRequest struct {
	Code     string `json:"code" binding:"required"`
	Subtotal int    `json:"subtotal" binding:"required"`
}

// --- POST /api/coupons/validate ---
func ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resolver := promotions.NewResolver(database.DB)
	applied, err := resolver.ValidateCoupon(req.Code, req.Subtotal)
	if err != nil {
		respondPromotionError(c, err)
		return
	}

	c.JSON(http.StatusOK, applied)
}

// ValidateReferralRequest - on-demand referral check.
type ValidateReferralRequest struct {
	Code string `json:"code" binding:"required"`
}

// --- POST /api/referrals/validate ---
func ValidateReferral(c *gin.Context) {
	var req ValidateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resolver := promotions.NewResolver(database.DB)
	code, err := resolver.ValidateReferral(req.Code)
	if err != nil {
		respondPromotionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code})
}

// --- GET /api/members/detect?phone=&subtotal= ---
// The shop calls this once the phone field settles. A miss is a normal
// 200 with member: null, never an error the customer sees.
func DetectMember(c *gin.Context) {
	phone := c.Query("phone")
	subtotal, _ := strconv.Atoi(c.Query("subtotal"))

	resolver := promotions.NewResolver(database.DB)
	match, err := resolver.DetectMember(phone, subtotal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up member"})
		return
	}
	if match == nil {
		c.JSON(http.StatusOK, gin.H{"member": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member":   match.Member,
		"discount": match.Discount,
		"message":  "Welcome back, " + match.Member.Name + "!",
	})
}

func respondPromotionError(c *gin.Context, err error) {
	if promotions.IsRejection(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
}
