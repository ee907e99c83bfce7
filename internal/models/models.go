package models

import (
	"time"
)

// User - Admin console account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff'
	CreatedAt    time.Time `json:"created_at"`
}

// Category groups products. Products reference it weakly (nullable).
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Product - The catalog entry. All prices are integer taka.
type Product struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"size:200" json:"name"`
	Description   string     `json:"description"`
	Price         int        `json:"price"`
	DiscountPrice *int       `json:"discount_price"` // only effective when < Price
	StockQuantity int        `json:"stock_quantity"`
	Sizes         StringList `gorm:"type:json" json:"sizes"`
	ImageURLs     StringList `gorm:"type:json" json:"image_urls"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	IsFeatured    bool       `json:"is_featured"`
	SoldCount     int        `json:"sold_count"`
	CategoryID    *uint      `json:"category_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// EffectivePrice is the customer-facing unit price. The discount price only
// applies when it actually undercuts the base price.
func (p *Product) EffectivePrice() int {
	if p.DiscountPrice != nil && *p.DiscountPrice < p.Price {
		return *p.DiscountPrice
	}
	return p.Price
}

// Banner - Homepage hero slides
type Banner struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ImageURL     string    `json:"image_url"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Link         string    `json:"link"`
	OverlayType  string    `json:"overlay_type"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Notice - The scrolling announcement bar
type Notice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `json:"text"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Discount type values shared by coupons, members and referral commissions.
const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

// Coupon - Store-wide discount code. Codes are stored uppercase.
type Coupon struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Code          string     `gorm:"uniqueIndex;size:50" json:"code"`
	DiscountType  string     `json:"discount_type"` // fixed | percentage
	DiscountValue int        `json:"discount_value"`
	MinPurchase   *int       `json:"min_purchase"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	UsageCount    int        `json:"usage_count"` // informational, not a limit
	CreatedAt     time.Time  `json:"created_at"`
}

// Referral - Attribution-only code. Never changes the customer's total;
// commissions are reported from delivered orders carrying the code.
type Referral struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Code            string    `gorm:"uniqueIndex;size:50" json:"code"`
	ReferrerName    string    `gorm:"size:100" json:"referrer_name"`
	CommissionType  string    `json:"commission_type"` // fixed | percentage
	CommissionValue int       `json:"commission_value"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Member - Recognized repeat customer, detected by exact phone match at
// checkout. Created by admins or auto-enrolled once cumulative purchases
// cross the membership threshold setting.
type Member struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MemberCode     string    `gorm:"uniqueIndex;size:20" json:"member_code"`
	Name           string    `gorm:"size:100" json:"name"`
	Phone          string    `gorm:"index;size:20" json:"phone"`
	Address        string    `json:"address"`
	Email          string    `json:"email"`
	DiscountType   string    `json:"discount_type"`
	DiscountValue  int       `json:"discount_value"`
	TotalPurchases int       `json:"total_purchases"` // cumulative, informational
	OrderCount     int       `json:"order_count"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Order statuses. Transitions into cancelled/returned restore stock exactly
// once; both are terminal afterwards.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
	StatusReturned  = "returned"
)

// Delivery zones. Flat-rate two-tier table: "dhaka" is the local zone,
// "outside" is everything else.
const (
	AreaDhaka   = "dhaka"
	AreaOutside = "outside"
)

// Order - A placed order. Items are a snapshot taken at checkout time so
// later product edits never rewrite history.
type Order struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OrderID        string     `gorm:"uniqueIndex;size:20" json:"order_id"` // human-readable, e.g. UC-0042
	CustomerName   string     `gorm:"size:100" json:"customer_name"`
	Phone          string     `gorm:"index;size:20" json:"phone"`
	Address        string     `json:"address"`
	DeliveryArea   string     `json:"delivery_area"` // dhaka | outside
	Items          OrderItems `gorm:"type:json" json:"items"`
	Subtotal       int        `json:"subtotal"`
	DeliveryCharge int        `json:"delivery_charge"`
	DiscountAmount int        `json:"discount_amount"`
	CouponCode     *string    `gorm:"size:50" json:"coupon_code"`
	ReferralCode   *string    `gorm:"index;size:50" json:"referral_code"`
	MemberID       *uint      `json:"member_id"` // weak reference, survives member deletion
	Total          int        `json:"total"`
	Status         string     `gorm:"index;size:20;default:pending" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// OrderItem - One snapshotted line of an order.
type OrderItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"` // unit price at order time
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Setting - Generic key/value row. Values are raw JSON; the settings
// package parses them into typed structs once per use.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:50" json:"key"`
	Value     string    `gorm:"type:json" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
