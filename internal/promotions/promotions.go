// Package promotions validates customer-supplied codes against the store's
// business rules. Three independent code families exist: coupons (price
// effect), referrals (attribution only) and members (auto-detected by
// phone). A checkout combines at most one of each.
package promotions

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-storefront/internal/models"
	"go-storefront/internal/pricing"

	"gorm.io/gorm"
)

// Rejection is a user-correctable failure: the reason goes straight to the
// customer. Infra errors are returned separately and never wrapped in it.
type Rejection struct {
	Reason string
}

func (r Rejection) Error() string {
	return r.Reason
}

// IsRejection reports whether err is a business-rule rejection rather than
// an infrastructure failure.
func IsRejection(err error) bool {
	var r Rejection
	return errors.As(err, &r)
}

// AppliedCoupon is the normalized result of a successful coupon validation.
type AppliedCoupon struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
}

// MemberMatch pairs a detected member with the discount they earn on the
// current subtotal.
type MemberMatch struct {
	Member   models.Member `json:"member"`
	Discount int           `json:"discount"`
}

// Phone numbers shorter than this are never looked up, matching the
// storefront's 11-digit local numbers.
const minPhoneDigits = 11

// Resolver validates promotion codes against the store. All lookups are
// read-only; usage counters are bumped by the order lifecycle, not here.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ValidateCoupon checks a raw code against the active coupons and computes
// the discount it grants on the given subtotal. Validation is stateless, so
// re-validating an already applied code just returns the same result.
func (r *Resolver) ValidateCoupon(code string, subtotal int) (*AppliedCoupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var coupon models.Coupon
	err := r.db.Where("code = ? AND is_active = ?", code, true).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Rejection{Reason: "Invalid coupon code"}
	}
	if err != nil {
		return nil, err
	}

	if coupon.ExpiryDate != nil && coupon.ExpiryDate.Before(time.Now()) {
		return nil, Rejection{Reason: "Coupon has expired"}
	}

	if coupon.MinPurchase != nil && subtotal < *coupon.MinPurchase {
		return nil, Rejection{Reason: fmt.Sprintf("Minimum purchase of ৳%d required", *coupon.MinPurchase)}
	}

	discount := pricing.DiscountFor(coupon.DiscountType, coupon.DiscountValue, subtotal)

	return &AppliedCoupon{Code: coupon.Code, Discount: discount}, nil
}

// ValidateReferral checks a referral code. The code has no effect on the
// order total; it is stored for commission reporting.
func (r *Resolver) ValidateReferral(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var referral models.Referral
	err := r.db.Where("code = ? AND is_active = ?", code, true).First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", Rejection{Reason: "Invalid referral code"}
	}
	if err != nil {
		return "", err
	}

	return referral.Code, nil
}

// DetectMember looks up an active member by exact phone match and computes
// their discount on the current subtotal. A miss is (nil, nil) — not being
// a member is not an error.
func (r *Resolver) DetectMember(phone string, subtotal int) (*MemberMatch, error) {
	phone = strings.TrimSpace(phone)
	if len(phone) < minPhoneDigits {
		return nil, nil
	}

	var member models.Member
	err := r.db.Where("phone = ? AND is_active = ?", phone, true).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	discount := pricing.DiscountFor(member.DiscountType, member.DiscountValue, subtotal)

	return &MemberMatch{Member: member, Discount: discount}, nil
}

// ReferralStats is the admin-facing commission summary for one code.
type ReferralStats struct {
	Code            string `json:"code"`
	TotalOrders     int64  `json:"total_orders"`
	DeliveredOrders int64  `json:"delivered_orders"`
	DeliveredSales  int    `json:"delivered_sales"`
	Commission      int    `json:"commission"`
}

// StatsFor aggregates orders carrying a referral code. Only delivered orders
// earn commission: fixed pays per delivered order, percentage pays on the
// delivered sales sum.
func (r *Resolver) StatsFor(code string) (*ReferralStats, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var referral models.Referral
	err := r.db.Where("code = ?", code).First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Rejection{Reason: "Invalid referral code"}
	}
	if err != nil {
		return nil, err
	}

	stats := ReferralStats{Code: referral.Code}

	if err := r.db.Model(&models.Order{}).
		Where("referral_code = ?", referral.Code).
		Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Order{}).
		Where("referral_code = ? AND status = ?", referral.Code, models.StatusDelivered).
		Count(&stats.DeliveredOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Order{}).
		Where("referral_code = ? AND status = ?", referral.Code, models.StatusDelivered).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.DeliveredSales).Error; err != nil {
		return nil, err
	}

	if referral.CommissionType == models.DiscountFixed {
		stats.Commission = referral.CommissionValue * int(stats.DeliveredOrders)
	} else {
		stats.Commission = pricing.PercentageDiscount(stats.DeliveredSales, referral.CommissionValue)
	}

	return &stats, nil
}
