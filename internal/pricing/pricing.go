// Package pricing computes an order's monetary breakdown. Everything here is
// a pure function over integer taka amounts; nothing touches the database.
package pricing

import (
	"fmt"
	"math"

	"go-storefront/internal/models"
)

// Flat two-tier delivery rates in taka.
const (
	DeliveryChargeDhaka   = 60
	DeliveryChargeOutside = 120
)

// Breakdown is the full monetary picture of an order before it is persisted.
type Breakdown struct {
	Subtotal       int `json:"subtotal"`
	DeliveryCharge int `json:"delivery_charge"`
	Discount       int `json:"discount"`
	Total          int `json:"total"`
}

// ErrUnknownArea rejects delivery areas outside the two-zone table.
type ErrUnknownArea struct {
	Area string
}

func (e ErrUnknownArea) Error() string {
	return fmt.Sprintf("unknown delivery area %q", e.Area)
}

// DeliveryCharge returns the flat rate for a delivery zone.
func DeliveryCharge(area string) (int, error) {
	switch area {
	case models.AreaDhaka:
		return DeliveryChargeDhaka, nil
	case models.AreaOutside:
		return DeliveryChargeOutside, nil
	default:
		return 0, ErrUnknownArea{Area: area}
	}
}

// Subtotal sums price x quantity over the line items.
func Subtotal(items []models.OrderItem) int {
	sum := 0
	for _, item := range items {
		sum += item.Price * item.Quantity
	}
	return sum
}

// PercentageDiscount rounds to the nearest taka (10% of 999 is 100, not 99).
func PercentageDiscount(subtotal, percent int) int {
	return int(math.Round(float64(subtotal) * float64(percent) / 100))
}

// DiscountFor applies the shared fixed/percentage rule used by both coupons
// and member discounts.
func DiscountFor(discountType string, value, subtotal int) int {
	if discountType == models.DiscountPercentage {
		return PercentageDiscount(subtotal, value)
	}
	return value
}

// Compute builds the final breakdown. Coupon and member discounts stack
// additively; referral codes are attribution-only and contribute nothing.
// The total is clamped at zero so a generous discount combination can never
// produce a negative charge.
func Compute(items []models.OrderItem, area string, couponDiscount, memberDiscount int) (Breakdown, error) {
	delivery, err := DeliveryCharge(area)
	if err != nil {
		return Breakdown{}, err
	}

	subtotal := Subtotal(items)
	discount := couponDiscount + memberDiscount

	total := subtotal + delivery - discount
	if total < 0 {
		total = 0
	}

	return Breakdown{
		Subtotal:       subtotal,
		DeliveryCharge: delivery,
		Discount:       discount,
		Total:          total,
	}, nil
}
