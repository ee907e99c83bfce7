// Package whatsapp builds the checkout deep link. There is no payment
// gateway: a placed order redirects the customer to a prefilled WhatsApp
// conversation with the shop.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"go-storefront/internal/models"
)

const defaultNumber = "8801880545357"

// OrderLink renders the order summary message and wraps it in a wa.me URL.
// number falls back to the shop's default when empty.
func OrderLink(number string, order *models.Order) string {
	if number == "" {
		number = defaultNumber
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(OrderMessage(order)))
}

// OrderMessage is the plain-text summary sent to the shop.
func OrderMessage(order *models.Order) string {
	var b strings.Builder

	b.WriteString("🛍️ *New Order from Unity Collection*\n\n")
	fmt.Fprintf(&b, "📋 *Order ID:* %s\n", order.OrderID)
	fmt.Fprintf(&b, "👤 *Name:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "📞 *Phone:* %s\n", order.Phone)
	fmt.Fprintf(&b, "📍 *Address:* %s\n", order.Address)
	fmt.Fprintf(&b, "🚚 *Delivery:* %s\n\n", areaLabel(order.DeliveryArea))

	b.WriteString("🛒 *Products:*\n")
	for _, item := range order.Items {
		size := ""
		if item.Size != "" {
			size = fmt.Sprintf(" (Size: %s)", item.Size)
		}
		fmt.Fprintf(&b, "• %s%s x%d - ৳%d\n", item.Name, size, item.Quantity, item.Price*item.Quantity)
	}

	fmt.Fprintf(&b, "\n💰 *Subtotal:* ৳%d\n", order.Subtotal)
	fmt.Fprintf(&b, "🚚 *Delivery:* ৳%d\n", order.DeliveryCharge)
	if order.DiscountAmount > 0 {
		fmt.Fprintf(&b, "🎟️ *Discount:* -৳%d\n", order.DiscountAmount)
	}
	if order.ReferralCode != nil {
		fmt.Fprintf(&b, "👥 *Referral:* %s\n", *order.ReferralCode)
	}
	fmt.Fprintf(&b, "✅ *Total:* ৳%d", order.Total)

	return b.String()
}

func areaLabel(area string) string {
	if area == models.AreaDhaka {
		return "Inside Rajshahi"
	}
	return "Outside Rajshahi"
}
