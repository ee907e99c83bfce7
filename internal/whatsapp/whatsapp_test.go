package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"go-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *models.Order {
	referral := "FRIEND"
	return &models.Order{
		OrderID:      "UC-0042",
		CustomerName: "Farhan Ahmed",
		Phone:        "01812345678",
		Address:      "45 New Market Road, Rajshahi",
		DeliveryArea: models.AreaOutside,
		Items: models.OrderItems{
			{ProductID: 1, Name: "Denim Jacket", Price: 1000, Size: "L", Quantity: 2},
			{ProductID: 2, Name: "Cap", Price: 250, Quantity: 1},
		},
		Subtotal:       2250,
		DeliveryCharge: 120,
		DiscountAmount: 100,
		ReferralCode:   &referral,
		Total:          2270,
	}
}

func TestOrderMessageContents(t *testing.T) {
	msg := OrderMessage(sampleOrder())

	assert.Contains(t, msg, "UC-0042")
	assert.Contains(t, msg, "Farhan Ahmed")
	assert.Contains(t, msg, "Denim Jacket (Size: L) x2 - ৳2000")
	assert.Contains(t, msg, "Cap x1 - ৳250")
	assert.Contains(t, msg, "*Subtotal:* ৳2250")
	assert.Contains(t, msg, "*Discount:* -৳100")
	assert.Contains(t, msg, "*Referral:* FRIEND")
	assert.Contains(t, msg, "*Total:* ৳2270")
	assert.Contains(t, msg, "Outside Rajshahi")
}

func TestOrderMessageOmitsEmptySections(t *testing.T) {
	order := sampleOrder()
	order.DiscountAmount = 0
	order.ReferralCode = nil

	msg := OrderMessage(order)
	assert.NotContains(t, msg, "Discount")
	assert.NotContains(t, msg, "Referral")
}

func TestOrderLinkEscapesMessage(t *testing.T) {
	link := OrderLink("8801700000000", sampleOrder())

	require.True(t, strings.HasPrefix(link, "https://wa.me/8801700000000?text="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	assert.Contains(t, text, "UC-0042")
	assert.Contains(t, text, "Farhan Ahmed")
}

func TestOrderLinkDefaultNumber(t *testing.T) {
	link := OrderLink("", sampleOrder())
	assert.Contains(t, link, "wa.me/"+defaultNumber)
}
