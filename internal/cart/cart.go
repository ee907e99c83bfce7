// Package cart holds the line-item aggregation rules shared by the shop
// client and the checkout endpoint: duplicate product+size entries merge,
// and quantities are always clamped to the last-known stock ceiling.
package cart

import (
	"fmt"
	"time"

	"go-storefront/internal/models"
)

// Item is one cart line. StockQuantity is the ceiling the quantity is
// clamped against; it is the client's last-known value, not live stock.
type Item struct {
	ID            string `json:"id"`
	ProductID     uint   `json:"product_id"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
	OriginalPrice int    `json:"original_price"`
	Size          string `json:"size"`
	ImageURL      string `json:"image_url"`
	Quantity      int    `json:"quantity"`
	StockQuantity int    `json:"stock_quantity"`
}

// Cart aggregates items. The zero value is an empty, usable cart.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Items returns the lines in insertion order.
func (c *Cart) Items() []Item {
	return c.items
}

// Add merges into an existing product+size line, clamping the summed
// quantity to the stock ceiling, or appends a new line with a derived id.
func (c *Cart) Add(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	for i := range c.items {
		if c.items[i].ProductID == item.ProductID && c.items[i].Size == item.Size {
			c.items[i].Quantity = clamp(c.items[i].Quantity+item.Quantity, item.StockQuantity)
			return
		}
	}

	item.ID = fmt.Sprintf("%d-%s-%d", item.ProductID, item.Size, time.Now().UnixNano())
	item.Quantity = clamp(item.Quantity, item.StockQuantity)
	c.items = append(c.items, item)
}

// UpdateQuantity sets a line's quantity, clamped to stock. A quantity
// below 1 removes the line entirely.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity < 1 {
		c.Remove(id)
		return
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = clamp(quantity, c.items[i].StockQuantity)
			return
		}
	}
}

// Remove drops a line by id. Unknown ids are a no-op.
func (c *Cart) Remove(id string) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// ItemCount is the total quantity across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Subtotal is the sum of price x quantity across all lines.
func (c *Cart) Subtotal() int {
	sum := 0
	for _, item := range c.items {
		sum += item.Price * item.Quantity
	}
	return sum
}

// ToOrderItems snapshots the cart into order line items.
func (c *Cart) ToOrderItems() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}
	return items
}

// clamp caps the quantity at the stock ceiling. A non-positive ceiling
// means the client sent none; the line stays at its quantity and the live
// stock check at checkout is the real gate. Lines therefore never clamp
// below 1.
func clamp(quantity, stock int) int {
	if stock > 0 && quantity > stock {
		return stock
	}
	return quantity
}
