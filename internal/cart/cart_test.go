package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shirt(quantity int) Item {
	return Item{
		ProductID:     7,
		Name:          "Linen Shirt",
		Price:         900,
		Size:          "M",
		Quantity:      quantity,
		StockQuantity: 3,
	}
}

func TestAddMergesSameProductAndSize(t *testing.T) {
	c := New()
	c.Add(shirt(2))
	c.Add(shirt(2))

	require.Len(t, c.Items(), 1)
	// stock is 3, so 2+2 clamps to 3 rather than 4
	assert.Equal(t, 3, c.Items()[0].Quantity)
}

func TestAddNeverProducesZeroQuantityLine(t *testing.T) {
	c := New()
	item := shirt(2)
	item.StockQuantity = 0 // client sent no ceiling
	c.Add(item)

	require.Len(t, c.Items(), 1)
	assert.Equal(t, 2, c.Items()[0].Quantity)

	c.Add(Item{ProductID: 9, Quantity: 0, StockQuantity: 0})
	require.Len(t, c.Items(), 2)
	assert.Equal(t, 1, c.Items()[1].Quantity)
}

func TestAddDifferentSizesStaySeparate(t *testing.T) {
	c := New()
	c.Add(shirt(1))

	other := shirt(1)
	other.Size = "L"
	c.Add(other)

	assert.Len(t, c.Items(), 2)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	c := New()
	c.Add(shirt(1))
	id := c.Items()[0].ID

	c.UpdateQuantity(id, 0)
	assert.Empty(t, c.Items())
}

func TestUpdateQuantityClampsToStock(t *testing.T) {
	c := New()
	item := shirt(1)
	item.StockQuantity = 5
	c.Add(item)
	id := c.Items()[0].ID

	c.UpdateQuantity(id, 1000)
	assert.Equal(t, 5, c.Items()[0].Quantity)
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	c.Add(shirt(1))
	other := shirt(1)
	other.ProductID = 8
	c.Add(other)

	c.Remove(c.Items()[0].ID)
	assert.Len(t, c.Items(), 1)

	c.Clear()
	assert.Empty(t, c.Items())
}

func TestDerivedValues(t *testing.T) {
	c := New()
	c.Add(Item{ProductID: 1, Price: 500, Quantity: 2, StockQuantity: 10})
	c.Add(Item{ProductID: 2, Price: 120, Quantity: 3, StockQuantity: 10})

	assert.Equal(t, 5, c.ItemCount())
	assert.Equal(t, 1360, c.Subtotal())
}

func TestToOrderItemsSnapshots(t *testing.T) {
	c := New()
	c.Add(shirt(2))

	items := c.ToOrderItems()
	require.Len(t, items, 1)
	assert.Equal(t, uint(7), items[0].ProductID)
	assert.Equal(t, "Linen Shirt", items[0].Name)
	assert.Equal(t, 900, items[0].Price)
	assert.Equal(t, "M", items[0].Size)
	assert.Equal(t, 2, items[0].Quantity)
}
