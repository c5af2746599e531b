package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line. Name, price, and image are snapshotted when the
// product is added so the cart stays stable if the catalog changes.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImagePath *string         `json:"image_path,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the per-user cart document stored in Redis.
type Cart struct {
	Items []Item `json:"items"`
}

// Find returns the index of the line holding productID, or -1.
func (c *Cart) Find(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Total sums price*quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count sums the quantities over all lines.
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Remove drops the line holding productID, if present.
func (c *Cart) Remove(productID uuid.UUID) {
	idx := c.Find(productID)
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}
