package cart

import (
	"github.com/shopspring/decimal"
)

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// NewCartDTO builds the response payload from the stored cart.
func NewCartDTO(cart *Cart) *CartDTO {
	if cart == nil {
		cart = &Cart{}
	}
	items := cart.Items
	if items == nil {
		items = []Item{}
	}
	return &CartDTO{
		Items: items,
		Total: cart.Total(),
		Count: cart.Count(),
	}
}
