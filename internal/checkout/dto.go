package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artnebula/artnebula-backend/pkg/enums"
)

// ShippingDetails is the delivery information collected at checkout.
type ShippingDetails struct {
	Address    string `json:"shipping_address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

// OrderLine is one purchased product inside the confirmation payload.
type OrderLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderConfirmation is returned after a successful checkout.
type OrderConfirmation struct {
	OrderID     uuid.UUID         `json:"order_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []OrderLine       `json:"items"`
	PlacedAt    time.Time         `json:"placed_at"`
}
