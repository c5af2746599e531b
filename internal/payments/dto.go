package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artnebula/artnebula-backend/pkg/enums"
)

// SubmitPaymentRequest is the payload accepted by the payment endpoint.
type SubmitPaymentRequest struct {
	Method          string  `json:"payment_method" validate:"required"`
	ReferenceNumber *string `json:"reference_number,omitempty"`
}

// PaymentDTO is returned after a payment is recorded.
type PaymentDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrderID         uuid.UUID           `json:"order_id"`
	TransactionID   string              `json:"transaction_id"`
	Amount          decimal.Decimal     `json:"amount"`
	Method          enums.PaymentMethod `json:"method"`
	ReferenceNumber *string             `json:"reference_number,omitempty"`
	PaymentDate     time.Time           `json:"payment_date"`
	Status          enums.PaymentStatus `json:"status"`
	OrderStatus     enums.OrderStatus   `json:"order_status"`
}
