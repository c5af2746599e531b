package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artnebula/artnebula-backend/pkg/db/models"
	"github.com/artnebula/artnebula-backend/pkg/enums"
)

// OrderItemDTO is one purchased line, denormalized at checkout time.
type OrderItemDTO struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentInfoDTO summarizes the payment attached to an order, when any.
type PaymentInfoDTO struct {
	TransactionID   string              `json:"transaction_id"`
	Method          enums.PaymentMethod `json:"payment_method"`
	ReferenceNumber *string             `json:"reference_number,omitempty"`
	PaymentDate     time.Time           `json:"payment_date"`
	Status          enums.PaymentStatus `json:"status"`
}

// OrderSummaryDTO is the shape returned by order listings.
type OrderSummaryDTO struct {
	ID          uuid.UUID         `json:"id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Status      enums.OrderStatus `json:"status"`
	ItemCount   int               `json:"item_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

// OrderDetailDTO is the full order view with lines and payment.
type OrderDetailDTO struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	ShippingAddress string               `json:"shipping_address"`
	City            string               `json:"city"`
	PostalCode      string               `json:"postal_code"`
	Phone           string               `json:"phone"`
	Status          enums.OrderStatus    `json:"status"`
	PaymentMethod   *enums.PaymentMethod `json:"payment_method,omitempty"`
	Items           []OrderItemDTO       `json:"items"`
	Payment         *PaymentInfoDTO      `json:"payment,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// OrderListResult couples a page of orders with the cursor for the next one.
type OrderListResult struct {
	Orders     []OrderSummaryDTO `json:"orders"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}

// NewOrderSummaryDTO converts the persistence model into its list shape.
func NewOrderSummaryDTO(order models.Order) OrderSummaryDTO {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderSummaryDTO{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		ItemCount:   count,
		CreatedAt:   order.CreatedAt,
	}
}

// NewOrderDetailDTO converts the persistence model into its detail shape.
func NewOrderDetailDTO(order models.Order) OrderDetailDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}

	dto := OrderDetailDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		City:            order.City,
		PostalCode:      order.PostalCode,
		Phone:           order.Phone,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if order.Payment != nil {
		dto.Payment = &PaymentInfoDTO{
			TransactionID:   order.Payment.TransactionID,
			Method:          order.Payment.Method,
			ReferenceNumber: order.Payment.ReferenceNumber,
			PaymentDate:     order.Payment.PaymentDate,
			Status:          order.Payment.Status,
		}
	}
	return dto
}
