package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artnebula/artnebula-backend/pkg/enums"
)

// Order is the durable record of a placed purchase. Rows are immutable after
// creation apart from status and payment_method.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(10,2);not null"`
	ShippingAddress string               `gorm:"column:shipping_address;not null"`
	City            string               `gorm:"column:city;not null"`
	PostalCode      string               `gorm:"column:postal_code;not null"`
	Phone           string               `gorm:"column:phone;not null"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMethod   *enums.PaymentMethod `gorm:"column:payment_method;type:text"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment         *Payment             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
