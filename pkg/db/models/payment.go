package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artnebula/artnebula-backend/pkg/enums"
)

// Payment records how a pending order was settled. An order carries at most
// one effective payment; no partial or split payments are modeled.
type Payment struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	TransactionID   string              `gorm:"column:transaction_id;not null;uniqueIndex"`
	Amount          decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Method          enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	ReferenceNumber *string             `gorm:"column:reference_number"`
	PaymentDate     time.Time           `gorm:"column:payment_date;not null"`
	Status          enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'completed'"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
