package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artnebula/artnebula-backend/pkg/enums"
)

// ReportRowDTO is one order line in the sales report.
type ReportRowDTO struct {
	OrderID      uuid.UUID         `json:"order_id"`
	CustomerName string            `json:"customer_name"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	Status       enums.OrderStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ReportMetrics aggregates the listed orders. TotalSales counts completed
// orders only; the average divides it by the completed count.
type ReportMetrics struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalOrders       int             `json:"total_orders"`
	CompletedOrders   int             `json:"completed_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// ReportDTO is the full sales report payload.
type ReportDTO struct {
	Rows      []ReportRowDTO  `json:"rows"`
	Metrics   ReportMetrics   `json:"metrics"`
	Status    string          `json:"status_filter"`
	DateRange enums.DateRange `json:"date_range"`
}
