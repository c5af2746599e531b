package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artnebula/artnebula-backend/internal/orders"
	"github.com/artnebula/artnebula-backend/pkg/enums"
	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
)

// reportSource provides the joined order rows the report is built from.
type reportSource interface {
	ReportRows(ctx context.Context, since *time.Time, status *enums.OrderStatus) ([]orders.ReportRow, error)
}

// Service computes sales reports for the back office.
type Service interface {
	ComputeReport(ctx context.Context, input ReportInput) (*ReportDTO, error)
}

// ReportInput holds the raw report filters. Zero values mean "all".
type ReportInput struct {
	Status    string
	DateRange string
}

// service implements the sales service.
type service struct {
	source reportSource
	now    func() time.Time
}

// NewService constructs a sales service backed by the orders repository.
func NewService(source reportSource) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("report source required")
	}
	return &service{source: source, now: time.Now}, nil
}

// ComputeReport lists the matching orders and aggregates them in one pass.
// Metrics are recomputed from the rows on every call rather than cached.
func (s *service) ComputeReport(ctx context.Context, input ReportInput) (*ReportDTO, error) {
	status, err := parseStatusFilter(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
	}

	dateRange := enums.DateRangeAll
	if input.DateRange != "" {
		dateRange, err = enums.ParseDateRange(input.DateRange)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date range")
		}
	}

	since := s.rangeStart(dateRange)
	rows, err := s.source.ReportRows(ctx, since, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: report rows")
	}

	report := &ReportDTO{
		Rows:      make([]ReportRowDTO, 0, len(rows)),
		DateRange: dateRange,
		Status:    input.Status,
	}
	if report.Status == "" {
		report.Status = "all"
	}

	totalSales := decimal.Zero
	completed := 0
	for _, row := range rows {
		report.Rows = append(report.Rows, ReportRowDTO{
			OrderID:      row.OrderID,
			CustomerName: row.CustomerName,
			TotalAmount:  row.TotalAmount,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
		})
		if row.Status == enums.OrderStatusCompleted {
			totalSales = totalSales.Add(row.TotalAmount)
			completed++
		}
	}

	report.Metrics = ReportMetrics{
		TotalSales:        totalSales,
		TotalOrders:       len(rows),
		CompletedOrders:   completed,
		AverageOrderValue: decimal.Zero,
	}
	if completed > 0 {
		report.Metrics.AverageOrderValue = totalSales.
			Div(decimal.NewFromInt(int64(completed))).
			Round(2)
	}
	return report, nil
}

// rangeStart maps a date range to its inclusive lower bound. The year range
// starts at January 1 of the current year, not 365 days back.
func (s *service) rangeStart(dateRange enums.DateRange) *time.Time {
	now := s.now().UTC()
	var since time.Time
	switch dateRange {
	case enums.DateRange7Days:
		since = now.AddDate(0, 0, -7)
	case enums.DateRange30Days:
		since = now.AddDate(0, 0, -30)
	case enums.DateRange90Days:
		since = now.AddDate(0, 0, -90)
	case enums.DateRangeYear:
		since = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil
	}
	return &since
}

func parseStatusFilter(value string) (*enums.OrderStatus, error) {
	if value == "" || value == "all" {
		return nil, nil
	}
	status, err := enums.ParseOrderStatus(value)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
