package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artnebula/artnebula-backend/pkg/enums"
	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
	"github.com/artnebula/artnebula-backend/pkg/pagination"
)

// Service exposes order history and back-office order management.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderSummaryDTO, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error)
	VerifyReceipt(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error)
	AdminList(ctx context.Context, input AdminListInput) (*OrderListResult, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDetailDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDetailDTO, error)
}

// AdminListInput holds back-office listing filters.
type AdminListInput struct {
	Status string
	Limit  int
	Cursor string
}

// service implements the orders service.
type service struct {
	repo *Repository
}

// NewService constructs an orders service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderSummaryDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	summaries := make([]OrderSummaryDTO, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, NewOrderSummaryDTO(rows[i]))
	}
	return summaries, nil
}

// GetMine returns the order detail only for its owner. A foreign order is
// reported as not found so order IDs cannot be probed.
func (s *service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find order")
	}

	dto := NewOrderDetailDTO(*order)
	return &dto, nil
}

// VerifyReceipt lets the owner confirm delivery, moving the order from paid
// to completed exactly once.
func (s *service) VerifyReceipt(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find order")
	}

	ok, err := s.repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPaid, enums.OrderStatusCompleted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: complete order")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is not awaiting receipt confirmation")
	}

	order.Status = enums.OrderStatusCompleted
	order.UpdatedAt = time.Now().UTC()
	dto := NewOrderDetailDTO(*order)
	return &dto, nil
}

func (s *service) AdminList(ctx context.Context, input AdminListInput) (*OrderListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	var status *enums.OrderStatus
	if input.Status != "" && input.Status != "all" {
		parsed, err := enums.ParseOrderStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		status = &parsed
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.AdminList(ctx, AdminListFilter{
		Status: status,
		Limit:  limit,
		Cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	result := &OrderListResult{Orders: make([]OrderSummaryDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Orders = append(result.Orders, NewOrderSummaryDTO(rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDetailDTO, error) {
	order, err := s.repo.FindDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find order")
	}

	dto := NewOrderDetailDTO(*order)
	return &dto, nil
}

// AdminUpdateStatus sets any canonical status, covering manual order
// tracking transitions such as processing or shipped.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDetailDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}

	ok, err := s.repo.SetStatus(ctx, orderID, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	return s.AdminGet(ctx, orderID)
}
