package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/artnebula/artnebula-backend/pkg/db/models"
	"github.com/artnebula/artnebula-backend/pkg/enums"
	"github.com/artnebula/artnebula-backend/pkg/pagination"
)

// Repository persists and queries orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser returns the user's orders newest first, items included.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).
		Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindDetail loads an order with items and payment.
func (r *Repository) FindDetail(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		First(&order, "id = ?", orderID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDAndUser loads an order only when it belongs to the user.
func (r *Repository) FindByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		First(&order, "id = ? AND user_id = ?", orderID, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionStatus updates the order's status only when it currently holds
// the expected one. Returns false when no row matched.
func (r *Repository) TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SetStatus unconditionally sets the order's status. Returns false when the
// order does not exist.
func (r *Repository) SetStatus(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AdminListFilter narrows the back-office order listing.
type AdminListFilter struct {
	Status *enums.OrderStatus
	Limit  int
	Cursor *pagination.Cursor
}

// AdminList pages through all orders, optionally by status, newest first. One
// extra row beyond the limit signals another page.
func (r *Repository) AdminList(ctx context.Context, filter AdminListFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt, filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var orders []models.Order
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&orders).
		Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ReportRow is one order in the sales report, with the customer name joined
// in so the report needs no further lookups.
type ReportRow struct {
	OrderID      uuid.UUID         `gorm:"column:order_id"`
	TotalAmount  decimal.Decimal   `gorm:"column:total_amount"`
	Status       enums.OrderStatus `gorm:"column:status"`
	CreatedAt    time.Time         `gorm:"column:created_at"`
	CustomerName string            `gorm:"column:customer_name"`
}

// ReportRows returns the raw rows feeding the sales report, newest first.
// Both filters are optional.
func (r *Repository) ReportRows(ctx context.Context, since *time.Time, status *enums.OrderStatus) ([]ReportRow, error) {
	query := r.db.WithContext(ctx).
		Table("orders AS o").
		Select("o.id AS order_id, o.total_amount, o.status, o.created_at, u.first_name || ' ' || u.last_name AS customer_name").
		Joins("JOIN users u ON u.id = o.user_id")
	if since != nil {
		query = query.Where("o.created_at >= ?", *since)
	}
	if status != nil {
		query = query.Where("o.status = ?", *status)
	}

	var rows []ReportRow
	if err := query.Order("o.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
