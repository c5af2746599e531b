package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/artnebula/artnebula-backend/internal/cart"
	"github.com/artnebula/artnebula-backend/internal/catalog"
	"github.com/artnebula/artnebula-backend/pkg/db/models"
	"github.com/artnebula/artnebula-backend/pkg/enums"
	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
	"github.com/artnebula/artnebula-backend/pkg/logger"
	"github.com/artnebula/artnebula-backend/pkg/metrics"
)

// Service turns the user's checkout selection into a pending order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, shipping ShippingDetails) (*OrderConfirmation, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartProvider interface {
	CheckoutItems(ctx context.Context, userID uuid.UUID) ([]cart.Item, error)
	RemovePurchased(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build the checkout service.
type ServiceParams struct {
	DB      txRunner
	Catalog *catalog.Repository
	Carts   cartProvider
	Metrics *metrics.OrderFlowMetrics
	Logger  *logger.Logger
}

type service struct {
	db      txRunner
	catalog *catalog.Repository
	carts   cartProvider
	metrics *metrics.OrderFlowMetrics
	logg    *logger.Logger
}

// NewService constructs the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	return &service{
		db:      params.DB,
		catalog: params.Catalog,
		carts:   params.Carts,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// PlaceOrder validates shipping and the selected cart lines, then inserts the
// order, its items, and the stock decrements in one transaction. Stock is
// checked up front so every short product can be named, and again per line by
// the conditional decrement so concurrent checkouts cannot oversell.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, shipping ShippingDetails) (*OrderConfirmation, error) {
	if err := validateShipping(shipping); err != nil {
		return nil, err
	}

	items, err := s.carts.CheckoutItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items to check out")
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		ShippingAddress: strings.TrimSpace(shipping.Address),
		City:            strings.TrimSpace(shipping.City),
		PostalCode:      strings.TrimSpace(shipping.PostalCode),
		Phone:           strings.TrimSpace(shipping.Phone),
		Status:          enums.OrderStatusPending,
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalog.WithTx(tx)

		productIDs := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}
		products, err := catalogRepo.FindByIDs(ctx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
		}
		stockByID := make(map[uuid.UUID]int, len(products))
		for _, product := range products {
			stockByID[product.ID] = product.Stock
		}

		// name every short product, not just the first
		var short []string
		for _, item := range items {
			stock, exists := stockByID[item.ProductID]
			if !exists || stock < item.Quantity {
				short = append(short, item.Name)
			}
		}
		if len(short) > 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{"products": short})
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			subtotal := item.Subtotal()
			total = total.Add(subtotal)
			productID := item.ProductID
			orderItems = append(orderItems, models.OrderItem{
				ID:          uuid.New(),
				OrderID:     order.ID,
				ProductID:   &productID,
				ProductName: item.Name,
				Price:       item.Price,
				Quantity:    item.Quantity,
				Subtotal:    subtotal,
			})
		}
		order.TotalAmount = total

		if err := tx.Create(order).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order items")
		}

		for _, item := range items {
			ok, err := catalogRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
			}
			if !ok {
				// lost a race since the precheck; roll everything back
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
					WithDetails(map[string]any{"products": []string{item.Name}})
			}
		}
		return nil
	})
	if txErr != nil {
		appErr := pkgerrors.As(txErr)
		switch {
		case appErr == nil, appErr.Code() == pkgerrors.CodeDependency:
			// the transaction itself failed and was rolled back
			return nil, pkgerrors.Wrap(pkgerrors.CodeOrderProcessing, txErr, "place order")
		case appErr.Code() == pkgerrors.CodeInsufficientStock:
			s.metrics.IncInsufficientStock()
		}
		return nil, appErr
	}

	s.metrics.IncOrderPlaced()

	purchased := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		purchased = append(purchased, item.ProductID)
	}
	if err := s.carts.RemovePurchased(ctx, userID, purchased); err != nil {
		// order is committed; a stale cart is tolerable
		if s.logg != nil {
			ctx := s.logg.WithOrderID(ctx, order.ID.String())
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to clear purchased cart items")
		}
	}

	confirmation := &OrderConfirmation{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		PlacedAt:    order.CreatedAt,
		Items:       make([]OrderLine, 0, len(items)),
	}
	for _, item := range items {
		confirmation.Items = append(confirmation.Items, OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
	}
	return confirmation, nil
}

func validateShipping(shipping ShippingDetails) error {
	var missing []string
	if strings.TrimSpace(shipping.Address) == "" {
		missing = append(missing, "shipping_address")
	}
	if strings.TrimSpace(shipping.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(shipping.PostalCode) == "" {
		missing = append(missing, "postal_code")
	}
	if strings.TrimSpace(shipping.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required shipping fields").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}
