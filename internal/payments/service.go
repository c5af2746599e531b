package payments

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artnebula/artnebula-backend/pkg/db/models"
	"github.com/artnebula/artnebula-backend/pkg/enums"
	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
	"github.com/artnebula/artnebula-backend/pkg/metrics"
)

// e-wallet reference numbers are 10 to 13 digits
var referenceNumberRe = regexp.MustCompile(`^[0-9]{10,13}$`)

// Service records payments against pending orders.
type Service interface {
	SubmitPayment(ctx context.Context, userID, orderID uuid.UUID, req SubmitPaymentRequest) (*PaymentDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies for the payment service.
type ServiceParams struct {
	DB      txRunner
	Metrics *metrics.OrderFlowMetrics
}

type service struct {
	db      txRunner
	metrics *metrics.OrderFlowMetrics
}

// NewService constructs the payment service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{db: params.DB, metrics: params.Metrics}, nil
}

// SubmitPayment records the payment and flips the order from pending to paid
// in one transaction. The conditional status update guarantees at most one
// payment ever succeeds for an order, even under concurrent submissions.
func (s *service) SubmitPayment(ctx context.Context, userID, orderID uuid.UUID, req SubmitPaymentRequest) (*PaymentDTO, error) {
	method, reference, err := normalizePayment(req)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:              uuid.New(),
		OrderID:         orderID,
		TransactionID:   newTransactionID(),
		Method:          method,
		ReferenceNumber: reference,
		PaymentDate:     time.Now().UTC(),
		Status:          enums.PaymentStatusCompleted,
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var order models.Order
		err := tx.
			Where("id = ? AND user_id = ? AND status = ?", orderID, userID, enums.OrderStatusPending).
			First(&order).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeOrderNotPayable, "order not found or not pending")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
		}

		payment.Amount = order.TotalAmount

		if err := tx.Create(payment).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert payment")
		}

		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, enums.OrderStatusPending).
			Updates(map[string]any{
				"status":         enums.OrderStatusPaid,
				"payment_method": method,
				"updated_at":     time.Now().UTC(),
			})
		if result.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "db: update order status")
		}
		if result.RowsAffected == 0 {
			// another payment won the race; undo ours
			return pkgerrors.New(pkgerrors.CodeOrderNotPayable, "order already paid")
		}
		return nil
	})
	if txErr != nil {
		appErr := pkgerrors.As(txErr)
		if appErr == nil || appErr.Code() == pkgerrors.CodeDependency {
			// the transaction itself failed and was rolled back
			return nil, pkgerrors.Wrap(pkgerrors.CodeOrderProcessing, txErr, "submit payment")
		}
		return nil, appErr
	}

	s.metrics.IncPaymentRecorded(method.String())

	return &PaymentDTO{
		ID:              payment.ID,
		OrderID:         payment.OrderID,
		TransactionID:   payment.TransactionID,
		Amount:          payment.Amount,
		Method:          payment.Method,
		ReferenceNumber: payment.ReferenceNumber,
		PaymentDate:     payment.PaymentDate,
		Status:          payment.Status,
		OrderStatus:     enums.OrderStatusPaid,
	}, nil
}

func normalizePayment(req SubmitPaymentRequest) (enums.PaymentMethod, *string, error) {
	raw := strings.ToLower(strings.TrimSpace(req.Method))
	// legacy clients send the wallet brand
	if raw == "gcash" {
		raw = enums.PaymentMethodEWallet.String()
	}
	method, err := enums.ParsePaymentMethod(raw)
	if err != nil {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	if method != enums.PaymentMethodEWallet {
		return method, nil, nil
	}

	if req.ReferenceNumber == nil || strings.TrimSpace(*req.ReferenceNumber) == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "reference number is required for e-wallet payments")
	}
	reference := strings.TrimSpace(*req.ReferenceNumber)
	if !referenceNumberRe.MatchString(reference) {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "reference number must be 10 to 13 digits")
	}
	return method, &reference, nil
}

func newTransactionID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	suffix := int64(1000)
	if err == nil {
		suffix += n.Int64()
	}
	return fmt.Sprintf("TXN%d%d", time.Now().Unix(), suffix)
}
