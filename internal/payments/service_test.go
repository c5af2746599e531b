package payments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/artnebula/artnebula-backend/pkg/db/models"
	"github.com/artnebula/artnebula-backend/pkg/enums"
	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  shipping_address TEXT NOT NULL,
  city TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  phone TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  transaction_id TEXT NOT NULL UNIQUE,
  amount NUMERIC NOT NULL,
  method TEXT NOT NULL,
  reference_number TEXT,
  payment_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'completed',
  created_at DATETIME,
  updated_at DATETIME
);`}

	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type gormTxRunner struct {
	conn *gorm.DB
}

func (r *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func mustSeedOrder(t *testing.T, conn *gorm.DB, userID uuid.UUID, status enums.OrderStatus, total string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		TotalAmount:     decimal.RequireFromString(total),
		ShippingAddress: "12 Mabini St",
		City:            "Quezon City",
		PostalCode:      "1100",
		Phone:           "09171234567",
		Status:          status,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func newPaymentsTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{DB: &gormTxRunner{conn: conn}})
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func TestSubmitPaymentCOD(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	svc := newPaymentsTestService(t, conn)
	userID := uuid.New()
	order := mustSeedOrder(t, conn, userID, enums.OrderStatusPending, "250.00")

	dto, err := svc.SubmitPayment(context.Background(), userID, order.ID, SubmitPaymentRequest{Method: "cod"})
	require.NoError(t, err)
	require.NotNil(t, dto)

	assert.True(t, strings.HasPrefix(dto.TransactionID, "TXN"))
	assert.True(t, dto.Amount.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, enums.PaymentMethodCOD, dto.Method)
	assert.Nil(t, dto.ReferenceNumber)
	assert.Equal(t, enums.PaymentStatusCompleted, dto.Status)
	assert.Equal(t, enums.OrderStatusPaid, dto.OrderStatus)

	var reloaded models.Order
	require.NoError(t, conn.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusPaid, reloaded.Status)
	require.NotNil(t, reloaded.PaymentMethod)
	assert.Equal(t, enums.PaymentMethodCOD, *reloaded.PaymentMethod)
}

func TestSubmitPaymentGcashAliasAndReference(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	svc := newPaymentsTestService(t, conn)
	userID := uuid.New()
	order := mustSeedOrder(t, conn, userID, enums.OrderStatusPending, "99.00")

	dto, err := svc.SubmitPayment(context.Background(), userID, order.ID, SubmitPaymentRequest{
		Method:          "gcash",
		ReferenceNumber: strPtr("09171234567"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentMethodEWallet, dto.Method)
	require.NotNil(t, dto.ReferenceNumber)
	assert.Equal(t, "09171234567", *dto.ReferenceNumber)
}

func TestSubmitPaymentValidation(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	svc := newPaymentsTestService(t, conn)
	userID := uuid.New()
	order := mustSeedOrder(t, conn, userID, enums.OrderStatusPending, "10.00")

	cases := []struct {
		name string
		req  SubmitPaymentRequest
	}{
		{"unknown method", SubmitPaymentRequest{Method: "credit_card"}},
		{"ewallet missing reference", SubmitPaymentRequest{Method: "ewallet"}},
		{"reference too short", SubmitPaymentRequest{Method: "ewallet", ReferenceNumber: strPtr("123456789")}},
		{"reference too long", SubmitPaymentRequest{Method: "ewallet", ReferenceNumber: strPtr("12345678901234")}},
		{"reference not numeric", SubmitPaymentRequest{Method: "ewallet", ReferenceNumber: strPtr("12345abc678")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitPayment(context.Background(), userID, order.ID, tc.req)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}

	// order untouched by rejected submissions
	var reloaded models.Order
	require.NoError(t, conn.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusPending, reloaded.Status)
}

func TestSubmitPaymentOrderNotPayable(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	svc := newPaymentsTestService(t, conn)
	owner := uuid.New()

	t.Run("already paid", func(t *testing.T) {
		order := mustSeedOrder(t, conn, owner, enums.OrderStatusPaid, "50.00")
		_, err := svc.SubmitPayment(context.Background(), owner, order.ID, SubmitPaymentRequest{Method: "cod"})
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeOrderNotPayable, appErr.Code())
	})

	t.Run("foreign order", func(t *testing.T) {
		order := mustSeedOrder(t, conn, owner, enums.OrderStatusPending, "50.00")
		_, err := svc.SubmitPayment(context.Background(), uuid.New(), order.ID, SubmitPaymentRequest{Method: "cod"})
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeOrderNotPayable, appErr.Code())
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := svc.SubmitPayment(context.Background(), owner, uuid.New(), SubmitPaymentRequest{Method: "cod"})
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeOrderNotPayable, appErr.Code())
	})
}

func TestSubmitPaymentDBFailureIsOrderProcessing(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	svc := newPaymentsTestService(t, conn)
	userID := uuid.New()
	order := mustSeedOrder(t, conn, userID, enums.OrderStatusPending, "75.00")

	// break the payment insert so the transaction fails after the order load
	require.NoError(t, conn.Exec(`DROP TABLE payments`).Error)

	_, err := svc.SubmitPayment(context.Background(), userID, order.ID, SubmitPaymentRequest{Method: "cod"})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeOrderProcessing, appErr.Code())

	// rollback: the order is still pending and unpaid
	var reloaded models.Order
	require.NoError(t, conn.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.PaymentMethod)
}

func TestSubmitPaymentOnlyOnce(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	svc := newPaymentsTestService(t, conn)
	userID := uuid.New()
	order := mustSeedOrder(t, conn, userID, enums.OrderStatusPending, "75.00")

	_, err := svc.SubmitPayment(context.Background(), userID, order.ID, SubmitPaymentRequest{Method: "cod"})
	require.NoError(t, err)

	_, err = svc.SubmitPayment(context.Background(), userID, order.ID, SubmitPaymentRequest{Method: "cod"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeOrderNotPayable, appErr.Code())

	var paymentCount int64
	require.NoError(t, conn.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&paymentCount).Error)
	assert.EqualValues(t, 1, paymentCount)
}
