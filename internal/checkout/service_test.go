package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/artnebula/artnebula-backend/internal/cart"
	"github.com/artnebula/artnebula-backend/internal/catalog"
	"github.com/artnebula/artnebula-backend/pkg/db/models"
	"github.com/artnebula/artnebula-backend/pkg/enums"
	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_path TEXT,
  tags TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  subtotal NUMERIC NOT NULL,
  created_at DATETIME
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

type stubCarts struct {
	items   []cart.Item
	removed []uuid.UUID
}

func (s *stubCarts) CheckoutItems(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	return s.items, nil
}

func (s *stubCarts) RemovePurchased(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	s.removed = append(s.removed, productIDs...)
	return nil
}

func mustSeedProduct(t *testing.T, conn *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func newCheckoutTestService(t *testing.T, conn *gorm.DB, carts *stubCarts) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:      &gormTxRunner{conn: conn},
		Catalog: catalog.NewRepository(conn),
		Carts:   carts,
	})
	require.NoError(t, err)
	return svc
}

func validShipping() ShippingDetails {
	return ShippingDetails{
		Address:    "12 Mabini St",
		City:       "Quezon City",
		PostalCode: "1100",
		Phone:      "09171234567",
	}
}

func cartLine(p *models.Product, qty int) cart.Item {
	return cart.Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	painting := mustSeedProduct(t, conn, "Harbor at Dusk", "100.00", 5)
	print := mustSeedProduct(t, conn, "Linocut Print", "50.00", 3)
	carts := &stubCarts{items: []cart.Item{cartLine(painting, 2), cartLine(print, 1)}}
	svc := newCheckoutTestService(t, conn, carts)
	userID := uuid.New()

	confirmation, err := svc.PlaceOrder(context.Background(), userID, validShipping())
	require.NoError(t, err)
	require.NotNil(t, confirmation)

	assert.Equal(t, enums.OrderStatusPending, confirmation.Status)
	assert.True(t, confirmation.TotalAmount.Equal(decimal.RequireFromString("250.00")),
		"got total %s", confirmation.TotalAmount)
	assert.Len(t, confirmation.Items, 2)

	var order models.Order
	require.NoError(t, conn.First(&order, "id = ?", confirmation.OrderID).Error)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("250.00")))

	var itemCount int64
	require.NoError(t, conn.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.EqualValues(t, 2, itemCount)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", painting.ID).Error)
	assert.Equal(t, 3, reloaded.Stock)
	reloaded = models.Product{}
	require.NoError(t, conn.First(&reloaded, "id = ?", print.ID).Error)
	assert.Equal(t, 2, reloaded.Stock)

	assert.ElementsMatch(t, []uuid.UUID{painting.ID, print.ID}, carts.removed)
}

func TestPlaceOrderNamesEveryShortProduct(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	ample := mustSeedProduct(t, conn, "Sketchbook", "15.00", 10)
	low := mustSeedProduct(t, conn, "Etching Plate", "60.00", 1)
	gone := mustSeedProduct(t, conn, "Bronze Cast", "400.00", 0)
	carts := &stubCarts{items: []cart.Item{cartLine(ample, 1), cartLine(low, 3), cartLine(gone, 1)}}
	svc := newCheckoutTestService(t, conn, carts)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), validShipping())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())
	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"Etching Plate", "Bronze Cast"}, details["products"])

	// nothing was written and stock is untouched
	var orderCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", ample.ID).Error)
	assert.Equal(t, 10, reloaded.Stock)

	assert.Empty(t, carts.removed)
}

func TestPlaceOrderDeletedProductCountsAsShort(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	carts := &stubCarts{items: []cart.Item{{
		ProductID: uuid.New(),
		Name:      "Retired Artwork",
		Price:     decimal.RequireFromString("75.00"),
		Quantity:  1,
	}}}
	svc := newCheckoutTestService(t, conn, carts)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), validShipping())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())
	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"Retired Artwork"}, details["products"])
}

func TestPlaceOrderDBFailureIsOrderProcessing(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	product := mustSeedProduct(t, conn, "Charcoal Portrait", "120.00", 5)
	carts := &stubCarts{items: []cart.Item{cartLine(product, 1)}}
	svc := newCheckoutTestService(t, conn, carts)

	// break the item insert so the transaction fails after the order row
	require.NoError(t, conn.Exec(`DROP TABLE order_items`).Error)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), validShipping())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeOrderProcessing, appErr.Code())

	// rollback: no order row survived and stock is untouched
	var orderCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 5, reloaded.Stock)

	assert.Empty(t, carts.removed)
}

func TestPlaceOrderValidatesShipping(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	product := mustSeedProduct(t, conn, "Pastel Study", "30.00", 4)
	carts := &stubCarts{items: []cart.Item{cartLine(product, 1)}}
	svc := newCheckoutTestService(t, conn, carts)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), ShippingDetails{
		Address: "12 Mabini St",
		Phone:   " ",
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"city", "postal_code", "phone"}, details["missing"])
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(t, conn, &stubCarts{})

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), validShipping())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
