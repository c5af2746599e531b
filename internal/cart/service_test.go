package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/artnebula/artnebula-backend/pkg/db/models"
	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
)

type stubCartStore struct {
	carts      map[string]*Cart
	selections map[string][]Item
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: map[string]*Cart{}, selections: map[string][]Item{}}
}

func (s *stubCartStore) Get(ctx context.Context, userID string) (*Cart, error) {
	if cart, ok := s.carts[userID]; ok {
		copied := *cart
		copied.Items = append([]Item(nil), cart.Items...)
		return &copied, nil
	}
	return &Cart{}, nil
}

func (s *stubCartStore) Save(ctx context.Context, userID string, cart *Cart) error {
	if cart == nil || len(cart.Items) == 0 {
		delete(s.carts, userID)
		return nil
	}
	s.carts[userID] = cart
	return nil
}

func (s *stubCartStore) Delete(ctx context.Context, userID string) error {
	delete(s.carts, userID)
	return nil
}

func (s *stubCartStore) SaveSelection(ctx context.Context, userID string, items []Item) error {
	s.selections[userID] = items
	return nil
}

func (s *stubCartStore) GetSelection(ctx context.Context, userID string) ([]Item, error) {
	return s.selections[userID], nil
}

func (s *stubCartStore) DeleteSelection(ctx context.Context, userID string) error {
	delete(s.selections, userID)
	return nil
}

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newCartTestService(t *testing.T, products ...*models.Product) (Service, *stubCartStore) {
	t.Helper()
	store := newStubCartStore()
	loader := &stubProducts{byID: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		loader.byID[p.ID] = p
	}
	svc, err := NewService(store, loader)
	require.NoError(t, err)
	return svc, store
}

func testProduct(name, price string) *models.Product {
	return &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: 10,
	}
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	product := testProduct("Abstract Canvas", "50.00")
	svc, _ := newCartTestService(t, product)
	userID := uuid.New()
	ctx := context.Background()

	dto, err := svc.AddItem(ctx, userID, product.ID, 0)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	// quantity below one falls back to one
	assert.Equal(t, 1, dto.Items[0].Quantity)

	dto, err = svc.AddItem(ctx, userID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 3, dto.Items[0].Quantity)
	assert.True(t, dto.Total.Equal(decimal.RequireFromString("150.00")))
	assert.Equal(t, "Abstract Canvas", dto.Items[0].Name)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newCartTestService(t)

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	product := testProduct("Ceramic Bowl", "18.00")
	svc, _ := newCartTestService(t, product)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, product.ID, 1)
	require.NoError(t, err)

	dto, err := svc.RemoveItem(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)

	// removing again succeeds and leaves the cart unchanged
	dto, err = svc.RemoveItem(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}

func TestUpdateQuantities(t *testing.T) {
	first := testProduct("Print A", "10.00")
	second := testProduct("Print B", "20.00")
	svc, _ := newCartTestService(t, first, second)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, first.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, second.ID, 2)
	require.NoError(t, err)

	dto, err := svc.UpdateQuantities(ctx, userID, map[uuid.UUID]int{
		first.ID:   5,
		second.ID:  0,
		uuid.New(): 3, // unknown product is ignored
	})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, first.ID, dto.Items[0].ProductID)
	assert.Equal(t, 5, dto.Items[0].Quantity)
}

func TestSelectForCheckout(t *testing.T) {
	first := testProduct("Print A", "10.00")
	second := testProduct("Print B", "20.00")
	svc, store := newCartTestService(t, first, second)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, first.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, second.ID, 1)
	require.NoError(t, err)

	dto, err := svc.SelectForCheckout(ctx, userID, []uuid.UUID{second.ID})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, second.ID, dto.Items[0].ProductID)

	items, err := svc.CheckoutItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ProductID)

	// cart itself keeps both lines
	full, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, full.Items, 2)

	_, err = svc.SelectForCheckout(ctx, userID, []uuid.UUID{uuid.New()})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	// selection survives until purchase removes it
	assert.NotEmpty(t, store.selections[userID.String()])
}

func TestCheckoutItemsFallsBackToCart(t *testing.T) {
	product := testProduct("Print A", "10.00")
	svc, _ := newCartTestService(t, product)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, product.ID, 2)
	require.NoError(t, err)

	items, err := svc.CheckoutItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
}

func TestRemovePurchased(t *testing.T) {
	first := testProduct("Print A", "10.00")
	second := testProduct("Print B", "20.00")
	svc, store := newCartTestService(t, first, second)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, first.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, second.ID, 1)
	require.NoError(t, err)
	_, err = svc.SelectForCheckout(ctx, userID, []uuid.UUID{first.ID})
	require.NoError(t, err)

	require.NoError(t, svc.RemovePurchased(ctx, userID, []uuid.UUID{first.ID}))

	dto, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, second.ID, dto.Items[0].ProductID)
	assert.Empty(t, store.selections[userID.String()])
}
