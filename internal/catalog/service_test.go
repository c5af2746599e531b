package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{Name: "  ", Price: decimal.RequireFromString("10.00"), Stock: 1}},
		{"zero price", CreateProductInput{Name: "Vase", Price: decimal.Zero, Stock: 1}},
		{"negative price", CreateProductInput{Name: "Vase", Price: decimal.RequireFromString("-1.00"), Stock: 1}},
		{"negative stock", CreateProductInput{Name: "Vase", Price: decimal.RequireFromString("10.00"), Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.input)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)
	missing := uuid.New()

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "Watercolor Set",
		Price:      decimal.RequireFromString("15.00"),
		Stock:      3,
		CategoryID: &missing,
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	category := mustCreateTestCategory(t, repo.db, "Paintings")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Sunset Over Manila Bay",
		Price:      decimal.RequireFromString("250.00"),
		Stock:      2,
		CategoryID: &category.ID,
		Tags:       []string{"oil", "landscape"},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunset Over Manila Bay", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, []string{"oil", "landscape"}, got.Tags)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Paintings", got.Category.Name)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateProductPartial(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	product := mustCreateTestProduct(t, repo.db, "Clay Figure", "40.00", 5)

	newStock := 8
	updated, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{Stock: &newStock})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Stock)
	assert.Equal(t, "Clay Figure", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("40.00")))
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CategoryInput{Name: "Prints"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Prints"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	renamed, err := svc.UpdateCategory(ctx, created.ID, CategoryInput{Name: "Art Prints"})
	require.NoError(t, err)
	assert.Equal(t, "Art Prints", renamed.Name)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	listed, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
