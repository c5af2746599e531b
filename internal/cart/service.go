package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artnebula/artnebula-backend/pkg/db/models"
	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
)

// Service exposes the per-user cart operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	UpdateQuantities(ctx context.Context, userID uuid.UUID, changes map[uuid.UUID]int) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	SelectForCheckout(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) (*CartDTO, error)
	CheckoutItems(ctx context.Context, userID uuid.UUID) ([]Item, error)
	RemovePurchased(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error
}

// CartStore is the persistence surface the service needs; the Redis-backed
// Repository satisfies it.
type CartStore interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, cart *Cart) error
	Delete(ctx context.Context, userID string) error
	SaveSelection(ctx context.Context, userID string, items []Item) error
	GetSelection(ctx context.Context, userID string) ([]Item, error)
	DeleteSelection(ctx context.Context, userID string) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	carts    CartStore
	products productLoader
}

// NewService constructs a cart service instance.
func NewService(carts CartStore, products productLoader) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{carts: carts, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.carts.Get(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return NewCartDTO(cart), nil
}

// AddItem snapshots the product and accumulates quantity on repeat adds.
// Stock is not checked here; checkout is the gate.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	cart, err := s.carts.Get(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if idx := cart.Find(productID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImagePath: product.ImagePath,
			Quantity:  quantity,
		})
	}

	if err := s.carts.Save(ctx, userID.String(), cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return NewCartDTO(cart), nil
}

// RemoveItem drops the line if present. Removing an absent product is a no-op.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	cart, err := s.carts.Get(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart.Remove(productID)

	if err := s.carts.Save(ctx, userID.String(), cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return NewCartDTO(cart), nil
}

// UpdateQuantities sets absolute quantities. A value of zero or less removes
// the line; products not mentioned keep their quantity.
func (s *service) UpdateQuantities(ctx context.Context, userID uuid.UUID, changes map[uuid.UUID]int) (*CartDTO, error) {
	cart, err := s.carts.Get(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	for productID, quantity := range changes {
		idx := cart.Find(productID)
		if idx < 0 {
			continue
		}
		if quantity <= 0 {
			cart.Remove(productID)
			continue
		}
		cart.Items[idx].Quantity = quantity
	}

	if err := s.carts.Save(ctx, userID.String(), cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return NewCartDTO(cart), nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.carts.Delete(ctx, userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	if err := s.carts.DeleteSelection(ctx, userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear selection")
	}
	return nil
}

// SelectForCheckout copies the matching cart lines into the checkout
// selection. Unknown product IDs are ignored; an empty match is an error.
func (s *service) SelectForCheckout(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) (*CartDTO, error) {
	cart, err := s.carts.Get(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	wanted := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}

	var selected []Item
	for _, item := range cart.Items {
		if wanted[item.ProductID] {
			selected = append(selected, item)
		}
	}
	if len(selected) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no cart items match the selection")
	}

	if err := s.carts.SaveSelection(ctx, userID.String(), selected); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save selection")
	}
	return NewCartDTO(&Cart{Items: selected}), nil
}

// CheckoutItems returns the stored selection, falling back to the whole cart
// when no selection was made.
func (s *service) CheckoutItems(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	selected, err := s.carts.GetSelection(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load selection")
	}
	if len(selected) > 0 {
		return selected, nil
	}

	cart, err := s.carts.Get(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart.Items, nil
}

// RemovePurchased drops the given products from the cart and clears the
// selection. Called after a successful checkout.
func (s *service) RemovePurchased(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	cart, err := s.carts.Get(ctx, userID.String())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	for _, id := range productIDs {
		cart.Remove(id)
	}

	if err := s.carts.Save(ctx, userID.String(), cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	if err := s.carts.DeleteSelection(ctx, userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear selection")
	}
	return nil
}
