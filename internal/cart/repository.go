package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/artnebula/artnebula-backend/pkg/config"
	redisclient "github.com/artnebula/artnebula-backend/pkg/redis"
)

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type keyer interface {
	CartKey(userID string) string
	SelectionKey(userID string) string
}

// Repository persists cart and checkout-selection documents in Redis as JSON.
type Repository struct {
	store        store
	keyer        keyer
	cartTTL      time.Duration
	selectionTTL time.Duration
}

// NewRepository builds a cart repository backed by the shared Redis client.
func NewRepository(client *redisclient.Client, cfg config.CartConfig) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Repository{
		store:        client,
		keyer:        client,
		cartTTL:      cfg.TTL,
		selectionTTL: cfg.SelectionTTL,
	}, nil
}

// Get loads the user's cart. A missing key yields an empty cart.
func (r *Repository) Get(ctx context.Context, userID string) (*Cart, error) {
	raw, err := r.store.Get(ctx, r.keyer.CartKey(userID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return &Cart{}, nil
		}
		return nil, fmt.Errorf("redis: get cart: %w", err)
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &cart, nil
}

// Save writes the cart back with the configured TTL. An empty cart deletes
// the key instead.
func (r *Repository) Save(ctx context.Context, userID string, cart *Cart) error {
	key := r.keyer.CartKey(userID)
	if cart == nil || len(cart.Items) == 0 {
		return r.store.Del(ctx, key)
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return r.store.Set(ctx, key, payload, r.cartTTL)
}

// Delete removes the cart document.
func (r *Repository) Delete(ctx context.Context, userID string) error {
	return r.store.Del(ctx, r.keyer.CartKey(userID))
}

// SaveSelection stores the checkout selection snapshot with its own TTL.
func (r *Repository) SaveSelection(ctx context.Context, userID string, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	return r.store.Set(ctx, r.keyer.SelectionKey(userID), payload, r.selectionTTL)
}

// GetSelection loads the checkout selection. Returns nil when none is stored.
func (r *Repository) GetSelection(ctx context.Context, userID string) ([]Item, error) {
	raw, err := r.store.Get(ctx, r.keyer.SelectionKey(userID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis: get selection: %w", err)
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode selection: %w", err)
	}
	return items, nil
}

// DeleteSelection removes the checkout selection.
func (r *Repository) DeleteSelection(ctx context.Context, userID string) error {
	return r.store.Del(ctx, r.keyer.SelectionKey(userID))
}
