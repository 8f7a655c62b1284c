package store

import (
	"context"

	"github.com/georgemunganga/bookstore-backend/internal/modules/cart"
)

type cartRepo struct{ m *Memory }

// cartLocked returns the stored cart of userKey, creating it. Callers hold mu.
func (m *Memory) cartLocked(userKey string) *cart.Cart {
	c, ok := m.carts[userKey]
	if !ok {
		c = cart.New(userKey, m.now())
		m.carts[userKey] = c
	}
	return c
}

func (r cartRepo) GetOrCreate(ctx context.Context, userKey string) (*cart.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return r.m.cartLocked(userKey).Clone(), nil
}

func (r cartRepo) Mutate(ctx context.Context, userKey string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	working := r.m.cartLocked(userKey).Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	r.m.carts[userKey] = working.Clone()
	return working, nil
}
