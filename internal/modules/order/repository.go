package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	// PlaceFromCart stores o and empties the cart of userKey atomically; the
	// emptied cart gets a fresh cart id. o.SellerID is set from the book of
	// the locked cart's first line. It fails with EmptyCart if the cart has
	// no items, with a validation error if its id is not o.CartID and with
	// NotFound if the first line's book is gone.
	PlaceFromCart(ctx context.Context, o *Order, userKey string) error

	// FindByUserAndCart returns the order a user placed from a cart.
	FindByUserAndCart(ctx context.Context, userID int64, cartID uuid.UUID) (*Order, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// List returns matching orders in insertion order.
	List(ctx context.Context, f Filter) ([]*Order, error)

	// Transition moves the order to status `to` only if its current status
	// is one of from, as one atomic step. It returns the order as stored
	// afterwards and whether the move was applied.
	Transition(ctx context.Context, id uuid.UUID, from []OrderStatus, to OrderStatus) (*Order, bool, error)
}
