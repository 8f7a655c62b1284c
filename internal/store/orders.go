package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/bookstore-backend/internal/modules/order"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/ids"
)

type orderRepo struct{ m *Memory }

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	return &cp
}

// PlaceFromCart checks the cart, resolves the seller, stores the order and
// empties the cart under one lock, so a concurrent cart mutation lands
// wholly before or after.
func (r orderRepo) PlaceFromCart(ctx context.Context, o *order.Order, userKey string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	c := r.m.cartLocked(userKey)
	if len(c.Items) == 0 {
		return apperr.EmptyCart("cart is empty")
	}
	if c.CartID != o.CartID {
		return apperr.Validation("cartId %s is not the current cart", o.CartID)
	}
	bookID, err := ids.BookIDFromInventory(c.Items[0].InventoryID)
	if err != nil {
		return apperr.NotFound("no book for inventory id %s", c.Items[0].InventoryID)
	}
	b, ok := r.m.books[bookID]
	if !ok {
		return apperr.NotFound("book %d not found", bookID)
	}
	o.SellerID = b.SellerID

	r.m.orders[o.OrderID] = cloneOrder(o)
	r.m.orderOrder = append(r.m.orderOrder, o.OrderID)

	c.Empty()
	c.CartID = uuid.New()
	return nil
}

func (r orderRepo) FindByUserAndCart(ctx context.Context, userID int64, cartID uuid.UUID) (*order.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for i := len(r.m.orderOrder) - 1; i >= 0; i-- {
		o := r.m.orders[r.m.orderOrder[i]]
		if o.UserID == userID && o.CartID == cartID {
			return cloneOrder(o), nil
		}
	}
	return nil, apperr.NotFound("no order for cart %s", cartID)
}

func (r orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	o, ok := r.m.orders[id]
	if !ok {
		return nil, apperr.NotFound("order %s not found", id)
	}
	return cloneOrder(o), nil
}

func (r orderRepo) List(ctx context.Context, f order.Filter) ([]*order.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := []*order.Order{}
	for _, id := range r.m.orderOrder {
		o := r.m.orders[id]
		if f.UserID != 0 && o.UserID != f.UserID {
			continue
		}
		if f.SellerID != 0 && o.SellerID != f.SellerID {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (r orderRepo) Transition(ctx context.Context, id uuid.UUID, from []order.OrderStatus, to order.OrderStatus) (*order.Order, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	o, ok := r.m.orders[id]
	if !ok {
		return nil, false, apperr.NotFound("order %s not found", id)
	}
	for _, st := range from {
		if o.Status == st {
			o.Status = to
			return cloneOrder(o), true, nil
		}
	}
	return cloneOrder(o), false, nil
}
