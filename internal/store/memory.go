// Package store is the in-memory backend of every module repository. One
// mutex guards all collections, so each repository call is atomic with
// respect to every other, including the cross-aggregate checkout.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/bookstore-backend/internal/modules/cart"
	"github.com/georgemunganga/bookstore-backend/internal/modules/catalog"
	"github.com/georgemunganga/bookstore-backend/internal/modules/order"
	"github.com/georgemunganga/bookstore-backend/internal/modules/review"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/ids"
)

// Memory holds all state of a single-process deployment. Values are copied
// on the way in and out so callers never share memory with the store.
type Memory struct {
	mu sync.Mutex

	userSeq ids.Sequence
	bookSeq ids.Sequence

	users       map[int64]*user.User
	usersByMail map[string]int64

	books map[int64]*catalog.Book

	carts map[string]*cart.Cart

	orders     map[uuid.UUID]*order.Order
	orderOrder []uuid.UUID

	reviews      map[uuid.UUID]*review.Review
	reviewOrder  []uuid.UUID
	reviewByPair map[reviewPair]uuid.UUID

	now func() time.Time
}

type reviewPair struct {
	bookID int64
	userID int64
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:        make(map[int64]*user.User),
		usersByMail:  make(map[string]int64),
		books:        make(map[int64]*catalog.Book),
		carts:        make(map[string]*cart.Cart),
		orders:       make(map[uuid.UUID]*order.Order),
		reviews:      make(map[uuid.UUID]*review.Review),
		reviewByPair: make(map[reviewPair]uuid.UUID),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the user repository view of m.
func (m *Memory) Users() user.Repository { return userRepo{m} }

// Books returns the catalog repository view of m.
func (m *Memory) Books() catalog.Repository { return bookRepo{m} }

// Carts returns the cart repository view of m.
func (m *Memory) Carts() cart.Repository { return cartRepo{m} }

// Orders returns the order repository view of m.
func (m *Memory) Orders() order.Repository { return orderRepo{m} }

// Reviews returns the review repository view of m.
func (m *Memory) Reviews() review.Repository { return reviewRepo{m} }
