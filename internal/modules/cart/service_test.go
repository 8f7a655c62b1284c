package cart_test

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bookstore-backend/internal/modules/cart"
	"github.com/georgemunganga/bookstore-backend/internal/modules/catalog"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/ids"
	"github.com/georgemunganga/bookstore-backend/internal/store"
)

type fixedPricer map[string]int64

func (p fixedPricer) Quote(_ context.Context, inventoryID string) (cart.Quote, error) {
	price, ok := p[inventoryID]
	if !ok {
		return cart.Quote{}, apperr.NotFound("no price for %s", inventoryID)
	}
	return cart.Quote{InventoryID: inventoryID, UnitPrice: price}, nil
}

var prices = fixedPricer{"inv-a": 1000, "inv-b": 250, "inv-c": 1}

func newService() cart.Service {
	return cart.NewService(store.NewMemory().Carts(), prices)
}

func assertSubtotal(t *testing.T, c *cart.Cart) {
	t.Helper()
	var sum int64
	for _, it := range c.Items {
		assert.Equal(t, it.UnitPrice*int64(it.Qty), it.LineSubtotal)
		sum += it.LineSubtotal
	}
	assert.Equal(t, sum, c.Subtotal)
}

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	c, err := svc.GetOrCreate(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "5", c.UserKey)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Subtotal)
	assert.NotEqual(t, uuid.Nil, c.CartID)

	again, err := svc.GetOrCreate(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, c.CartID, again.CartID)
}

func TestAddItem_MergesSameInventory(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	first, err := svc.AddItem(ctx, 1, "inv-a", 2)
	require.NoError(t, err)
	second, err := svc.AddItem(ctx, 1, "inv-a", 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	c, err := svc.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Qty)
	assert.Equal(t, int64(5000), c.Subtotal)
}

func TestAddItem_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.AddItem(ctx, 1, "inv-a", 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.AddItem(ctx, 1, "", 1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.AddItem(ctx, 1, "inv-unknown", 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	c, err := svc.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestUpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	a, err := svc.AddItem(ctx, 1, "inv-a", 1)
	require.NoError(t, err)
	b, err := svc.AddItem(ctx, 1, "inv-b", 2)
	require.NoError(t, err)

	c, err := svc.UpdateItemQty(ctx, 1, b, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1000+4*250), c.Subtotal)

	_, err = svc.UpdateItemQty(ctx, 1, b, 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.UpdateItemQty(ctx, 1, uuid.New(), 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.RemoveItem(ctx, 1, a))
	assert.True(t, apperr.Is(svc.RemoveItem(ctx, 1, a), apperr.KindNotFound))

	c, err = svc.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(1000), c.Subtotal)

	require.NoError(t, svc.Clear(ctx, 1))
	require.NoError(t, svc.Clear(ctx, 1))
	c, err = svc.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Subtotal)
}

func TestSubtotalInvariant(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	rng := rand.New(rand.NewSource(7))
	inventory := []string{"inv-a", "inv-b", "inv-c"}

	for step := 0; step < 200; step++ {
		c, err := svc.GetOrCreate(ctx, 1)
		require.NoError(t, err)

		switch op := rng.Intn(4); {
		case op == 0 || len(c.Items) == 0:
			_, err = svc.AddItem(ctx, 1, inventory[rng.Intn(len(inventory))], 1+rng.Intn(5))
		case op == 1:
			_, err = svc.UpdateItemQty(ctx, 1, c.Items[rng.Intn(len(c.Items))].ItemID, 1+rng.Intn(9))
		case op == 2:
			err = svc.RemoveItem(ctx, 1, c.Items[rng.Intn(len(c.Items))].ItemID)
		default:
			if rng.Intn(10) == 0 {
				err = svc.Clear(ctx, 1)
			}
		}
		require.NoError(t, err)

		c, err = svc.GetOrCreate(ctx, 1)
		require.NoError(t, err)
		assertSubtotal(t, c)
	}
}

func TestConcurrentAddsAreSerialised(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, 1, "inv-b", 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := svc.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 100, c.Items[0].Qty)
	assert.Equal(t, int64(100*250), c.Subtotal)
}

func TestCatalogPricer(t *testing.T) {
	ctx := context.Background()
	books := store.NewMemory().Books()
	b := &catalog.Book{BookName: "Dune", BookPrice: 19.99, SellerID: 2}
	require.NoError(t, books.Create(ctx, b))

	pricer := cart.NewCatalogPricer(books)
	inv, err := ids.InventoryID(b.BookID)
	require.NoError(t, err)

	q, err := pricer.Quote(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), q.UnitPrice)
	assert.Equal(t, inv, q.InventoryID)

	upper, err := pricer.Quote(ctx, strings.ToUpper(inv))
	require.NoError(t, err)
	assert.Equal(t, inv, upper.InventoryID)

	missing, err := ids.InventoryID(b.BookID + 1)
	require.NoError(t, err)
	_, err = pricer.Quote(ctx, missing)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = pricer.Quote(ctx, "not-a-key")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAddItem_MergesSpellingsOfOneBook(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	b := &catalog.Book{BookName: "Dune", BookPrice: 2.5, SellerID: 2}
	require.NoError(t, m.Books().Create(ctx, b))
	inv, err := ids.InventoryID(b.BookID)
	require.NoError(t, err)
	svc := cart.NewService(m.Carts(), cart.NewCatalogPricer(m.Books()))

	spellings := []string{
		inv,
		strings.ToUpper(inv),
		"urn:uuid:" + inv,
		"{" + inv + "}",
		strings.ReplaceAll(inv, "-", ""),
	}
	var itemIDs []uuid.UUID
	for i, sp := range spellings {
		id, err := svc.AddItem(ctx, 1, sp, i+1)
		require.NoError(t, err, sp)
		itemIDs = append(itemIDs, id)
	}

	c, err := svc.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, inv, c.Items[0].InventoryID)
	assert.Equal(t, 1+2+3+4+5, c.Items[0].Qty)
	assert.Equal(t, int64(15*250), c.Subtotal)
	for _, id := range itemIDs {
		assert.Equal(t, c.Items[0].ItemID, id)
	}
}
