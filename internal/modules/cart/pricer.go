package cart

import (
	"context"

	"github.com/georgemunganga/bookstore-backend/internal/modules/catalog"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/ids"
	"github.com/georgemunganga/bookstore-backend/internal/platform/money"
)

// Quote is a priced purchasable unit. InventoryID is the canonical spelling
// of the id that was asked for; cart lines are keyed by it.
type Quote struct {
	InventoryID string
	UnitPrice   int64 // minor units
}

// Pricer resolves the canonical id and unit price of a purchasable unit.
type Pricer interface {
	Quote(ctx context.Context, inventoryID string) (Quote, error)
}

// CatalogPricer prices an inventory id from the list price of its book.
type CatalogPricer struct {
	books catalog.Repository
}

func NewCatalogPricer(books catalog.Repository) *CatalogPricer {
	return &CatalogPricer{books: books}
}

// Quote accepts any spelling of a book's inventory id that parses as a UUID
// and answers with the canonical one.
func (p *CatalogPricer) Quote(ctx context.Context, inventoryID string) (Quote, error) {
	bookID, err := ids.BookIDFromInventory(inventoryID)
	if err != nil {
		return Quote{}, apperr.Validation("invalid inventoryId %q", inventoryID)
	}
	b, err := p.books.GetByID(ctx, bookID)
	if err != nil {
		return Quote{}, err
	}
	canonical, err := ids.InventoryID(b.BookID)
	if err != nil {
		return Quote{}, apperr.Internal(err, "inventory id of book %d", b.BookID)
	}
	return Quote{InventoryID: canonical, UnitPrice: money.ToMinor(b.BookPrice)}, nil
}
