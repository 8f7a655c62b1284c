package cart

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/telemetry"
)

var itemsAdded = telemetry.Counter("bookstore/cart", "bookstore.cart.items_added", "Units added to carts")

// Service is the cart engine.
type Service interface {
	GetOrCreate(ctx context.Context, userID int64) (*Cart, error)

	// AddItem merges qty into the line for inventoryID, or prices and
	// appends a new line. Lines are keyed by the pricer's canonical id, so
	// two spellings of one id share a line. It returns the line's item id.
	AddItem(ctx context.Context, userID int64, inventoryID string, qty int) (uuid.UUID, error)

	UpdateItemQty(ctx context.Context, userID int64, itemID uuid.UUID, qty int) (*Cart, error)
	RemoveItem(ctx context.Context, userID int64, itemID uuid.UUID) error
	Clear(ctx context.Context, userID int64) error
}

type service struct {
	repo   Repository
	pricer Pricer
}

// NewService creates a new cart service.
func NewService(repo Repository, pricer Pricer) Service {
	return &service{repo: repo, pricer: pricer}
}

func (s *service) GetOrCreate(ctx context.Context, userID int64) (*Cart, error) {
	return s.repo.GetOrCreate(ctx, UserKey(userID))
}

func (s *service) AddItem(ctx context.Context, userID int64, inventoryID string, qty int) (uuid.UUID, error) {
	if inventoryID == "" {
		return uuid.Nil, apperr.Validation("inventoryId is required")
	}
	if qty < 1 {
		return uuid.Nil, apperr.Validation("qty must be at least 1")
	}
	q, err := s.pricer.Quote(ctx, inventoryID)
	if err != nil {
		return uuid.Nil, err
	}

	var itemID uuid.UUID
	_, err = s.repo.Mutate(ctx, UserKey(userID), func(c *Cart) error {
		if i := c.indexOfInventory(q.InventoryID); i >= 0 {
			c.Items[i].Qty += qty
			itemID = c.Items[i].ItemID
		} else {
			itemID = uuid.New()
			c.Items = append(c.Items, Item{
				ItemID:      itemID,
				InventoryID: q.InventoryID,
				UnitPrice:   q.UnitPrice,
				Qty:         qty,
			})
		}
		c.Recalculate()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	itemsAdded.Add(ctx, int64(qty), metric.WithAttributes(attribute.String("inventory_id", q.InventoryID)))
	return itemID, nil
}

func (s *service) UpdateItemQty(ctx context.Context, userID int64, itemID uuid.UUID, qty int) (*Cart, error) {
	return s.repo.Mutate(ctx, UserKey(userID), func(c *Cart) error {
		i := c.indexOfItem(itemID)
		if i < 0 {
			return apperr.NotFound("cart item %s not found", itemID)
		}
		if qty < 1 {
			return apperr.Validation("qty must be at least 1")
		}
		c.Items[i].Qty = qty
		c.Recalculate()
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, userID int64, itemID uuid.UUID) error {
	_, err := s.repo.Mutate(ctx, UserKey(userID), func(c *Cart) error {
		i := c.indexOfItem(itemID)
		if i < 0 {
			return apperr.NotFound("cart item %s not found", itemID)
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.Recalculate()
		return nil
	})
	return err
}

func (s *service) Clear(ctx context.Context, userID int64) error {
	_, err := s.repo.Mutate(ctx, UserKey(userID), func(c *Cart) error {
		c.Empty()
		return nil
	})
	return err
}
