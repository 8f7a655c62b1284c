package cart

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Cart is the single shopping cart of a user. Amounts are minor units.
type Cart struct {
	CartID    uuid.UUID `json:"cartId"`
	UserKey   string    `json:"userId"`
	Items     []Item    `json:"items"`
	Subtotal  int64     `json:"subtotal"`
	CreatedAt time.Time `json:"createdAt"`
}

// Item is one cart line.
type Item struct {
	ItemID       uuid.UUID `json:"itemId"`
	InventoryID  string    `json:"inventoryId"`
	UnitPrice    int64     `json:"unitPrice"`
	Qty          int       `json:"qty"`
	LineSubtotal int64     `json:"lineSubtotal"`
}

// UserKey is the stable string form of a user id used to key carts.
func UserKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// New returns an empty cart for userKey.
func New(userKey string, now time.Time) *Cart {
	return &Cart{
		CartID:    uuid.New(),
		UserKey:   userKey,
		Items:     []Item{},
		CreatedAt: now,
	}
}

// Recalculate recomputes every line subtotal and the cart subtotal from
// scratch.
func (c *Cart) Recalculate() {
	var subtotal int64
	for i := range c.Items {
		c.Items[i].LineSubtotal = c.Items[i].UnitPrice * int64(c.Items[i].Qty)
		subtotal += c.Items[i].LineSubtotal
	}
	c.Subtotal = subtotal
}

// ItemCount is the total quantity across lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Qty
	}
	return n
}

// Empty empties the cart and zeroes its subtotal.
func (c *Cart) Empty() {
	c.Items = []Item{}
	c.Subtotal = 0
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make([]Item, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

func (c *Cart) indexOfItem(itemID uuid.UUID) int {
	for i, it := range c.Items {
		if it.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOfInventory(inventoryID string) int {
	for i, it := range c.Items {
		if it.InventoryID == inventoryID {
			return i
		}
	}
	return -1
}

// AddItemRequest adds a book to the cart; either inventoryId or bookId
// identifies it.
type AddItemRequest struct {
	InventoryID string `json:"inventoryId,omitempty"`
	BookID      *int64 `json:"bookId,omitempty"`
	Qty         *int   `json:"qty" validate:"required"`
}

// UpdateItemRequest sets the quantity of a line.
type UpdateItemRequest struct {
	Qty *int `json:"qty" validate:"required"`
}
