package cart

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetOrCreate(ctx context.Context, userKey string) (*Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal(err, "begin cart tx")
	}
	defer tx.Rollback()

	c, err := LoadForUpdate(ctx, tx, userKey)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal(err, "commit cart")
	}
	return c, nil
}

// Mutate runs fn against the row-locked cart inside one transaction.
func (r *postgresRepo) Mutate(ctx context.Context, userKey string, fn func(*Cart) error) (*Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal(err, "begin cart tx")
	}
	defer tx.Rollback()

	c, err := LoadForUpdate(ctx, tx, userKey)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := Save(ctx, tx, c); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal(err, "commit cart")
	}
	return c, nil
}

// LoadForUpdate locks and returns the cart of userKey within tx, creating
// it when absent. The order repository uses it to clear the cart in the
// same transaction that inserts the order.
func LoadForUpdate(ctx context.Context, tx *sql.Tx, userKey string) (*Cart, error) {
	fresh := New(userKey, time.Now().UTC())
	_, err := tx.ExecContext(ctx, `
		INSERT INTO carts (user_key, cart_id, subtotal, created_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (user_key) DO NOTHING`,
		fresh.UserKey, fresh.CartID, fresh.CreatedAt)
	if err != nil {
		return nil, apperr.Internal(err, "ensure cart")
	}

	c := &Cart{UserKey: userKey, Items: []Item{}}
	err = tx.QueryRowContext(ctx, `
		SELECT cart_id, subtotal, created_at FROM carts WHERE user_key=$1 FOR UPDATE`,
		userKey).Scan(&c.CartID, &c.Subtotal, &c.CreatedAt)
	if err != nil {
		return nil, apperr.Internal(err, "lock cart")
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT item_id, inventory_id, unit_price, qty, line_subtotal
		FROM cart_items WHERE user_key=$1 ORDER BY position ASC`, userKey)
	if err != nil {
		return nil, apperr.Internal(err, "load cart items")
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ItemID, &it.InventoryID, &it.UnitPrice, &it.Qty, &it.LineSubtotal); err != nil {
			return nil, apperr.Internal(err, "scan cart item")
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "load cart items")
	}
	return c, nil
}

// Save rewrites the cart header and its lines within tx.
func Save(ctx context.Context, tx *sql.Tx, c *Cart) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE carts SET cart_id=$1, subtotal=$2 WHERE user_key=$3`,
		c.CartID, c.Subtotal, c.UserKey); err != nil {
		return apperr.Internal(err, "update cart")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_key=$1`, c.UserKey); err != nil {
		return apperr.Internal(err, "clear cart items")
	}
	for pos, it := range c.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (item_id, user_key, position, inventory_id, unit_price, qty, line_subtotal)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			it.ItemID, c.UserKey, pos, it.InventoryID, it.UnitPrice, it.Qty, it.LineSubtotal)
		if err != nil {
			return apperr.Internal(err, "insert cart item %s", it.ItemID)
		}
	}
	return nil
}
