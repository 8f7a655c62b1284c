package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/bookstore-backend/internal/modules/cart"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/ids"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `order_id, user_id, seller_id, cart_id, item_count, total, status,
	placed_at, shipping_address, billing_address`

// PlaceFromCart inserts the order and empties the row-locked cart inside a
// single transaction. The seller's book row is share-locked until commit.
func (r *postgresRepo) PlaceFromCart(ctx context.Context, o *Order, userKey string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err, "begin order tx")
	}
	defer tx.Rollback()

	c, err := cart.LoadForUpdate(ctx, tx, userKey)
	if err != nil {
		return err
	}
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
	err = tx.QueryRowContext(ctx,
		`SELECT seller_id FROM books WHERE book_id=$1 FOR SHARE`, bookID).Scan(&o.SellerID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("book %d not found", bookID)
	}
	if err != nil {
		return apperr.Internal(err, "resolve seller")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.OrderID, o.UserID, o.SellerID, o.CartID, o.ItemCount, o.Total, o.Status,
		o.PlacedAt, o.ShippingAddress, o.BillingAddress)
	if err != nil {
		return apperr.Internal(err, "insert order")
	}

	c.Empty()
	c.CartID = uuid.New()
	if err := cart.Save(ctx, tx, c); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal(err, "commit order")
	}
	return nil
}

func (r *postgresRepo) FindByUserAndCart(ctx context.Context, userID int64, cartID uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id=$1 AND cart_id=$2
		ORDER BY seq DESC LIMIT 1`, userID, cartID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no order for cart %s", cartID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "find order")
	}
	return o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id=$1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order %s not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err, "get order")
	}
	return o, nil
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.UserID != 0 {
		query += fmt.Sprintf(` AND user_id=$%d`, n)
		args = append(args, f.UserID)
		n++
	}
	if f.SellerID != 0 {
		query += fmt.Sprintf(` AND seller_id=$%d`, n)
		args = append(args, f.SellerID)
	}
	query += ` ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err, "list orders")
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, apperr.Internal(err, "scan order")
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "list orders")
	}
	return orders, nil
}

// Transition is a compare-and-set on the status column; a miss is told
// apart from a missing order by reading the row back.
func (r *postgresRepo) Transition(ctx context.Context, id uuid.UUID, from []OrderStatus, to OrderStatus) (*Order, bool, error) {
	allowed := make([]string, len(from))
	for i, st := range from {
		allowed[i] = string(st)
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		UPDATE orders SET status=$1
		WHERE order_id=$2 AND status = ANY($3)
		RETURNING `+orderColumns, to, id, pq.Array(allowed)).Scan)
	if err == nil {
		return o, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, apperr.Internal(err, "transition order")
	}
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return cur, false, nil
}

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	err := scan(&o.OrderID, &o.UserID, &o.SellerID, &o.CartID, &o.ItemCount, &o.Total,
		&o.Status, &o.PlacedAt, &o.ShippingAddress, &o.BillingAddress)
	if err != nil {
		return nil, err
	}
	return o, nil
}
