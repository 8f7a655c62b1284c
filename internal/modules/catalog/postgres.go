package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const bookColumns = `book_id, book_name, book_description, book_price, book_picture, seller_id, created_at`

func (r *postgresRepo) Create(ctx context.Context, b *Book) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO books (book_name, book_description, book_price, book_picture, seller_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING book_id`,
		b.BookName, b.BookDescription, b.BookPrice, b.BookPicture, b.SellerID, b.CreatedAt,
	).Scan(&b.BookID)
	if err != nil {
		return apperr.Internal(err, "insert book")
	}
	return nil
}

func scanBook(scan func(...interface{}) error) (*Book, error) {
	b := &Book{}
	err := scan(&b.BookID, &b.BookName, &b.BookDescription, &b.BookPrice,
		&b.BookPicture, &b.SellerID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Book, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE book_id=$1`, id)
	b, err := scanBook(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("book %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err, "get book")
	}
	return b, nil
}

func (r *postgresRepo) List(ctx context.Context, sellerID int64) ([]*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	args := []interface{}{}
	if sellerID != 0 {
		query += ` WHERE seller_id=$1`
		args = append(args, sellerID)
	}
	query += ` ORDER BY book_id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err, "list books")
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		b, err := scanBook(rows.Scan)
		if err != nil {
			return nil, apperr.Internal(err, "scan book")
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "list books")
	}
	return books, nil
}

func (r *postgresRepo) Update(ctx context.Context, b *Book) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET book_name=$1, book_description=$2, book_price=$3, book_picture=$4
		WHERE book_id=$5`,
		b.BookName, b.BookDescription, b.BookPrice, b.BookPicture, b.BookID)
	if err != nil {
		return apperr.Internal(err, "update book")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("book %d not found", b.BookID)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE book_id=$1`, id)
	if err != nil {
		return apperr.Internal(err, "delete book")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("book %d not found", id)
	}
	return nil
}
