package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const reviewColumns = `review_id, book_id, user_id, rating, comment, created_at`

func duplicate(bookID, userID int64) error {
	return apperr.Conflict("user %d has already reviewed book %d", userID, bookID).
		WithCode(CodeAlreadyExists)
}

// Create relies on the (book_id, user_id) unique constraint so concurrent
// submissions cannot both succeed.
func (r *postgresRepo) Create(ctx context.Context, rv *Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rv.ID, rv.BookID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return duplicate(rv.BookID, rv.UserID)
			case "23503":
				return apperr.NotFound("book %d not found", rv.BookID)
			}
		}
		return apperr.Internal(err, "insert review")
	}
	return nil
}

func scanReview(scan func(dest ...interface{}) error) (*Review, error) {
	rv := &Review{}
	if err := scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE review_id=$1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("review %s not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err, "get review")
	}
	return rv, nil
}

func (r *postgresRepo) ListByBook(ctx context.Context, bookID int64) ([]*Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE book_id=$1 ORDER BY seq`, bookID)
	if err != nil {
		return nil, apperr.Internal(err, "list reviews")
	}
	defer rows.Close()

	out := []*Review{}
	for rows.Next() {
		rv, err := scanReview(rows.Scan)
		if err != nil {
			return nil, apperr.Internal(err, "scan review")
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "list reviews")
	}
	return out, nil
}

// Mutate row-locks the review for the length of fn and writes back the
// rating and comment it leaves.
func (r *postgresRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(*Review) error) (*Review, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal(err, "begin review tx")
	}
	defer tx.Rollback()

	rv, err := scanReview(tx.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE review_id=$1 FOR UPDATE`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("review %s not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err, "lock review")
	}
	if err := fn(rv); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE reviews SET rating=$2, comment=$3 WHERE review_id=$1`,
		id, rv.Rating, rv.Comment); err != nil {
		return nil, apperr.Internal(err, "update review")
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal(err, "commit review")
	}
	return rv, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE review_id=$1`, id)
	if err != nil {
		return apperr.Internal(err, "delete review")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("review %s not found", id)
	}
	return nil
}
