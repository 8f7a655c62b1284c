package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/bookstore-backend/internal/modules/review"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

type reviewRepo struct{ m *Memory }

func cloneReview(rv *review.Review) *review.Review {
	cp := *rv
	return &cp
}

func (r reviewRepo) Create(ctx context.Context, rv *review.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.books[rv.BookID]; !ok {
		return apperr.NotFound("book %d not found", rv.BookID)
	}
	key := reviewPair{bookID: rv.BookID, userID: rv.UserID}
	if _, taken := r.m.reviewByPair[key]; taken {
		return apperr.Conflict("user %d has already reviewed book %d", rv.UserID, rv.BookID).
			WithCode(review.CodeAlreadyExists)
	}
	r.m.reviews[rv.ID] = cloneReview(rv)
	r.m.reviewOrder = append(r.m.reviewOrder, rv.ID)
	r.m.reviewByPair[key] = rv.ID
	return nil
}

func (r reviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	rv, ok := r.m.reviews[id]
	if !ok {
		return nil, apperr.NotFound("review %s not found", id)
	}
	return cloneReview(rv), nil
}

func (r reviewRepo) ListByBook(ctx context.Context, bookID int64) ([]*review.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := []*review.Review{}
	for _, id := range r.m.reviewOrder {
		if rv := r.m.reviews[id]; rv.BookID == bookID {
			out = append(out, cloneReview(rv))
		}
	}
	return out, nil
}

func (r reviewRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(*review.Review) error) (*review.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	cur, ok := r.m.reviews[id]
	if !ok {
		return nil, apperr.NotFound("review %s not found", id)
	}
	working := cloneReview(cur)
	if err := fn(working); err != nil {
		return nil, err
	}
	cur.Rating = working.Rating
	cur.Comment = working.Comment
	return cloneReview(cur), nil
}

func (r reviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	rv, ok := r.m.reviews[id]
	if !ok {
		return apperr.NotFound("review %s not found", id)
	}
	delete(r.m.reviews, id)
	delete(r.m.reviewByPair, reviewPair{bookID: rv.BookID, userID: rv.UserID})
	for i, rid := range r.m.reviewOrder {
		if rid == id {
			r.m.reviewOrder = append(r.m.reviewOrder[:i], r.m.reviewOrder[i+1:]...)
			break
		}
	}
	return nil
}
