package review

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines review storage.
type Repository interface {
	// Create stores rv. A second review for the same (BookID, UserID) is a
	// Conflict carrying CodeAlreadyExists; the check and the insert are one
	// atomic step.
	Create(ctx context.Context, rv *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	// ListByBook returns the book's reviews in insertion order.
	ListByBook(ctx context.Context, bookID int64) ([]*Review, error)
	// Mutate applies fn to the stored review as one atomic step and persists
	// the rating and comment it leaves. Nothing is written if fn fails.
	Mutate(ctx context.Context, id uuid.UUID, fn func(*Review) error) (*Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
