package catalog

import "context"

// Repository defines the interface for book data storage.
type Repository interface {
	// Create assigns the next book id and stores b.
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id int64) (*Book, error)
	// List returns books in id order; sellerID 0 means every seller.
	List(ctx context.Context, sellerID int64) ([]*Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
}
