package cart

import "context"

// Repository defines cart storage. Mutations are applied through Mutate so
// that the read-modify-write of one cart is never interleaved with another.
type Repository interface {
	// GetOrCreate returns the cart stored under userKey, creating and
	// storing an empty one first when there is none.
	GetOrCreate(ctx context.Context, userKey string) (*Cart, error)

	// Mutate loads (or creates) the cart under userKey, applies fn to a
	// working copy and persists the copy only when fn returns nil.
	Mutate(ctx context.Context, userKey string, fn func(*Cart) error) (*Cart, error)
}
