package user

import "context"

// Repository defines the interface for user data storage.
type Repository interface {
	// CreateUser assigns the next user id and stores u. A second account with
	// the same (normalised) email is a conflict.
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	UpdateRole(ctx context.Context, id int64, role Role) error
}
