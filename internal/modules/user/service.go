package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, req RegisterRequest) (*User, error)
	// CreateUser stores an account with any role; used for seeding.
	CreateUser(ctx context.Context, req RegisterRequest, role Role) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	ChangeRole(ctx context.Context, id int64, role string) (*User, error)
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role,omitempty"`
}

// MinPasswordLength is the shortest password registration accepts.
const MinPasswordLength = 6
