package auth

import (
	"context"

	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, req user.RegisterRequest) (*Session, error)
	Me(ctx context.Context, subjectID int64) (*user.User, error)
	Refresh(ctx context.Context, token string) (*Session, error)
}

// Session is returned by login, register and refresh.
type Session struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}
