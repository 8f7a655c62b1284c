package user

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

type service struct {
	repo Repository
	cost int
}

// NewService creates a new user service hashing passwords at bcrypt.DefaultCost.
func NewService(repo Repository) Service {
	return NewServiceWithCost(repo, bcrypt.DefaultCost)
}

// NewServiceWithCost lets tests trade hash strength for speed.
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

func (s *service) RegisterUser(ctx context.Context, req RegisterRequest) (*User, error) {
	role := RoleBuyer
	if req.Role != "" {
		r, ok := ParseRole(req.Role)
		if !ok || r == RoleAdmin {
			return nil, apperr.Validation("role must be BUYER or SELLER")
		}
		role = r
	}
	return s.CreateUser(ctx, req, role)
}

func (s *service) CreateUser(ctx context.Context, req RegisterRequest, role Role) (*User, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return nil, apperr.Validation("email, password, firstName and lastName are required")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", MinPasswordLength).
			WithStatus(http.StatusUnprocessableEntity)
	}
	if !role.Valid() {
		return nil, apperr.Validation("unknown role %q", role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	user := &User{
		Email:         email,
		PasswordHash:  string(hashedPassword),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          role,
		AccountStatus: StatusActive,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ChangeRole(ctx context.Context, id int64, role string) (*User, error) {
	r, ok := ParseRole(role)
	if !ok {
		return nil, apperr.Validation("role must be one of BUYER, SELLER, ADMIN")
	}
	if err := s.repo.UpdateRole(ctx, id, r); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}
