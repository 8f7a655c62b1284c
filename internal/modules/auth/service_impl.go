package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

type service struct {
	users  user.Service
	repo   user.Repository
	tokens *TokenCodec
}

// NewService creates a new auth service.
func NewService(users user.Service, repo user.Repository, tokens *TokenCodec) Service {
	return &service{users: users, repo: repo, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	if u.AccountStatus != user.StatusActive {
		return nil, apperr.Forbidden("account is %s", u.AccountStatus)
	}

	return s.session(u)
}

func (s *service) Register(ctx context.Context, req user.RegisterRequest) (*Session, error) {
	u, err := s.users.RegisterUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *service) Me(ctx context.Context, subjectID int64) (*user.User, error) {
	return s.repo.GetUserByID(ctx, subjectID)
}

func (s *service) Refresh(ctx context.Context, token string) (*Session, error) {
	p, err := s.tokens.Decode(token)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetUserByID(ctx, p.SubjectID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("token subject no longer exists")
		}
		return nil, err
	}
	return s.session(u)
}

func (s *service) session(u *user.User) (*Session, error) {
	token, _, err := s.tokens.IssueFor(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}
