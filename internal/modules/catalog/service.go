package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

// Service defines catalog business logic.
type Service interface {
	CreateBook(ctx context.Context, sellerID int64, req CreateBookRequest) (*Book, error)
	GetBook(ctx context.Context, id int64) (*Book, error)
	ListBooks(ctx context.Context, sellerID int64) ([]*Book, error)
	UpdateBook(ctx context.Context, id int64, req UpdateBookRequest) (*Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateBook(ctx context.Context, sellerID int64, req CreateBookRequest) (*Book, error) {
	if strings.TrimSpace(req.BookName) == "" || req.BookPrice == nil {
		return nil, apperr.Validation("bookName and bookPrice are required")
	}
	if *req.BookPrice < 0 {
		return nil, apperr.Validation("bookPrice must not be negative")
	}
	b := &Book{
		BookName:        strings.TrimSpace(req.BookName),
		BookDescription: req.BookDescription,
		BookPrice:       *req.BookPrice,
		BookPicture:     req.BookPicture,
		SellerID:        sellerID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id int64) (*Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, sellerID int64) ([]*Book, error) {
	return s.repo.List(ctx, sellerID)
}

func (s *service) UpdateBook(ctx context.Context, id int64, req UpdateBookRequest) (*Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.BookName != nil {
		if strings.TrimSpace(*req.BookName) == "" {
			return nil, apperr.Validation("bookName must not be empty")
		}
		b.BookName = strings.TrimSpace(*req.BookName)
	}
	if req.BookDescription != nil {
		b.BookDescription = *req.BookDescription
	}
	if req.BookPrice != nil {
		if *req.BookPrice < 0 {
			return nil, apperr.Validation("bookPrice must not be negative")
		}
		b.BookPrice = *req.BookPrice
	}
	if req.BookPicture != nil {
		b.BookPicture = *req.BookPicture
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
