package review

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/bookstore-backend/internal/modules/catalog"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/ids"
	"github.com/georgemunganga/bookstore-backend/internal/platform/telemetry"
)

var reviewsCreated = telemetry.Counter("bookstore/review", "bookstore.reviews.created", "Reviews created")

// Service is the review engine.
type Service interface {
	List(ctx context.Context, bookID int64, q ListQuery) (*Page, error)
	Create(ctx context.Context, bookID, userID int64, rating *int, comment string) (*Review, error)
	Update(ctx context.Context, reviewID uuid.UUID, callerID int64, callerRole user.Role, req UpdateReviewRequest) (*Review, error)
	Remove(ctx context.Context, reviewID uuid.UUID, callerID int64, callerRole user.Role) error
	Summary(ctx context.Context, bookID int64) (*Summary, error)
}

type service struct {
	repo  Repository
	books catalog.Repository
	now   func() time.Time
}

// NewService creates a new review service.
func NewService(repo Repository, books catalog.Repository) Service {
	return &service{
		repo:  repo,
		books: books,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func checkRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperr.Validation("rating must be between %d and %d", MinRating, MaxRating).
			WithDetails(map[string]string{"rating": "must be between 1 and 5"})
	}
	return nil
}

func (s *service) List(ctx context.Context, bookID int64, q ListQuery) (*Page, error) {
	if q.Page < 0 {
		return nil, apperr.Validation("page must not be negative")
	}
	if q.Size < 0 {
		return nil, apperr.Validation("size must not be negative")
	}
	if q.Size == 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}

	all, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := sortReviews(all, q.SortField, q.SortOrder); err != nil {
		return nil, err
	}

	page := &Page{Items: []*Review{}, Total: len(all), Page: q.Page, Size: q.Size}
	start := q.Page * q.Size
	if start >= len(all) {
		return page, nil
	}
	end := start + q.Size
	if end > len(all) {
		end = len(all)
	}
	page.Items = all[start:end]
	return page, nil
}

func sortReviews(reviews []*Review, field, order string) error {
	desc := true
	switch strings.ToLower(order) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return apperr.Validation("sort order must be asc or desc")
	}

	var less func(a, b *Review) bool
	switch field {
	case "", "createdAt":
		less = func(a, b *Review) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "rating":
		less = func(a, b *Review) bool { return a.Rating < b.Rating }
	default:
		return apperr.Validation("cannot sort reviews by %q", field)
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		if desc {
			return less(reviews[j], reviews[i])
		}
		return less(reviews[i], reviews[j])
	})
	return nil
}

func (s *service) Create(ctx context.Context, bookID, userID int64, rating *int, comment string) (*Review, error) {
	if rating == nil {
		return nil, apperr.Validation("rating is required").
			WithDetails(map[string]string{"rating": "is required"})
	}
	if err := checkRating(*rating); err != nil {
		return nil, err
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	rv := &Review{
		ID:        ids.NewUUID(),
		BookID:    bookID,
		UserID:    userID,
		Rating:    *rating,
		Comment:   comment,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	reviewsCreated.Add(ctx, 1)
	return rv, nil
}

// owned loads a review the caller may change: its author or an admin.
func (s *service) owned(ctx context.Context, reviewID uuid.UUID, callerID int64, callerRole user.Role) (*Review, error) {
	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(rv, callerID, callerRole); err != nil {
		return nil, err
	}
	return rv, nil
}

func checkOwner(rv *Review, callerID int64, callerRole user.Role) error {
	if rv.UserID != callerID && callerRole != user.RoleAdmin {
		return apperr.Forbidden("review %s belongs to another user", rv.ID)
	}
	return nil
}

func (s *service) Update(ctx context.Context, reviewID uuid.UUID, callerID int64, callerRole user.Role, req UpdateReviewRequest) (*Review, error) {
	return s.repo.Mutate(ctx, reviewID, func(rv *Review) error {
		if err := checkOwner(rv, callerID, callerRole); err != nil {
			return err
		}
		if req.Rating != nil {
			if err := checkRating(*req.Rating); err != nil {
				return err
			}
			rv.Rating = *req.Rating
		}
		if req.Comment != nil {
			rv.Comment = *req.Comment
		}
		return nil
	})
}

func (s *service) Remove(ctx context.Context, reviewID uuid.UUID, callerID int64, callerRole user.Role) error {
	if _, err := s.owned(ctx, reviewID, callerID, callerRole); err != nil {
		return err
	}
	return s.repo.Delete(ctx, reviewID)
}

func (s *service) Summary(ctx context.Context, bookID int64) (*Summary, error) {
	reviews, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Distribution: make(map[int]int, MaxRating)}
	for r := MinRating; r <= MaxRating; r++ {
		sum.Distribution[r] = 0
	}
	total := 0
	for _, rv := range reviews {
		sum.Distribution[rv.Rating]++
		total += rv.Rating
	}
	sum.Count = len(reviews)
	if sum.Count > 0 {
		sum.Average = math.Round(float64(total)/float64(sum.Count)*10) / 10
	}
	return sum, nil
}
