package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is one user's rating of a book.
type Review struct {
	ID        uuid.UUID `json:"id"`
	BookID    int64     `json:"bookId"`
	UserID    int64     `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	MinRating = 1
	MaxRating = 5

	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CodeAlreadyExists is the response code of a second review of one book by
// one user.
const CodeAlreadyExists = "REVIEW_ALREADY_EXISTS"

// CreateReviewRequest is the payload for reviewing a book.
type CreateReviewRequest struct {
	Rating  *int   `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}

// UpdateReviewRequest changes only the fields that are present.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// ListQuery selects one page of a book's reviews.
type ListQuery struct {
	Page      int
	Size      int
	SortField string // "createdAt" (default) or "rating"
	SortOrder string // "desc" (default) or "asc"
}

// Page is one slice of a listing plus the unpaged total.
type Page struct {
	Items []*Review `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

// Summary aggregates the ratings of a book.
type Summary struct {
	Average      float64     `json:"average"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"`
}
