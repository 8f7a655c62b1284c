package catalog

import "time"

// Book is a title listed for sale by a seller.
type Book struct {
	BookID          int64     `json:"bookId"`
	BookName        string    `json:"bookName"`
	BookDescription string    `json:"bookDescription"`
	BookPrice       float64   `json:"bookPrice"`
	BookPicture     string    `json:"bookPicture"`
	SellerID        int64     `json:"sellerId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateBookRequest holds the data for listing a book.
type CreateBookRequest struct {
	BookName        string   `json:"bookName" validate:"required"`
	BookDescription string   `json:"bookDescription" validate:"required"`
	BookPrice       *float64 `json:"bookPrice" validate:"required,gte=0"`
	BookPicture     string   `json:"bookPicture" validate:"required"`
}

// UpdateBookRequest changes only the fields that are present.
type UpdateBookRequest struct {
	BookName        *string  `json:"bookName,omitempty"`
	BookDescription *string  `json:"bookDescription,omitempty"`
	BookPrice       *float64 `json:"bookPrice,omitempty" validate:"omitempty,gte=0"`
	BookPicture     *string  `json:"bookPicture,omitempty"`
}
