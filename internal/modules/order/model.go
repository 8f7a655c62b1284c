package order

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Order is a checkout of one cart. Total is in major units.
type Order struct {
	OrderID         uuid.UUID   `json:"orderId"`
	UserID          int64       `json:"userId"`
	SellerID        int64       `json:"sellerId"`
	CartID          uuid.UUID   `json:"cartId"`
	ItemCount       int         `json:"itemCount"`
	Total           float64     `json:"total"`
	Status          OrderStatus `json:"status"`
	PlacedAt        time.Time   `json:"placedAt"`
	ShippingAddress string      `json:"shippingAddress"`
	BillingAddress  string      `json:"billingAddress"`
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	CartID          string   `json:"cartId" validate:"required"`
	ItemCount       *int     `json:"itemCount" validate:"required"`
	Total           *float64 `json:"total" validate:"required"`
	ShippingAddress string   `json:"shippingAddress" validate:"required"`
	BillingAddress  string   `json:"billingAddress" validate:"required"`
}

// ReturnOrderRequest names the order to return by the cart it came from.
type ReturnOrderRequest struct {
	CartID string `json:"cartId" validate:"required"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Filter narrows List; zero fields match everything.
type Filter struct {
	UserID   int64
	SellerID int64
}

// ListOptions is the optional caller-specified ordering of List.
type ListOptions struct {
	SortField string // "placedAt" or "total"; empty keeps insertion order
	SortOrder string // "asc" (default) or "desc"
}
