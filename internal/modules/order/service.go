package order

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/bookstore-backend/internal/modules/cart"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/events"
	"github.com/georgemunganga/bookstore-backend/internal/platform/ids"
	"github.com/georgemunganga/bookstore-backend/internal/platform/money"
	"github.com/georgemunganga/bookstore-backend/internal/platform/telemetry"
)

var (
	ordersPlaced    = telemetry.Counter("bookstore/order", "bookstore.orders.placed", "Orders placed")
	ordersCancelled = telemetry.Counter("bookstore/order", "bookstore.orders.cancelled", "Orders returned or cancelled")
)

// Service defines the order management business logic.
type Service interface {
	// Place checks out the caller's cart and empties it.
	Place(ctx context.Context, userID int64, req PlaceOrderRequest) (*Order, error)

	// Return cancels the order the caller placed from cartID.
	Return(ctx context.Context, userID int64, cartID string) (*Order, error)

	// List returns the orders visible to the caller's role.
	List(ctx context.Context, callerID int64, callerRole user.Role, opts ListOptions) ([]*Order, error)

	// UpdateStatus applies a fulfillment transition.
	UpdateStatus(ctx context.Context, orderID string, callerID int64, callerRole user.Role, status string) (*Order, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new order service.
func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// sourcesOf lists the statuses an order may move to `to` from.
func sourcesOf(to OrderStatus) []OrderStatus {
	var from []OrderStatus
	for st, next := range validTransitions {
		for _, n := range next {
			if n == to {
				from = append(from, st)
			}
		}
	}
	return from
}

func (s *service) Place(ctx context.Context, userID int64, req PlaceOrderRequest) (*Order, error) {
	if req.CartID == "" || req.ItemCount == nil || req.Total == nil ||
		strings.TrimSpace(req.ShippingAddress) == "" || strings.TrimSpace(req.BillingAddress) == "" {
		return nil, apperr.Validation("cartId, itemCount, total, shippingAddress and billingAddress are required")
	}
	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		return nil, apperr.Validation("invalid cartId %q", req.CartID)
	}
	if *req.ItemCount < 1 {
		return nil, apperr.Validation("itemCount must be at least 1")
	}
	if *req.Total < 0 {
		return nil, apperr.Validation("total must not be negative")
	}

	o := &Order{
		OrderID:         ids.NewUUID(),
		UserID:          userID,
		CartID:          cartID,
		ItemCount:       *req.ItemCount,
		Total:           money.Round2(*req.Total),
		Status:          StatusProcessing,
		PlacedAt:        s.now(),
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		BillingAddress:  strings.TrimSpace(req.BillingAddress),
	}
	if err := s.repo.PlaceFromCart(ctx, o, cart.UserKey(userID)); err != nil {
		return nil, err
	}

	ordersPlaced.Add(ctx, 1)
	s.publish(ctx, events.OrderPlaced, o)
	return o, nil
}

func (s *service) Return(ctx context.Context, userID int64, cartID string) (*Order, error) {
	cid, err := uuid.Parse(cartID)
	if err != nil {
		return nil, apperr.Validation("invalid cartId %q", cartID)
	}
	o, err := s.repo.FindByUserAndCart(ctx, userID, cid)
	if err != nil {
		return nil, err
	}
	o, applied, err := s.repo.Transition(ctx, o.OrderID, sourcesOf(StatusCancelled), StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !applied {
		if o.Status == StatusCancelled {
			return o, nil
		}
		return nil, apperr.Validation("order %s is already %s", o.OrderID, strings.ToLower(string(o.Status)))
	}

	ordersCancelled.Add(ctx, 1)
	s.publish(ctx, events.OrderCancelled, o)
	return o, nil
}

func (s *service) List(ctx context.Context, callerID int64, callerRole user.Role, opts ListOptions) ([]*Order, error) {
	var f Filter
	switch callerRole {
	case user.RoleAdmin:
	case user.RoleSeller:
		f.SellerID = callerID
	default:
		f.UserID = callerID
	}

	orders, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := sortOrders(orders, opts); err != nil {
		return nil, err
	}
	return orders, nil
}

func sortOrders(orders []*Order, opts ListOptions) error {
	desc := false
	switch strings.ToLower(opts.SortOrder) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return apperr.Validation("order must be asc or desc")
	}

	var less func(a, b *Order) bool
	switch opts.SortField {
	case "":
		if desc {
			for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
				orders[i], orders[j] = orders[j], orders[i]
			}
		}
		return nil
	case "placedAt":
		less = func(a, b *Order) bool { return a.PlacedAt.Before(b.PlacedAt) }
	case "total":
		less = func(a, b *Order) bool { return a.Total < b.Total }
	default:
		return apperr.Validation("cannot sort orders by %q", opts.SortField)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if desc {
			return less(orders[j], orders[i])
		}
		return less(orders[i], orders[j])
	})
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, callerID int64, callerRole user.Role, status string) (*Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validation("invalid order id %q", orderID)
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole != user.RoleAdmin && o.SellerID != callerID {
		return nil, apperr.Forbidden("order %s belongs to another seller", o.OrderID)
	}

	next := OrderStatus(status)
	from := sourcesOf(next)
	if len(from) == 0 {
		return nil, apperr.Validation("cannot transition order from %s to %s", o.Status, status)
	}
	o, applied, err := s.repo.Transition(ctx, o.OrderID, from, next)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperr.Validation("cannot transition order from %s to %s", o.Status, status)
	}

	if next == StatusCancelled {
		ordersCancelled.Add(ctx, 1)
	}
	s.publish(ctx, events.OrderStatusChanged, o)
	return o, nil
}

func (s *service) publish(ctx context.Context, eventType string, o *Order) {
	err := s.publisher.Publish(ctx, o.OrderID.String(), events.Event{
		Type:       eventType,
		OccurredAt: s.now(),
		Payload:    o,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order event",
			"error", err, "event", eventType, "order_id", o.OrderID)
	}
}
