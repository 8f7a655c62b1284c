// Package events publishes domain events about orders.
package events

import (
	"context"
	"time"
)

// Publisher delivers an event keyed by key.
type Publisher interface {
	Publish(ctx context.Context, key string, event Event) error
	Close() error
}

// Event types.
const (
	OrderPlaced        = "order.placed"
	OrderCancelled     = "order.cancelled"
	OrderStatusChanged = "order.status_changed"
)

// Event is the envelope written to the topic.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// Nop discards every event; used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close() error                                 { return nil }
