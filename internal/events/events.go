// Package events publishes order lifecycle notifications. Publishing is
// outside the order transaction boundary: a failed publish never rolls
// back an order.
package events

import (
	"context"
	"time"

	"github.com/fjod/go_orders/internal/domain"
)

type Type string

const (
	TypeOrderCreated       Type = "order.created"
	TypeOrderStatusChanged Type = "order.status_changed"
	TypeOrderCancelled     Type = "order.cancelled"
	TypeOrderExpired       Type = "order.expired"
)

type Event struct {
	Type        Type               `json:"type"`
	OrderID     int64              `json:"order_id"`
	UserID      *int64             `json:"user_id,omitempty"`
	Status      domain.OrderStatus `json:"status"`
	TotalAmount float64            `json:"total_amount"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
