package service

import (
	"errors"
	"fmt"

	"github.com/fjod/go_orders/internal/domain"
)

var (
	ErrCartNotFound        = errors.New("cart not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyCart           = errors.New("cart is empty, nothing to order")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	// ErrConcurrencyConflict is returned when two callers race to consume
	// the same cart; exactly one of them creates the order.
	ErrConcurrencyConflict = errors.New("cart is being checked out by another request")
)

// InvalidInputError rejects a request before any mutation is applied.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports a status change the state machine does
// not permit. The order's status is left unchanged.
type InvalidTransitionError struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}
