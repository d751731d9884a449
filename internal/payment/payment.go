// Package payment is the synchronous payment collaborator: reserve funds
// when an order is created, release them when it is cancelled.
package payment

import (
	"context"
	"errors"
)

var (
	ErrDeclined      = errors.New("payment declined")
	ErrAuthNotFound  = errors.New("authorization not found")
	ErrInvalidAmount = errors.New("amount must be positive")
)

type Gateway interface {
	// Authorize reserves funds and returns an authorization ID, or
	// ErrDeclined.
	Authorize(ctx context.Context, amount float64) (string, error)

	// Refund releases a previous authorization. Idempotent.
	Refund(ctx context.Context, authorizationID string) error
}
