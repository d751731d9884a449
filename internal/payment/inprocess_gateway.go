package payment

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InProcessGateway approves every authorization up to an optional limit
// and tracks them so refunds can be verified. It stands in for a real
// payment provider in single-process deployments and tests.
type InProcessGateway struct {
	mu       sync.Mutex
	open     map[string]float64
	refunded map[string]bool

	// DeclineOver rejects authorizations above this amount when > 0.
	DeclineOver float64
}

func NewInProcessGateway() *InProcessGateway {
	return &InProcessGateway{
		open:     make(map[string]float64),
		refunded: make(map[string]bool),
	}
}

func (g *InProcessGateway) Authorize(_ context.Context, amount float64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.DeclineOver > 0 && amount > g.DeclineOver {
		return "", ErrDeclined
	}
	id := uuid.New().String()
	g.open[id] = amount
	return id, nil
}

func (g *InProcessGateway) Refund(_ context.Context, authorizationID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refunded[authorizationID] {
		return nil
	}
	if _, ok := g.open[authorizationID]; !ok {
		return ErrAuthNotFound
	}
	delete(g.open, authorizationID)
	g.refunded[authorizationID] = true
	return nil
}

// OpenAmount returns the outstanding amount for an authorization, zero if
// none. Test helper.
func (g *InProcessGateway) OpenAmount(authorizationID string) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open[authorizationID]
}
