// Package service orchestrates carts, the inventory ledger and orders.
// OrderService owns the live cart and order collections and is the only
// component that calls the ledger's mutating operations.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fjod/go_orders/internal/catalog"
	"github.com/fjod/go_orders/internal/domain"
	"github.com/fjod/go_orders/internal/events"
	"github.com/fjod/go_orders/internal/ledger"
	"github.com/fjod/go_orders/internal/payment"
	"github.com/fjod/go_orders/internal/pricing"
	"go.uber.org/zap"
)

// Config carries the limits that used to be hardcoded constants.
type Config struct {
	// MaxCartLines caps distinct products per cart; 0 means no cap.
	MaxCartLines int
}

type OrderService struct {
	mu          sync.RWMutex
	carts       map[string]*domain.Cart
	orders      map[int64]*domain.Order
	checkingOut map[string]bool // carts with an order creation in flight
	orderSeq    atomic.Int64

	catalog catalog.Catalog
	ledger  ledger.Ledger
	gateway payment.Gateway
	pricing pricing.Policy
	events  events.Publisher
	cfg     Config
	log     *zap.Logger
}

func New(
	cat catalog.Catalog,
	led ledger.Ledger,
	gw payment.Gateway,
	policy pricing.Policy,
	pub events.Publisher,
	cfg Config,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		carts:       make(map[string]*domain.Cart),
		orders:      make(map[int64]*domain.Order),
		checkingOut: make(map[string]bool),
		catalog:     cat,
		ledger:      led,
		gateway:     gw,
		pricing:     policy,
		events:      pub,
		cfg:         cfg,
		log:         log,
	}
}

func eventContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// publish sends an event off the transaction path; failures are logged,
// never propagated.
func (s *OrderService) publish(e events.Event) {
	go func() {
		ctx, cancel := eventContext()
		defer cancel()
		if err := s.events.Publish(ctx, e); err != nil {
			s.log.Warn("event publish failed",
				zap.String("type", string(e.Type)),
				zap.Int64("order_id", e.OrderID),
				zap.Error(err))
		}
	}()
}
