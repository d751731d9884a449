package service

import (
	"context"
	"sync"
	"testing"

	"github.com/fjod/go_orders/internal/catalog"
	"github.com/fjod/go_orders/internal/domain"
	"github.com/fjod/go_orders/internal/events"
	"github.com/fjod/go_orders/internal/ledger"
	"github.com/fjod/go_orders/internal/payment"
	"github.com/fjod/go_orders/internal/pricing"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) byType(t events.Type) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	svc     *OrderService
	catalog *catalog.MemoryCatalog
	ledger  *ledger.MemoryLedger
	gateway *payment.InProcessGateway
	events  *recordingPublisher
}

// newTestEnv wires a fully in-process service with three seeded products.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cat := catalog.NewMemoryCatalog()
	led := ledger.NewMemoryLedger(zap.NewNop(), cat)
	gw := payment.NewInProcessGateway()
	pub := &recordingPublisher{}

	seed := []struct {
		p     domain.Product
		stock int
	}{
		{domain.Product{ID: 1, Name: "Laptop", Price: 50.00, Category: "Electronics"}, 100},
		{domain.Product{ID: 2, Name: "Mouse", Price: 9.99, Category: "Electronics"}, 500},
		{domain.Product{ID: 3, Name: "Desk", Price: 120.00, Category: "Furniture"}, 2},
	}
	for _, s := range seed {
		s.p.Stock = s.stock
		require.NoError(t, cat.AddProduct(s.p))
		require.NoError(t, led.SetStock(s.p.ID, s.stock))
	}

	svc := New(cat, led, gw, pricing.Default(), pub, Config{MaxCartLines: 10}, zap.NewNop())
	return &testEnv{svc: svc, catalog: cat, ledger: led, gateway: gw, events: pub}
}

func (e *testEnv) stock(t *testing.T, productID int64) int {
	t.Helper()
	qty, ok := e.ledger.Stock(productID)
	require.True(t, ok)
	return qty
}

// cartWith creates a cart owned by userID holding the given product and
// quantity.
func (e *testEnv) cartWith(t *testing.T, userID int64, productID int64, quantity int) string {
	t.Helper()
	cart := e.svc.CreateCart(&userID)
	_, err := e.svc.AddItem(context.Background(), cart.ID, productID, quantity)
	require.NoError(t, err)
	return cart.ID
}
