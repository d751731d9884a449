package ledger

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type reservationStatus string

const (
	statusOpen      reservationStatus = "open"
	statusCommitted reservationStatus = "committed"
	statusReleased  reservationStatus = "released"
)

type reservation struct {
	id     string
	lines  []Line
	status reservationStatus
}

type productStock struct {
	mu  sync.Mutex
	qty int
}

// MemoryLedger implements Ledger with one mutex per product. Batches
// touching disjoint product sets run concurrently; batches sharing a
// product serialize on that product's mutex. Locks are always acquired in
// ascending product ID order so two batches sharing products in different
// orders cannot deadlock.
type MemoryLedger struct {
	mu       sync.RWMutex // guards the products map, not the counters
	products map[int64]*productStock

	resMu        sync.Mutex // guards reservations and their status
	reservations map[string]*reservation

	mirror StockWriter // optional, may be nil
	log    *zap.Logger
}

// NewMemoryLedger creates an in-memory ledger. mirror may be nil; when
// set, every counter change is forwarded to it.
func NewMemoryLedger(log *zap.Logger, mirror StockWriter) *MemoryLedger {
	return &MemoryLedger{
		products:     make(map[int64]*productStock),
		reservations: make(map[string]*reservation),
		mirror:       mirror,
		log:          log,
	}
}

// SetStock sets the counter for a product.
func (l *MemoryLedger) SetStock(productID int64, quantity int) error {
	if quantity < 0 {
		return ErrNegativeStock
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.products[productID]; ok {
		p.mu.Lock()
		p.qty = quantity
		p.mu.Unlock()
		return nil
	}
	l.products[productID] = &productStock{qty: quantity}
	return nil
}

// Stock returns the current counter for a product.
func (l *MemoryLedger) Stock(productID int64) (int, bool) {
	l.mu.RLock()
	p, ok := l.products[productID]
	l.mu.RUnlock()
	if !ok {
		return 0, false
	}
	p.mu.Lock()
	qty := p.qty
	p.mu.Unlock()
	return qty, true
}

// Reserve pre-decrements stock for every line or for none. The check and
// the decrement happen under the same product locks, so the loser of a
// race over shared products observes the post-decrement level.
func (l *MemoryLedger) Reserve(lines []Line) (string, error) {
	if len(lines) == 0 {
		return "", ErrEmptyBatch
	}

	// Merge duplicate product IDs, then sort ascending; lock acquisition
	// order must be globally fixed and each mutex taken once.
	merged := make(map[int64]int, len(lines))
	for _, line := range lines {
		merged[line.ProductID] += line.Quantity
	}
	batch := make([]Line, 0, len(merged))
	for pid, qty := range merged {
		batch = append(batch, Line{ProductID: pid, Quantity: qty})
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].ProductID < batch[j].ProductID })

	l.mu.RLock()
	stocks := make([]*productStock, len(batch))
	for i, line := range batch {
		p, ok := l.products[line.ProductID]
		if !ok {
			l.mu.RUnlock()
			return "", ErrUnknownProduct
		}
		stocks[i] = p
	}
	l.mu.RUnlock()

	for _, p := range stocks {
		p.mu.Lock()
	}
	unlock := func() {
		for i := len(stocks) - 1; i >= 0; i-- {
			stocks[i].mu.Unlock()
		}
	}

	// First pass: every line must be satisfiable before anything changes.
	for i, line := range batch {
		if stocks[i].qty < line.Quantity {
			pid := line.ProductID
			unlock()
			l.log.Debug("reservation rejected",
				zap.Int64("product_id", pid))
			return "", &InsufficientStockError{ProductID: pid}
		}
	}

	// Second pass: decrement all.
	for i, line := range batch {
		stocks[i].qty -= line.Quantity
		if l.mirror != nil {
			l.mirror.AdjustStock(line.ProductID, -line.Quantity)
		}
	}
	unlock()

	res := &reservation{
		id:     uuid.New().String(),
		lines:  batch,
		status: statusOpen,
	}
	l.resMu.Lock()
	l.reservations[res.id] = res
	l.resMu.Unlock()

	return res.id, nil
}

// Commit finalizes the decrement applied at reserve time. Committing an
// already-committed reservation is a no-op.
func (l *MemoryLedger) Commit(reservationID string) error {
	l.resMu.Lock()
	defer l.resMu.Unlock()

	res, ok := l.reservations[reservationID]
	if !ok {
		return ErrReservationNotFound
	}
	switch res.status {
	case statusCommitted:
		return nil
	case statusReleased:
		return ErrReservationNotFound
	}
	res.status = statusCommitted
	return nil
}

// Release restores exactly the reserved quantities. Releasing an
// already-released reservation is a no-op; releasing a committed one
// returns its stock (the order-cancellation path).
func (l *MemoryLedger) Release(reservationID string) error {
	l.resMu.Lock()
	res, ok := l.reservations[reservationID]
	if !ok {
		l.resMu.Unlock()
		return ErrReservationNotFound
	}
	if res.status == statusReleased {
		l.resMu.Unlock()
		return nil
	}
	// Flip the status first: whoever wins this transition is the sole
	// restorer, so concurrent releases cannot double-restore.
	res.status = statusReleased
	lines := res.lines
	l.resMu.Unlock()

	l.mu.RLock()
	stocks := make([]*productStock, len(lines))
	for i, line := range lines {
		stocks[i] = l.products[line.ProductID]
	}
	l.mu.RUnlock()

	for i, line := range lines {
		stocks[i].mu.Lock()
		stocks[i].qty += line.Quantity
		stocks[i].mu.Unlock()
		if l.mirror != nil {
			l.mirror.AdjustStock(line.ProductID, line.Quantity)
		}
	}
	return nil
}
