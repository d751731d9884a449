// Package ledger owns per-product stock counters. All stock mutation in
// the system goes through the reserve/commit/release protocol; nothing
// else writes the counters.
package ledger

import (
	"errors"
	"fmt"
)

// Common errors returned by the ledger
var (
	ErrUnknownProduct      = errors.New("product not tracked by ledger")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNegativeStock       = errors.New("stock quantity must not be negative")
	ErrEmptyBatch          = errors.New("reservation batch is empty")
)

// InsufficientStockError identifies the first product in a batch that
// could not be satisfied. The whole batch is rejected when it is returned.
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}

// Line is one (product, quantity) pair of a reservation batch.
type Line struct {
	ProductID int64
	Quantity  int
}

// Ledger is the inventory reservation protocol.
//
// Reserve is all-or-nothing: either every line is pre-decremented from
// stock and a reservation ID is returned, or no stock changes at all.
// Commit finalizes the decrement already applied at reserve time and is
// a no-op on an already-committed ID. Release restores exactly the
// reserved quantities; it is idempotent and remains valid after Commit so
// that cancelling an order can return its stock.
type Ledger interface {
	Reserve(lines []Line) (string, error)
	Commit(reservationID string) error
	Release(reservationID string) error

	// Stock returns the current counter for a product and whether the
	// product is tracked.
	Stock(productID int64) (int, bool)

	// SetStock sets the counter for a product (used for initialization).
	SetStock(productID int64, quantity int) error
}

// StockWriter receives the ledger's stock adjustments so an external view
// (the catalog's displayed stock) stays in step with the counters. Only
// the ledger calls it.
type StockWriter interface {
	AdjustStock(productID int64, delta int)
}
