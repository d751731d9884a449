// Package catalog is the product catalog collaborator as the order core
// consumes it. The core reads product data and adjusts displayed stock
// only through the inventory ledger.
package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_orders/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Catalog interface {
	// FindProduct returns the product or ErrProductNotFound.
	FindProduct(ctx context.Context, productID int64) (*domain.Product, error)

	// ListProducts returns all products in catalog order.
	ListProducts(ctx context.Context) ([]*domain.Product, error)

	// AdjustStock shifts the displayed stock figure. Called only by the
	// inventory ledger; it is a view update, not an authorization step.
	AdjustStock(productID int64, delta int)

	// ApplySeasonalDiscount permanently lowers the catalog price by the
	// given percent. A deliberate mutation invoked by an operator, never
	// a side effect of reading a product. Existing cart lines and orders
	// keep their snapshot prices.
	ApplySeasonalDiscount(ctx context.Context, productID int64, percent float64) error
}
