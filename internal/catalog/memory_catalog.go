package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/fjod/go_orders/internal/domain"
)

// MemoryCatalog is an in-memory catalog, the backing implementation used
// in tests and single-process deployments.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	order    []int64 // catalog listing order
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		products: make(map[int64]*domain.Product),
	}
}

// AddProduct registers a product. The product ID comes from the catalog
// side; the order core never assigns one. Negative prices are rejected.
func (c *MemoryCatalog) AddProduct(p domain.Product) error {
	if p.Price < 0 {
		return fmt.Errorf("product %d: price must not be negative", p.ID)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product %d: stock must not be negative", p.ID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.products[p.ID]; !exists {
		c.order = append(c.order, p.ID)
	}
	cp := p
	c.products[p.ID] = &cp
	return nil
}

func (c *MemoryCatalog) FindProduct(_ context.Context, productID int64) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (c *MemoryCatalog) ListProducts(_ context.Context) ([]*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*domain.Product, 0, len(c.order))
	for _, id := range c.order {
		cp := *c.products[id]
		result = append(result, &cp)
	}
	return result, nil
}

func (c *MemoryCatalog) AdjustStock(productID int64, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.products[productID]; ok {
		p.Stock += delta
	}
}

func (c *MemoryCatalog) ApplySeasonalDiscount(_ context.Context, productID int64, percent float64) error {
	if percent <= 0 || percent >= 100 {
		return fmt.Errorf("discount percent %v out of range (0, 100)", percent)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	p.Price = p.Price * (1 - percent/100)
	return nil
}
