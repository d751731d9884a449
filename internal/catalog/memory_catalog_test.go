package catalog

import (
	"context"
	"testing"

	"github.com/fjod/go_orders/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCatalog_AddAndFind(t *testing.T) {
	c := NewMemoryCatalog()
	ctx := context.Background()

	require.NoError(t, c.AddProduct(domain.Product{ID: 1, Name: "Laptop", Price: 999.99, Category: "Electronics", Stock: 10}))

	p, err := c.FindProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)
	assert.True(t, p.Active())

	_, err = c.FindProduct(ctx, 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryCatalog_RejectsNegativePrice(t *testing.T) {
	c := NewMemoryCatalog()

	err := c.AddProduct(domain.Product{ID: 1, Name: "Broken", Price: -1})
	assert.Error(t, err)
}

func TestMemoryCatalog_ListKeepsOrder(t *testing.T) {
	c := NewMemoryCatalog()
	ctx := context.Background()

	require.NoError(t, c.AddProduct(domain.Product{ID: 3, Name: "C", Price: 1}))
	require.NoError(t, c.AddProduct(domain.Product{ID: 1, Name: "A", Price: 1}))
	require.NoError(t, c.AddProduct(domain.Product{ID: 2, Name: "B", Price: 1}))

	products, err := c.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, int64(3), products[0].ID)
	assert.Equal(t, int64(1), products[1].ID)
	assert.Equal(t, int64(2), products[2].ID)
}

func TestMemoryCatalog_FindReturnsCopy(t *testing.T) {
	c := NewMemoryCatalog()
	ctx := context.Background()
	require.NoError(t, c.AddProduct(domain.Product{ID: 1, Name: "Laptop", Price: 100, Stock: 5}))

	p, err := c.FindProduct(ctx, 1)
	require.NoError(t, err)
	p.Price = 1 // must not leak into the catalog

	again, err := c.FindProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, again.Price)
}

func TestMemoryCatalog_AdjustStock(t *testing.T) {
	c := NewMemoryCatalog()
	ctx := context.Background()
	require.NoError(t, c.AddProduct(domain.Product{ID: 1, Name: "Laptop", Price: 100, Stock: 5}))

	c.AdjustStock(1, -5)

	p, err := c.FindProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
	assert.False(t, p.Active())
}

func TestMemoryCatalog_ApplySeasonalDiscount(t *testing.T) {
	c := NewMemoryCatalog()
	ctx := context.Background()
	require.NoError(t, c.AddProduct(domain.Product{ID: 1, Name: "Laptop", Price: 100, Stock: 5}))

	require.NoError(t, c.ApplySeasonalDiscount(ctx, 1, 20))

	p, err := c.FindProduct(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, p.Price, 1e-9)

	assert.Error(t, c.ApplySeasonalDiscount(ctx, 1, 0))
	assert.Error(t, c.ApplySeasonalDiscount(ctx, 1, 100))
	assert.ErrorIs(t, c.ApplySeasonalDiscount(ctx, 42, 10), ErrProductNotFound)
}
