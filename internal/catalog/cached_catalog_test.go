package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/go_orders/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupCachedCatalog wires a CachedCatalog over miniredis and a seeded
// memory catalog.
func setupCachedCatalog(t *testing.T) (*CachedCatalog, *MemoryCatalog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	source := NewMemoryCatalog()
	require.NoError(t, source.AddProduct(domain.Product{ID: 1, Name: "Laptop", Price: 999.99, Category: "Electronics", Stock: 10}))

	return NewCachedCatalog(source, client, zap.NewNop()), source, mr
}

func TestCachedCatalog_ServesFromCache(t *testing.T) {
	cached, _, mr := setupCachedCatalog(t)
	ctx := context.Background()

	stale := domain.Product{ID: 1, Name: "Cached Laptop", Price: 500, Stock: 1}
	data, _ := json.Marshal(&stale)
	require.NoError(t, mr.Set(cacheKey(1), string(data)))

	p, err := cached.FindProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cached Laptop", p.Name)
	assert.Equal(t, 500.0, p.Price)
}

func TestCachedCatalog_MissFallsThroughAndFills(t *testing.T) {
	cached, _, mr := setupCachedCatalog(t)
	ctx := context.Background()

	p, err := cached.FindProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)

	// The fill happens off the request path
	assert.Eventually(t, func() bool {
		return mr.Exists(cacheKey(1))
	}, time.Second, 10*time.Millisecond)
}

func TestCachedCatalog_NotFoundPropagates(t *testing.T) {
	cached, _, _ := setupCachedCatalog(t)

	_, err := cached.FindProduct(context.Background(), 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCachedCatalog_AdjustStockInvalidates(t *testing.T) {
	cached, source, mr := setupCachedCatalog(t)

	stale := domain.Product{ID: 1, Name: "Laptop", Price: 999.99, Stock: 10}
	data, _ := json.Marshal(&stale)
	require.NoError(t, mr.Set(cacheKey(1), string(data)))

	cached.AdjustStock(1, -3)

	assert.False(t, mr.Exists(cacheKey(1)))
	p, err := source.FindProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
}

func TestCachedCatalog_SeasonalDiscountInvalidates(t *testing.T) {
	cached, source, mr := setupCachedCatalog(t)
	ctx := context.Background()

	data, _ := json.Marshal(&domain.Product{ID: 1, Name: "Laptop", Price: 999.99})
	require.NoError(t, mr.Set(cacheKey(1), string(data)))

	require.NoError(t, cached.ApplySeasonalDiscount(ctx, 1, 10))

	assert.False(t, mr.Exists(cacheKey(1)))
	p, err := source.FindProduct(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 899.991, p.Price, 1e-6)
}

func TestCachedCatalog_CacheDownStillServes(t *testing.T) {
	cached, _, mr := setupCachedCatalog(t)
	mr.Close() // redis unavailable, the source must still answer

	p, err := cached.FindProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)
}
