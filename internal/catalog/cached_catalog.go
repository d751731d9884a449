package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_orders/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedCatalog puts a redis read-through cache in front of another
// catalog. Cache staleness cannot affect money amounts: cart lines and
// orders carry snapshot prices, so the cache only ever serves display
// reads and add-to-cart lookups. Mutations invalidate the cached entry.
type CachedCatalog struct {
	next    Catalog
	client  *redis.Client
	sfg     singleflight.Group // Prevents cache stampede
	baseTTL time.Duration
	log     *zap.Logger
}

func NewCachedCatalog(next Catalog, client *redis.Client, log *zap.Logger) *CachedCatalog {
	return &CachedCatalog{
		next:    next,
		client:  client,
		baseTTL: 15 * time.Minute,
		log:     log,
	}
}

func (c *CachedCatalog) FindProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	key := cacheKey(productID)

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		data, errGet := c.client.Get(ctx, key).Bytes()
		if errGet == nil {
			var p domain.Product
			if errUnmarshal := json.Unmarshal(data, &p); errUnmarshal == nil {
				return &p, nil
			}
			// Corrupt entry, fall through to the source
		} else if !errors.Is(errGet, redis.Nil) {
			c.log.Warn("catalog cache get failed", zap.Error(errGet))
		}

		p, errFind := c.next.FindProduct(ctx, productID)
		if errFind != nil {
			return nil, errFind
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := c.set(setCtx, key, p); errSet != nil {
				c.log.Warn("catalog cache set failed", zap.Error(errSet))
			}
		}()

		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (c *CachedCatalog) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	// Listings go straight to the source; only point lookups are cached.
	return c.next.ListProducts(ctx)
}

func (c *CachedCatalog) AdjustStock(productID int64, delta int) {
	c.next.AdjustStock(productID, delta)
	c.invalidate(productID)
}

func (c *CachedCatalog) ApplySeasonalDiscount(ctx context.Context, productID int64, percent float64) error {
	if err := c.next.ApplySeasonalDiscount(ctx, productID, percent); err != nil {
		return err
	}
	c.invalidate(productID)
	return nil
}

func (c *CachedCatalog) set(ctx context.Context, key string, p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	return c.client.Set(ctx, key, data, c.baseTTL+jitter).Err()
}

func (c *CachedCatalog) invalidate(productID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.client.Del(ctx, cacheKey(productID)).Err(); err != nil {
		c.log.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}

func cacheKey(productID int64) string {
	return fmt.Sprintf("product:%d", productID)
}
