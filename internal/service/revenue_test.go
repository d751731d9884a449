package service

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_orders/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalRevenue_ExcludesCancelledAndExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	kept := placeOrder(t, env, 7, 1, 3)      // 142.50
	delivered := placeOrder(t, env, 7, 2, 1) // 9.99
	cancelled := placeOrder(t, env, 8, 2, 2) // 19.98, will be cancelled
	expired := placeOrder(t, env, 8, 2, 1)   // 9.99, will expire

	for _, to := range []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		_, err := env.svc.UpdateOrderStatus(ctx, delivered.ID, to)
		require.NoError(t, err)
	}

	_, err := env.svc.CancelOrder(ctx, cancelled.ID)
	require.NoError(t, err)

	env.svc.mu.Lock()
	env.svc.orders[expired.ID].CreatedAt = time.Now().Add(-48 * time.Hour)
	env.svc.mu.Unlock()
	require.Equal(t, 1, env.svc.ExpireStaleOrders(ctx, 24*time.Hour))

	// PENDING and DELIVERED count; CANCELLED and EXPIRED do not
	assert.InDelta(t, kept.TotalAmount+delivered.TotalAmount, env.svc.TotalRevenue(), 1e-9)
}

func TestTotalRevenue_EmptyService(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, 0.0, env.svc.TotalRevenue())
}
