package service

import (
	"context"
	"sort"
	"time"

	"github.com/fjod/go_orders/internal/domain"
	"github.com/fjod/go_orders/internal/events"
	"go.uber.org/zap"
)

// GetOrder returns a snapshot of the order. Reading never mutates status.
func (s *OrderService) GetOrder(orderID int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order.Clone(), nil
}

// GetUserOrders returns the user's orders sorted by creation time.
func (s *OrderService) GetUserOrders(userID int64) []*domain.Order {
	s.mu.RLock()
	var result []*domain.Order
	for _, order := range s.orders {
		if order.UserID != nil && *order.UserID == userID {
			result = append(result, order.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// UpdateOrderStatus moves an order along the state machine. Cancellation
// goes through CancelOrder because it has inventory and payment side
// effects; EXPIRED is only entered by the expiry sweep.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, to domain.OrderStatus) (*domain.Order, error) {
	if !to.Known() {
		return nil, &InvalidInputError{Field: "status", Reason: "unknown status " + string(to)}
	}
	if to == domain.OrderStatusCancelled {
		return s.CancelOrder(ctx, orderID)
	}
	if to == domain.OrderStatusExpired {
		return nil, &InvalidInputError{Field: "status", Reason: "EXPIRED is set by the expiry sweep"}
	}

	s.mu.Lock()
	order, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrOrderNotFound
	}
	from := order.Status
	if !domain.CanTransitionTo(from, to) {
		s.mu.Unlock()
		return nil, &InvalidTransitionError{From: from, To: to}
	}
	order.Status = to
	snapshot := order.Clone()
	s.mu.Unlock()

	s.log.Info("order status changed",
		zap.Int64("order_id", orderID),
		zap.String("from", from.String()),
		zap.String("to", to.String()))
	s.publish(events.Event{
		Type:        events.TypeOrderStatusChanged,
		OrderID:     orderID,
		UserID:      snapshot.UserID,
		Status:      to,
		TotalAmount: snapshot.TotalAmount,
		OccurredAt:  time.Now(),
	})
	return snapshot, nil
}

// CancelOrder cancels a PENDING or CONFIRMED order, returns its stock to
// the ledger and requests a refund. Orders already shipped, delivered or
// in a terminal state are refused with ErrOrderNotCancellable.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	s.mu.Lock()
	order, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrOrderNotFound
	}
	if !domain.CanTransitionTo(order.Status, domain.OrderStatusCancelled) {
		s.mu.Unlock()
		return nil, ErrOrderNotCancellable
	}
	// Flipping the status under the lock makes this caller the sole
	// winner; the side effects below are idempotent anyway.
	order.Status = domain.OrderStatusCancelled
	reservationID := order.ReservationID
	authID := order.PaymentAuthID
	snapshot := order.Clone()
	s.mu.Unlock()

	if err := s.ledger.Release(reservationID); err != nil {
		s.log.Error("stock release failed on cancellation",
			zap.Int64("order_id", orderID),
			zap.String("reservation_id", reservationID),
			zap.Error(err))
	}
	if err := s.gateway.Refund(ctx, authID); err != nil {
		// The refund request was made; reconciliation with the payment
		// collaborator handles stragglers.
		s.log.Error("refund request failed on cancellation",
			zap.Int64("order_id", orderID),
			zap.String("authorization_id", authID),
			zap.Error(err))
	}

	s.log.Info("order cancelled", zap.Int64("order_id", orderID))
	s.publish(events.Event{
		Type:        events.TypeOrderCancelled,
		OrderID:     orderID,
		UserID:      snapshot.UserID,
		Status:      domain.OrderStatusCancelled,
		TotalAmount: snapshot.TotalAmount,
		OccurredAt:  time.Now(),
	})
	return snapshot, nil
}

// ExpireStaleOrders moves PENDING orders older than maxAge to EXPIRED,
// releasing their stock and refunding their authorizations. This is the
// only path into EXPIRED; it is called deliberately by a scheduler, never
// as a side effect of reading an order. Returns the number expired.
func (s *OrderService) ExpireStaleOrders(ctx context.Context, maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	type expired struct {
		orderID       int64
		userID        *int64
		reservationID string
		authID        string
		total         float64
	}
	var batch []expired

	s.mu.Lock()
	for _, order := range s.orders {
		if order.Status != domain.OrderStatusPending || !order.CreatedAt.Before(cutoff) {
			continue
		}
		order.Status = domain.OrderStatusExpired
		batch = append(batch, expired{
			orderID:       order.ID,
			userID:        order.UserID,
			reservationID: order.ReservationID,
			authID:        order.PaymentAuthID,
			total:         order.TotalAmount,
		})
	}
	s.mu.Unlock()

	for _, e := range batch {
		if err := s.ledger.Release(e.reservationID); err != nil {
			s.log.Error("stock release failed on expiry",
				zap.Int64("order_id", e.orderID),
				zap.Error(err))
		}
		if err := s.gateway.Refund(ctx, e.authID); err != nil {
			s.log.Error("refund request failed on expiry",
				zap.Int64("order_id", e.orderID),
				zap.Error(err))
		}
		s.publish(events.Event{
			Type:        events.TypeOrderExpired,
			OrderID:     e.orderID,
			UserID:      e.userID,
			Status:      domain.OrderStatusExpired,
			TotalAmount: e.total,
			OccurredAt:  time.Now(),
		})
	}

	if len(batch) > 0 {
		s.log.Info("stale orders expired", zap.Int("count", len(batch)))
	}
	return len(batch)
}
