package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/go_orders/internal/domain"
	"github.com/fjod/go_orders/internal/events"
	"github.com/fjod/go_orders/internal/ledger"
	"go.uber.org/zap"
)

// CreateOrder turns a cart into an immutable PENDING order:
//
//	reserve stock -> price from snapshots -> authorize payment ->
//	materialize order -> commit reservation -> drop the cart
//
// Any failure after the reservation releases it before propagating, so no
// partial state (order without stock, stock without order) is ever
// observable. On failure the cart is left exactly as it was.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	userID *int64,
	cartID string,
	shippingAddress string,
	billingAddress *string,
) (*domain.Order, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, &InvalidInputError{Field: "shipping_address", Reason: "must not be empty"}
	}

	lines, reserveLines, err := s.claimCart(cartID)
	if err != nil {
		return nil, err
	}
	// From here the cart is claimed; every exit must either consume it or
	// hand it back.

	reservationID, err := s.ledger.Reserve(reserveLines)
	if err != nil {
		s.releaseCartClaim(cartID)
		return nil, err
	}

	var subtotal float64
	for _, line := range lines {
		subtotal += s.pricing.PriceLine(line.UnitPrice, line.Quantity)
	}
	discount := s.pricing.CartDiscount(subtotal)
	total := subtotal - discount

	authID, err := s.gateway.Authorize(ctx, total)
	if err != nil {
		if relErr := s.ledger.Release(reservationID); relErr != nil {
			s.log.Error("reservation release failed after payment refusal",
				zap.String("reservation_id", reservationID),
				zap.Error(relErr))
		}
		s.releaseCartClaim(cartID)
		return nil, fmt.Errorf("payment authorization: %w", err)
	}

	order := &domain.Order{
		ID:              s.orderSeq.Add(1),
		UserID:          userID,
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		Lines:           lines,
		Subtotal:        subtotal,
		Discount:        discount,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		ReservationID:   reservationID,
		PaymentAuthID:   authID,
		CreatedAt:       time.Now(),
	}

	if err := s.ledger.Commit(reservationID); err != nil {
		// Commit only fails on a ledger bookkeeping bug; unwind fully.
		if relErr := s.ledger.Release(reservationID); relErr != nil {
			s.log.Error("reservation release failed after commit failure",
				zap.String("reservation_id", reservationID),
				zap.Error(relErr))
		}
		if refErr := s.gateway.Refund(ctx, authID); refErr != nil {
			s.log.Error("refund failed after commit failure",
				zap.String("authorization_id", authID),
				zap.Error(refErr))
		}
		s.releaseCartClaim(cartID)
		return nil, fmt.Errorf("commit reservation: %w", err)
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	delete(s.carts, cartID)
	delete(s.checkingOut, cartID)
	s.mu.Unlock()

	s.log.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.String("cart_id", cartID),
		zap.Float64("total", order.TotalAmount))
	s.publish(events.Event{
		Type:        events.TypeOrderCreated,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  order.CreatedAt,
	})

	return order.Clone(), nil
}

// claimCart snapshots the cart's lines and marks it as being checked out,
// so two concurrent CreateOrder calls on the same cart cannot both
// reserve stock. The snapshot uses the cart's captured prices; the
// catalog is not re-read.
func (s *OrderService) claimCart(cartID string) ([]domain.OrderLine, []ledger.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return nil, nil, ErrCartNotFound
	}
	if cart.Empty() {
		return nil, nil, ErrEmptyCart
	}
	if s.checkingOut[cartID] {
		return nil, nil, ErrConcurrencyConflict
	}
	s.checkingOut[cartID] = true

	lines := make([]domain.OrderLine, len(cart.Lines))
	reserveLines := make([]ledger.Line, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = domain.OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
		reserveLines[i] = ledger.Line{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return lines, reserveLines, nil
}

func (s *OrderService) releaseCartClaim(cartID string) {
	s.mu.Lock()
	delete(s.checkingOut, cartID)
	s.mu.Unlock()
}
