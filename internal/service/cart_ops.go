package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_orders/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartTotals is the one place a cart's money amounts are presented;
// every field comes from the pricing policy over snapshot prices.
type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// CreateCart opens an empty cart. userID is nil for anonymous sessions.
func (s *OrderService) CreateCart(userID *int64) *domain.Cart {
	now := time.Now()
	cart := &domain.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.carts[cart.ID] = cart
	s.mu.Unlock()

	s.log.Info("cart created", zap.String("cart_id", cart.ID))
	return cart.Clone()
}

// GetCart returns a snapshot of the cart.
func (s *OrderService) GetCart(cartID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return cart.Clone(), nil
}

// AddItem puts quantity units of a product into the cart, capturing the
// current catalog price as the line's snapshot. Adding a product already
// in the cart merges quantities into its existing line.
func (s *OrderService) AddItem(ctx context.Context, cartID string, productID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, &InvalidInputError{Field: "quantity", Reason: "must be positive"}
	}

	// Catalog lookup happens outside the collection lock.
	product, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Deactivated {
		return nil, &InvalidInputError{Field: "product", Reason: fmt.Sprintf("product %d is not for sale", productID)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	if s.cfg.MaxCartLines > 0 && cart.Line(productID) == nil && len(cart.Lines) >= s.cfg.MaxCartLines {
		return nil, &InvalidInputError{Field: "cart", Reason: fmt.Sprintf("cart is limited to %d distinct products", s.cfg.MaxCartLines)}
	}

	cart.MergeLine(productID, product.Name, product.Price, quantity, time.Now())

	s.log.Debug("item added",
		zap.String("cart_id", cartID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity))
	return cart.Clone(), nil
}

// UpdateQuantity replaces the quantity of an existing line, keeping its
// snapshot price. Use RemoveItem to drop a line; a non-positive quantity
// is rejected, never stored.
func (s *OrderService) UpdateQuantity(cartID string, productID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, &InvalidInputError{Field: "quantity", Reason: "must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	if !cart.SetQuantity(productID, quantity, time.Now()) {
		return nil, &InvalidInputError{Field: "product_id", Reason: fmt.Sprintf("product %d is not in the cart", productID)}
	}
	return cart.Clone(), nil
}

// RemoveItem deletes the line for the product.
func (s *OrderService) RemoveItem(cartID string, productID int64) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	if !cart.RemoveLine(productID, time.Now()) {
		return nil, &InvalidInputError{Field: "product_id", Reason: fmt.Sprintf("product %d is not in the cart", productID)}
	}
	return cart.Clone(), nil
}

// GetCartTotal recomputes the cart's totals from its current lines. There
// is no cached total anywhere; this is the same arithmetic order creation
// uses.
func (s *OrderService) GetCartTotal(cartID string) (CartTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[cartID]
	if !ok {
		return CartTotals{}, ErrCartNotFound
	}
	return s.totalsFor(cart), nil
}

func (s *OrderService) totalsFor(cart *domain.Cart) CartTotals {
	var subtotal float64
	for _, line := range cart.Lines {
		subtotal += s.pricing.PriceLine(line.UnitPrice, line.Quantity)
	}
	discount := s.pricing.CartDiscount(subtotal)
	return CartTotals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}
}

// MarkIdleCarts removes carts untouched since the cutoff and reports how
// many were dropped. Called by an external scheduler; the core itself
// never expires carts.
func (s *OrderService) MarkIdleCarts(idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, cart := range s.carts {
		if s.checkingOut[id] {
			continue
		}
		if cart.UpdatedAt.Before(cutoff) {
			delete(s.carts, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Info("idle carts removed", zap.Int("count", removed))
	}
	return removed
}
