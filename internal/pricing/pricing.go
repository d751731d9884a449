// Package pricing is the single place money amounts are computed. Every
// component that shows a total goes through the same Policy, so a cart
// total and the order built from it can never disagree.
package pricing

// Policy prices cart lines and computes the cart-level discount. It has
// no state and is safe for concurrent use.
type Policy struct {
	// DiscountThreshold is the subtotal above which the discount applies.
	DiscountThreshold float64
	// DiscountRate is the fraction taken off the subtotal, e.g. 0.05.
	DiscountRate float64
}

// Default returns the standard policy: 5% off subtotals over 100.
func Default() Policy {
	return Policy{DiscountThreshold: 100, DiscountRate: 0.05}
}

// PriceLine prices one line from its snapshot unit price. It never
// re-reads the catalog.
func (Policy) PriceLine(unitPrice float64, quantity int) float64 {
	return unitPrice * float64(quantity)
}

// CartDiscount returns the discount for the given subtotal, zero if the
// subtotal does not reach the threshold.
func (p Policy) CartDiscount(subtotal float64) float64 {
	if subtotal > p.DiscountThreshold {
		return subtotal * p.DiscountRate
	}
	return 0
}

// Total applies the discount once: subtotal minus CartDiscount.
func (p Policy) Total(subtotal float64) float64 {
	return subtotal - p.CartDiscount(subtotal)
}
