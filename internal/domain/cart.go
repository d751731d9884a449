package domain

import "time"

// CartLine references a product by ID and carries the unit price captured
// when the line was added. The snapshot is never refreshed from the
// catalog, so later price changes do not affect an open cart.
type CartLine struct {
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	AddedAt     time.Time `json:"added_at"`
}

// Subtotal is always derived, never cached.
func (l *CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart holds at most one line per product, in insertion order.
// UserID is nil for anonymous sessions.
type Cart struct {
	ID        string      `json:"id"`
	UserID    *int64      `json:"user_id,omitempty"`
	Lines     []*CartLine `json:"lines"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Line returns the line for productID, or nil if the product is not in
// the cart.
func (c *Cart) Line(productID int64) *CartLine {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l
		}
	}
	return nil
}

// MergeLine adds quantity to the existing line for the product, or appends
// a new line with the given snapshot price. Merging keeps the original
// snapshot price and position.
func (c *Cart) MergeLine(productID int64, name string, unitPrice float64, quantity int, now time.Time) {
	if l := c.Line(productID); l != nil {
		l.Quantity += quantity
		c.UpdatedAt = now
		return
	}
	c.Lines = append(c.Lines, &CartLine{
		ProductID:   productID,
		ProductName: name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		AddedAt:     now,
	})
	c.UpdatedAt = now
}

// SetQuantity replaces the quantity of an existing line. It reports
// whether the line was found. The snapshot price is left untouched.
func (c *Cart) SetQuantity(productID int64, quantity int, now time.Time) bool {
	l := c.Line(productID)
	if l == nil {
		return false
	}
	l.Quantity = quantity
	c.UpdatedAt = now
	return true
}

// RemoveLine deletes the line for productID and reports whether it existed.
func (c *Cart) RemoveLine(productID int64, now time.Time) bool {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = now
			return true
		}
	}
	return false
}

// Subtotal sums line subtotals from snapshot prices.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Clone returns a deep copy so callers cannot mutate the live cart.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Lines = make([]*CartLine, len(c.Lines))
	for i, l := range c.Lines {
		line := *l
		cp.Lines[i] = &line
	}
	return &cp
}
