package domain

import "time"

// OrderLine is a frozen copy of a cart line at order time.
type OrderLine struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Order is an immutable snapshot produced from a cart. Every field except
// Status is fixed at creation; TotalAmount is the single source of truth
// for money owed and is never recomputed elsewhere.
type Order struct {
	ID              int64       `json:"id"`
	UserID          *int64      `json:"user_id,omitempty"`
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  *string     `json:"billing_address,omitempty"`
	Lines           []OrderLine `json:"lines"`
	Subtotal        float64     `json:"subtotal"`
	Discount        float64     `json:"discount"`
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	ReservationID   string      `json:"-"`
	PaymentAuthID   string      `json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Clone returns a copy so callers cannot mutate the stored order.
func (o *Order) Clone() *Order {
	cp := *o
	cp.Lines = make([]OrderLine, len(o.Lines))
	copy(cp.Lines, o.Lines)
	return &cp
}
