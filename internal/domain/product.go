package domain

// Product is catalog data as the order core sees it. The catalog
// collaborator owns the lifecycle; the core only reads price and category
// and adjusts stock through the inventory ledger.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Deactivated bool    `json:"deactivated,omitempty"`
}

// Active reports whether the product can be sold: in stock and not
// manually deactivated.
func (p *Product) Active() bool {
	return !p.Deactivated && p.Stock > 0
}
