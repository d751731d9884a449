package service

import "github.com/fjod/go_orders/internal/domain"

// TotalRevenue is the single revenue definition: the sum of TotalAmount
// over orders that are neither cancelled nor expired. There is no second
// "sales" metric with different inclusion rules.
func (s *OrderService) TotalRevenue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, order := range s.orders {
		switch order.Status {
		case domain.OrderStatusCancelled, domain.OrderStatusExpired:
			continue
		}
		total += order.TotalAmount
	}
	return total
}
