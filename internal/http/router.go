package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the API surface. Handlers must be non-nil.
func NewRouter(carts *CartHandler, orders *OrderHandler, products *ProductHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/carts", func(r chi.Router) {
			r.Post("/", carts.CreateCart)
			r.Route("/{cartID}", func(r chi.Router) {
				r.Get("/", carts.GetCart)
				r.Get("/total", carts.GetCartTotal)
				r.Post("/items", carts.AddItem)
				r.Put("/items/{productID}", carts.UpdateQuantity)
				r.Delete("/items/{productID}", carts.RemoveItem)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.CreateOrder)
			r.Get("/revenue", orders.GetRevenue)
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", orders.GetOrder)
				r.Put("/status", orders.UpdateStatus)
				r.Post("/cancel", orders.CancelOrder)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.ListProducts)
			r.Get("/{productID}", products.GetProduct)
		})

		r.Get("/users/{userID}/orders", orders.GetUserOrders)
	})

	return r
}
