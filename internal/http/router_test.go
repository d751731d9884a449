package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_orders/internal/catalog"
	"github.com/fjod/go_orders/internal/domain"
	"github.com/fjod/go_orders/internal/events"
	"github.com/fjod/go_orders/internal/ledger"
	"github.com/fjod/go_orders/internal/payment"
	"github.com/fjod/go_orders/internal/pricing"
	"github.com/fjod/go_orders/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) chi.Router {
	t.Helper()

	log := zap.NewNop()
	cat := catalog.NewMemoryCatalog()
	led := ledger.NewMemoryLedger(log, cat)
	gw := payment.NewInProcessGateway()

	seed := []domain.Product{
		{ID: 1, Name: "Laptop", Price: 50.00, Category: "electronics", Stock: 100},
		{ID: 2, Name: "Mouse", Price: 9.99, Category: "electronics", Stock: 500},
	}
	for _, p := range seed {
		require.NoError(t, cat.AddProduct(p))
		require.NoError(t, led.SetStock(p.ID, p.Stock))
	}

	svc := service.New(cat, led, gw, pricing.Default(), events.NopPublisher{}, service.Config{MaxCartLines: 10}, log)

	return NewRouter(
		NewCartHandler(svc, log),
		NewOrderHandler(svc, log),
		NewProductHandler(cat, log),
		5*time.Second,
	)
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func createCartWithItems(t *testing.T, r chi.Router) string {
	t.Helper()

	rec := doJSON(t, r, "POST", "/api/v1/carts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	cart := decode[domain.Cart](t, rec)
	require.NotEmpty(t, cart.ID)

	rec = doJSON(t, r, "POST", "/api/v1/carts/"+cart.ID+"/items", AddItemRequestDTO{ProductID: 1, Quantity: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	return cart.ID
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(t)

	rec := doJSON(t, r, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartEndpoints_Flow(t *testing.T) {
	r := setupRouter(t)
	cartID := createCartWithItems(t, r)

	rec := doJSON(t, r, "GET", "/api/v1/carts/"+cartID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[domain.Cart](t, rec)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(1), cart.Lines[0].ProductID)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	rec = doJSON(t, r, "PUT", "/api/v1/carts/"+cartID+"/items/1", UpdateQuantityRequestDTO{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, "GET", "/api/v1/carts/"+cartID+"/total", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decode[service.CartTotals](t, rec)
	assert.InDelta(t, 250.00, totals.Subtotal, 0.001)
	assert.InDelta(t, 12.50, totals.Discount, 0.001)
	assert.InDelta(t, 237.50, totals.Total, 0.001)

	rec = doJSON(t, r, "DELETE", "/api/v1/carts/"+cartID+"/items/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[domain.Cart](t, rec)
	assert.Empty(t, cart.Lines)
}

func TestCartEndpoints_Validation(t *testing.T) {
	r := setupRouter(t)

	rec := doJSON(t, r, "GET", "/api/v1/carts/no-such-cart", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	cartID := createCartWithItems(t, r)

	rec = doJSON(t, r, "POST", "/api/v1/carts/"+cartID+"/items", AddItemRequestDTO{ProductID: 1, Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, "POST", "/api/v1/carts/"+cartID+"/items", AddItemRequestDTO{ProductID: 999, Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderEndpoints_Flow(t *testing.T) {
	r := setupRouter(t)
	cartID := createCartWithItems(t, r)

	rec := doJSON(t, r, "POST", "/api/v1/orders", CreateOrderRequestDTO{
		CartID:          cartID,
		ShippingAddress: "1 Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decode[domain.Order](t, rec)
	require.NotZero(t, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.InDelta(t, 150.00, order.TotalAmount, 0.001)

	path := fmt.Sprintf("/api/v1/orders/%d", order.ID)

	rec = doJSON(t, r, "GET", path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, "PUT", path+"/status", UpdateStatusRequestDTO{Status: "CONFIRMED"})
	require.Equal(t, http.StatusOK, rec.Code)
	order = decode[domain.Order](t, rec)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)

	rec = doJSON(t, r, "PUT", path+"/status", UpdateStatusRequestDTO{Status: "DELIVERED"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, r, "POST", path+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order = decode[domain.Order](t, rec)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)

	rec = doJSON(t, r, "GET", "/api/v1/orders/revenue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	revenue := decode[RevenueResponseDTO](t, rec)
	assert.Zero(t, revenue.TotalRevenue)
}

func TestOrderEndpoints_Errors(t *testing.T) {
	r := setupRouter(t)

	rec := doJSON(t, r, "POST", "/api/v1/orders", CreateOrderRequestDTO{
		CartID:          "no-such-cart",
		ShippingAddress: "1 Main St",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, "GET", "/api/v1/orders/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, "GET", "/api/v1/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserOrdersEndpoint(t *testing.T) {
	r := setupRouter(t)

	userID := int64(7)
	rec := doJSON(t, r, "POST", "/api/v1/carts", CreateCartRequestDTO{UserID: &userID})
	require.Equal(t, http.StatusCreated, rec.Code)
	cart := decode[domain.Cart](t, rec)

	rec = doJSON(t, r, "POST", "/api/v1/carts/"+cart.ID+"/items", AddItemRequestDTO{ProductID: 2, Quantity: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, "POST", "/api/v1/orders", CreateOrderRequestDTO{
		UserID:          &userID,
		CartID:          cart.ID,
		ShippingAddress: "1 Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, "GET", "/api/v1/users/7/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]domain.Order](t, rec)
	require.Len(t, orders, 1)
	assert.InDelta(t, 9.99, orders[0].TotalAmount, 0.001)
}

func TestProductEndpoints(t *testing.T) {
	r := setupRouter(t)

	rec := doJSON(t, r, "GET", "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]domain.Product](t, rec)
	assert.Len(t, products, 2)

	rec = doJSON(t, r, "GET", "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	product := decode[domain.Product](t, rec)
	assert.Equal(t, "Laptop", product.Name)

	rec = doJSON(t, r, "GET", "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
