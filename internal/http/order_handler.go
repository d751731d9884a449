package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fjod/go_orders/internal/domain"
	"github.com/fjod/go_orders/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc *service.OrderService
	log *zap.Logger
}

func NewOrderHandler(svc *service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

type CreateOrderRequestDTO struct {
	UserID          *int64  `json:"user_id,omitempty"`
	CartID          string  `json:"cart_id"`
	ShippingAddress string  `json:"shipping_address"`
	BillingAddress  *string `json:"billing_address,omitempty"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

type RevenueResponseDTO struct {
	TotalRevenue float64 `json:"total_revenue"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CartID == "" {
		respondError(w, http.StatusBadRequest, "invalid_cart_id", "cart_id is required")
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), req.UserID, req.CartID, req.ShippingAddress, req.BillingAddress)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a number")
		return
	}

	order, err := h.svc.GetOrder(orderID)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a number")
		return
	}
	respondJSON(w, http.StatusOK, h.svc.GetUserOrders(userID))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a number")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.svc.UpdateOrderStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a number")
		return
	}

	order, err := h.svc.CancelOrder(r.Context(), orderID)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) GetRevenue(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, RevenueResponseDTO{TotalRevenue: h.svc.TotalRevenue()})
}
