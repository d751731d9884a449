package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_orders/internal/catalog"
	"github.com/fjod/go_orders/internal/ledger"
	"github.com/fjod/go_orders/internal/payment"
	"github.com/fjod/go_orders/internal/service"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError translates the core's typed errors to HTTP codes.
// Every error kind from the service surfaces here; nothing leaks as a
// bare 500 unless it is genuinely unexpected.
func respondServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	var invalidInput *service.InvalidInputError
	var insufficient *ledger.InsufficientStockError
	var transition *service.InvalidTransitionError

	switch {
	case errors.Is(err, service.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "cart_not_found", err.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.As(err, &invalidInput):
		respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.As(err, &insufficient):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.As(err, &transition):
		respondError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, service.ErrOrderNotCancellable):
		respondError(w, http.StatusConflict, "order_not_cancellable", err.Error())
	case errors.Is(err, service.ErrConcurrencyConflict):
		respondError(w, http.StatusConflict, "concurrency_conflict", err.Error())
	case errors.Is(err, payment.ErrDeclined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", err.Error())
	default:
		log.Error("unhandled service error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
