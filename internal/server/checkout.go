package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/srivatsj/interview-agent-sub000/internal/payment"
)

// CheckoutRequest asks to purchase one practice session.
type CheckoutRequest struct {
	InterviewType string `json:"interview_type"`
}

// CheckoutResponse returns the charged cart and its receipt.
type CheckoutResponse struct {
	Cart    *payment.CartMandate `json:"cart"`
	Receipt *payment.Receipt     `json:"receipt"`
}

// CheckoutHandler serves POST /v1/checkout: get a cart mandate for the
// interview type and charge it in one step.
type CheckoutHandler struct {
	payments payment.Service
	logger   *slog.Logger
}

// NewCheckoutHandler creates the checkout endpoint handler.
func NewCheckoutHandler(payments payment.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{payments: payments, logger: logger}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.InterviewType == "" {
		http.Error(w, "interview_type is required", http.StatusBadRequest)
		return
	}

	cart, err := h.payments.GetCart(r.Context(), req.InterviewType)
	if err != nil {
		AddError(r.Context(), err)
		http.Error(w, "could not create cart", http.StatusBadGateway)
		return
	}

	receipt, err := h.payments.Charge(r.Context(), cart)
	if err != nil {
		AddError(r.Context(), err)
		http.Error(w, "charge failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CheckoutResponse{Cart: cart, Receipt: receipt}); err != nil {
		h.logger.Error("encode checkout response", slog.String("error", err.Error()))
	}
}
