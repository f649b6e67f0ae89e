package http

import (
	"errors"
	"log"
	"net/http"

	"lompakko/internal/domain/payment"
	"lompakko/internal/shared/messages"
	"lompakko/internal/shared/middleware"
)

// PaymentHandler handles subscription payment endpoints
type PaymentHandler struct {
	payments *payment.Service
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type CheckoutRequest struct {
	OriginURL string `json:"origin_url"`
}

type WebhookRequest struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
}

// HandleCheckout opens a hosted checkout session for the subscription
func (h *PaymentHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	var req CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	origin := req.OriginURL
	if origin == "" {
		origin = r.Header.Get("Origin")
	}
	if origin == "" {
		writeError(w, http.StatusBadRequest, "origin_url vaaditaan")
		return
	}

	session, err := h.payments.Checkout(r.Context(), userID, origin)
	if err != nil {
		log.Printf("Error creating checkout for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, messages.CheckoutFailed)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// HandleStatus reports and settles a checkout session's payment state
func (h *PaymentHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	sessionID := r.PathValue("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, messages.PaymentStatusFailed)
		return
	}

	result, err := h.payments.Status(r.Context(), sessionID, userID)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.PaymentStatusFailed)
			return
		}
		log.Printf("Error checking payment status for session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, messages.PaymentStatusFailed)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleWebhook settles sessions from provider notifications. Not behind
// auth; the provider is not a logged-in user.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req WebhookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" || req.PaymentStatus == "" {
		writeError(w, http.StatusBadRequest, "session_id ja payment_status vaaditaan")
		return
	}

	if err := h.payments.HandleWebhook(r.Context(), req.SessionID, req.PaymentStatus); err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.PaymentStatusFailed)
			return
		}
		log.Printf("Error handling payment webhook for session %s: %v", req.SessionID, err)
		writeError(w, http.StatusInternalServerError, messages.PaymentStatusFailed)
		return
	}

	writeMessage(w, http.StatusOK, "ok")
}
