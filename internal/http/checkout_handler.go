package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/photoframix/storefront/internal/checkout"
)

type CheckoutInitiator interface {
	InitiateCheckout(ctx context.Context, sessionID string, buyer checkout.Buyer) (*checkout.Handoff, error)
}

type CheckoutHandler struct {
	initiator CheckoutInitiator
	logger    zerolog.Logger
}

func NewCheckoutHandler(initiator CheckoutInitiator, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		initiator: initiator,
		logger:    logger,
	}
}

type CheckoutRequestDTO struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// InitiateCheckout hands the session's cart to the gateway. An empty cart
// redirects back to the cart view before any gateway work happens.
//
// POST /api/v1/checkout
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "missing_email", "email is required")
		return
	}

	handoff, err := h.initiator.InitiateCheckout(r.Context(), sessionID, checkout.Buyer{
		FirstName: req.FirstName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
			return
		}
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("checkout initiation failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to initiate checkout")
		return
	}

	// The browser completes the handoff by auto-submitting the signed form
	// to the hosted payment page.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := redirectFormTemplate.Execute(w, map[string]interface{}{
		"Action": handoff.PaymentURL,
		"Fields": handoff.Fields,
	}); err != nil {
		h.logger.Error().Err(err).Msg("failed to render payment redirect form")
	}
}
