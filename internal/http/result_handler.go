package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/photoframix/storefront/internal/domain"
	"github.com/photoframix/storefront/internal/outcome"
)

type CartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

// ResultHandler renders the human-facing payment summary from whatever
// fields arrived: query parameters first, overlaid on the session's stashed
// outcome payload. It must always render, even with zero payment details.
type ResultHandler struct {
	stash       outcome.Stash
	carts       CartClearer
	settleDelay time.Duration
	logger      zerolog.Logger
}

func NewResultHandler(stash outcome.Stash, carts CartClearer, settleDelay time.Duration, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		stash:       stash,
		carts:       carts,
		settleDelay: settleDelay,
		logger:      logger,
	}
}

// Success handles GET /success.
func (h *ResultHandler) Success(w http.ResponseWriter, r *http.Request) {
	fields := h.collectFields(r, domain.OutcomeSuccess)

	// The order went through; the cart's job is done.
	sessionID := getSessionID(r.Context())
	if sessionID != "" {
		if err := h.carts.Clear(r.Context(), sessionID); err != nil {
			h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear cart after checkout")
		}
	}

	view := resultView{
		Title:    "Payment successful",
		Heading:  "Thank you! Your payment was received.",
		TxnID:    fields[domain.FieldTxnID],
		Amount:   fields[domain.FieldAmount],
		Mode:     fields[domain.FieldMode],
		MihpayID: fields[domain.FieldMihpayID],
	}
	view.HasDetails = view.TxnID != "" || view.Amount != ""

	h.render(w, view)
}

// Failure handles GET /failure.
func (h *ResultHandler) Failure(w http.ResponseWriter, r *http.Request) {
	fields := h.collectFields(r, domain.OutcomeFailure)

	message := fields[domain.FieldErrorMessage]
	if message == "" {
		message = fields[domain.FieldError]
	}

	view := resultView{
		Title:   "Payment failed",
		Heading: "Sorry, your payment did not go through.",
		TxnID:   fields[domain.FieldTxnID],
		Amount:  fields[domain.FieldAmount],
		Message: message,
	}
	view.HasDetails = view.TxnID != "" || view.Message != ""

	h.render(w, view)
}

// collectFields merges the request's query parameters over the stashed
// payload; query values win. The stash read happens after a short settle
// delay so a late write from the callback path can land first.
func (h *ResultHandler) collectFields(r *http.Request, kind domain.OutcomeKind) map[string]string {
	h.settle(r.Context())

	merged := map[string]string{}

	sessionID := getSessionID(r.Context())
	if sessionID != "" {
		stashed, err := h.stash.Take(r.Context(), kind, sessionID)
		if err != nil {
			h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("outcome stash read failed")
		}
		for key, value := range stashed {
			merged[key] = value
		}
	}

	for key := range r.URL.Query() {
		merged[key] = r.URL.Query().Get(key)
	}

	return merged
}

func (h *ResultHandler) settle(ctx context.Context) {
	if h.settleDelay <= 0 {
		return
	}
	select {
	case <-time.After(h.settleDelay):
	case <-ctx.Done():
	}
}

func (h *ResultHandler) render(w http.ResponseWriter, view resultView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resultTemplate.Execute(w, view); err != nil {
		h.logger.Error().Err(err).Msg("failed to render result page")
	}
}
