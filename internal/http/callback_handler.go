package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/photoframix/storefront/internal/domain"
	"github.com/photoframix/storefront/internal/orders"
	"github.com/photoframix/storefront/internal/outcome"
	"github.com/photoframix/storefront/internal/payu"
)

// StatusVerifier confirms a transaction's state server-to-server, independent
// of what the browser-relayed callback claimed.
type StatusVerifier interface {
	Verify(ctx context.Context, txnID string) (*payu.VerifyResult, error)
}

// CallbackHandler receives the gateway's redirect for each outcome and relays
// it to the human-facing result page. It is deliberately a transparent relay:
// fields pass through verbatim, and every failure path still lands the user
// on a result page.
type CallbackHandler struct {
	orderRepo orders.OrderRepository
	stash     outcome.Stash
	verifier  StatusVerifier // nil disables server-to-server confirmation
	salt      string
	verify    bool
	logger    zerolog.Logger
}

func NewCallbackHandler(orderRepo orders.OrderRepository, stash outcome.Stash, verifier StatusVerifier, salt string, verify bool, logger zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{
		orderRepo: orderRepo,
		stash:     stash,
		verifier:  verifier,
		salt:      salt,
		verify:    verify,
		logger:    logger,
	}
}

// Success handles POST|GET /payment/success.
func (h *CallbackHandler) Success(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.OutcomeSuccess)
}

// Failure handles POST|GET /payment/failure.
func (h *CallbackHandler) Failure(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.OutcomeFailure)
}

func (h *CallbackHandler) handle(w http.ResponseWriter, r *http.Request, kind domain.OutcomeKind) {
	resultPath := resultPathFor(kind)

	// Users who bookmark or directly hit the callback URL get the bare
	// result page.
	if r.Method == http.MethodGet {
		http.Redirect(w, r, resultPath, http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Warn().Err(err).Str("kind", kind.String()).Msg("unparseable gateway callback")
		h.relay(w, r, domain.UnparseableOutcome(), resultPath)
		return
	}

	fields := flatten(r.PostForm)
	if len(fields) == 0 {
		http.Redirect(w, r, resultPath, http.StatusFound)
		return
	}

	if h.verify && !payu.VerifyResponseHash(fields, h.salt) {
		h.logger.Warn().
			Str("kind", kind.String()).
			Str("txnid", fields[domain.FieldTxnID]).
			Msg("callback hash verification failed")
		http.Redirect(w, r, resultPath+"?error=verification_failed", http.StatusFound)
		return
	}

	var out domain.PaymentOutcome
	switch kind {
	case domain.OutcomeSuccess:
		out = domain.SuccessOutcome(fields)
	case domain.OutcomeFailure:
		out = domain.FailureOutcome(fields)
	default:
		out = domain.UnparseableOutcome()
	}

	if sessionID := getSessionID(r.Context()); sessionID != "" {
		if err := h.stash.Put(r.Context(), kind, sessionID, fields); err != nil {
			h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("outcome stash write failed")
		}
	}

	go h.reconcile(out)

	h.relay(w, r, out, resultPath)
}

// relay redirects to the result route, exhaustive over the outcome variant.
func (h *CallbackHandler) relay(w http.ResponseWriter, r *http.Request, out domain.PaymentOutcome, resultPath string) {
	switch out.Kind {
	case domain.OutcomeSuccess, domain.OutcomeFailure:
		query := url.Values{}
		for key, value := range out.Fields {
			query.Set(key, value)
		}
		http.Redirect(w, r, resultPath+"?"+query.Encode(), http.StatusFound)
	case domain.OutcomeUnparseable:
		http.Redirect(w, r, resultPath+"?error=processing_error", http.StatusFound)
	}
}

// reconcile transitions the pending order matching the callback's txnid.
// Best-effort: a reconciliation failure never disturbs the user-facing relay.
func (h *CallbackHandler) reconcile(out domain.PaymentOutcome) {
	txnID := out.TxnID()
	if txnID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := domain.OrderStatusFailed
	if out.Kind == domain.OutcomeSuccess && out.Status() == "success" {
		status = domain.OrderStatusPaid
	}

	// A callback arrives through the shopper's browser and can be replayed or
	// forged; when a verifier is configured the gateway's own record wins.
	if status == domain.OrderStatusPaid && h.verifier != nil {
		result, err := h.verifier.Verify(ctx, txnID)
		switch {
		case err != nil:
			h.logger.Warn().Err(err).Str("txnid", txnID).Msg("verify_payment lookup failed, trusting callback")
		case result.Status != "success":
			h.logger.Warn().
				Str("txnid", txnID).
				Str("gateway_status", result.Status).
				Msg("gateway disagrees with success callback")
			status = domain.OrderStatusFailed
		}
	}

	if err := h.orderRepo.UpdateStatus(ctx, txnID, status); err != nil {
		h.logger.Warn().Err(err).
			Str("txnid", txnID).
			Str("status", status.String()).
			Msg("order reconciliation failed")
		return
	}

	h.logger.Info().Str("txnid", txnID).Str("status", status.String()).Msg("order reconciled")
}

func resultPathFor(kind domain.OutcomeKind) string {
	if kind == domain.OutcomeFailure {
		return "/failure"
	}
	return "/success"
}

// flatten keeps the first value per key; the gateway sends flat form fields,
// never repeated ones.
func flatten(values url.Values) map[string]string {
	fields := make(map[string]string, len(values))
	for key := range values {
		fields[key] = values.Get(key)
	}
	return fields
}
