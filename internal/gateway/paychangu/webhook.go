package paychangu

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/zathu/zathu/internal/domain"
)

// WebhookEvent is the gateway's asynchronous notification of a transaction
// outcome. Raw carries the exact request body for audit storage.
type WebhookEvent struct {
	EventType     string         `json:"event_type"`
	TxRef         string         `json:"tx_ref"`
	Status        string         `json:"status"`
	Reference     string         `json:"reference,omitempty"`
	Authorization *Authorization `json:"authorization,omitempty"`
	Customer      *Customer      `json:"customer,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// WebhookProcessor reconciles an authenticated webhook event with local
// payment records. *payments.Reconciler satisfies this interface.
type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, event WebhookEvent) error
}

// CallbackSettler resolves a transaction synchronously for the return
// redirect. *payments.Service satisfies this interface.
type CallbackSettler interface {
	VerifyAndSettle(ctx context.Context, txRef string) (*domain.Payment, error)
}

// Handler serves the gateway-facing HTTP endpoints: the signed webhook and
// the browser return redirect. Webhooks are unauthenticated HTTP, not user
// sessions, so nothing here touches tenant context.
type Handler struct {
	webhookSecret string
	processor     WebhookProcessor
	settler       CallbackSettler
	dashboardURL  string
}

func NewHandler(webhookSecret string, processor WebhookProcessor, settler CallbackSettler, dashboardURL string) *Handler {
	return &Handler{
		webhookSecret: webhookSecret,
		processor:     processor,
		settler:       settler,
		dashboardURL:  dashboardURL,
	}
}

// HandleWebhook is an http.HandlerFunc for POST /gateway/paychangu/webhook.
//
// A failed signature check is rejected with 401. Everything after that
// acknowledges with 200 regardless of processing outcome: the gateway retries
// non-2xx deliveries, and a retry storm over a malformed or unknown event
// helps nobody. Internal failures are logged instead.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if !VerifySignature(h.webhookSecret, body, r.Header.Get("Signature")) {
		respondMessage(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event WebhookEvent
	if unmarshalErr := json.Unmarshal(body, &event); unmarshalErr != nil {
		log.Debug().Err(unmarshalErr).Msg("paychangu: discarding malformed webhook body")
		respondMessage(w, http.StatusOK, "ignored")
		return
	}
	event.Raw = body

	if processErr := h.processor.ProcessWebhook(r.Context(), event); processErr != nil {
		log.Error().Err(processErr).Str("tx_ref", event.TxRef).Msg("paychangu: webhook processing failed")
	}

	respondMessage(w, http.StatusOK, "ok")
}

// HandleCallback is an http.HandlerFunc for GET /gateway/paychangu/callback,
// the
// browser redirect after hosted checkout. It verifies the transaction with
// the gateway rather than trusting the status query parameter.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	txRef := r.URL.Query().Get("tx_ref")
	if txRef == "" {
		h.redirectDashboard(w, r, "error")
		return
	}

	payment, err := h.settler.VerifyAndSettle(r.Context(), txRef)
	if err != nil {
		log.Warn().Err(err).Str("tx_ref", txRef).Msg("paychangu: callback verification failed")
		h.redirectDashboard(w, r, "error")
		return
	}

	outcome := "failed"
	if payment.Status == domain.PaymentStatusCompleted {
		outcome = "success"
	}

	target := h.dashboardURL + "/invoices/" + payment.InvoiceID.String() + "?payment=" + url.QueryEscape(outcome)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) redirectDashboard(w http.ResponseWriter, r *http.Request, outcome string) {
	http.Redirect(w, r, h.dashboardURL+"?payment="+url.QueryEscape(outcome), http.StatusSeeOther)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]string{"message": message}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		log.Error().Err(encodeErr).Msg("paychangu: encode webhook response")
	}
}
