package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zathu/zathu/internal/domain"
	"github.com/zathu/zathu/internal/gateway/paychangu"
	"github.com/zathu/zathu/internal/notify"
)

type paymentOutcome int

const (
	outcomeUnknown paymentOutcome = iota
	outcomeSuccess
	outcomeFailure
)

// outcome maps the gateway's status vocabulary onto a terminal transition.
// Anything unrecognized is acknowledged but ignored.
func outcome(status string) paymentOutcome {
	switch status {
	case "success", "successful":
		return outcomeSuccess
	case "failed":
		return outcomeFailure
	default:
		return outcomeUnknown
	}
}

// Reconciler consumes authenticated webhook events and transitions the
// matching payment. State machine per payment:
//
//	pending -> completed
//	pending -> failed
//
// Both transitions are applied last-write-wins: replaying the same event
// re-applies the same terminal state, and conflicting statuses for one
// reference resolve to whichever the gateway sent last. There is no
// reconciliation of conflicting histories.
type Reconciler struct {
	payments domain.PaymentRepository
	invoices domain.InvoiceRepository
	notifier notify.Notifier
}

func NewReconciler(payments domain.PaymentRepository, invoices domain.InvoiceRepository, notifier notify.Notifier) *Reconciler {
	return &Reconciler{
		payments: payments,
		invoices: invoices,
		notifier: notifier,
	}
}

// ProcessWebhook applies one gateway event. Events without a transaction
// reference and events referencing no local payment are discarded without
// error: the sender is an external system whose retries we do not want, and
// no record is ever fabricated for an unknown reference. Discards are logged
// for operational visibility.
func (r *Reconciler) ProcessWebhook(ctx context.Context, event paychangu.WebhookEvent) error {
	if event.TxRef == "" {
		log.Debug().Str("event_type", event.EventType).Msg("payments: discarding webhook without tx_ref")
		return nil
	}

	// Webhooks arrive outside any user session, so the lookup is explicitly
	// cross-tenant; the payment row itself pins the organization.
	scope := domain.AllOrganizations()

	payment, err := r.payments.GetByTxRef(ctx, scope, event.TxRef)
	if errors.Is(err, domain.ErrNotFound) {
		log.Debug().Str("tx_ref", event.TxRef).Msg("payments: discarding webhook for unknown tx_ref")
		return nil
	}
	if err != nil {
		return fmt.Errorf("payments.Reconciler.ProcessWebhook: %w", err)
	}

	upd := domain.PaymentUpdate{
		GatewayRef: event.Reference,
		RawPayload: event.Raw,
		At:         time.Now(),
	}
	if event.Authorization != nil {
		upd.Channel = event.Authorization.Channel
	}
	if event.Customer != nil {
		upd.CustomerName = customerName(event.Customer.FirstName, event.Customer.LastName)
		upd.CustomerEmail = event.Customer.Email
	}

	switch outcome(event.Status) {
	case outcomeSuccess:
		if err := r.payments.MarkCompleted(ctx, scope, event.TxRef, upd); err != nil {
			return fmt.Errorf("payments.Reconciler.ProcessWebhook: %w", err)
		}
		markInvoicePaid(ctx, r.invoices, payment.InvoiceID)
		r.notifyCompleted(ctx, payment, upd)
	case outcomeFailure:
		if err := r.payments.MarkFailed(ctx, scope, event.TxRef, upd); err != nil {
			return fmt.Errorf("payments.Reconciler.ProcessWebhook: %w", err)
		}
	default:
		log.Debug().Str("tx_ref", event.TxRef).Str("status", event.Status).Msg("payments: ignoring webhook with unhandled status")
	}

	return nil
}

func (r *Reconciler) notifyCompleted(ctx context.Context, payment *domain.Payment, upd domain.PaymentUpdate) {
	notified := *payment
	notified.Status = domain.PaymentStatusCompleted
	notified.GatewayRef = upd.GatewayRef
	notified.Channel = upd.Channel

	if err := r.notifier.PaymentCompleted(ctx, &notified); err != nil {
		log.Warn().Err(err).Str("tx_ref", payment.TxRef).Msg("payments: completion notification failed")
	}
}
