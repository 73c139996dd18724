// Package payments owns the payment lifecycle: checkout initiation against
// the gateway, synchronous verification on the return redirect, and webhook
// reconciliation.
package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zathu/zathu/internal/domain"
	"github.com/zathu/zathu/internal/gateway/paychangu"
)

// ErrTxRefExhausted is returned when reference generation keeps colliding,
// which in practice means the random source is broken.
var ErrTxRefExhausted = errors.New("payments: could not generate unique tx_ref")

const txRefAttempts = 5

// Gateway is the outbound payment gateway surface the service depends on.
// *paychangu.Client satisfies this interface.
type Gateway interface {
	InitiatePayment(ctx context.Context, req paychangu.InitiateRequest) (*paychangu.InitiateResponse, error)
	VerifyPayment(ctx context.Context, txRef string) (*paychangu.VerifyResponse, error)
	WalletBalance(ctx context.Context, currency string) (*paychangu.Balance, error)
}

// CustomerDetails identifies the payer at checkout.
type CustomerDetails struct {
	FirstName string
	LastName  string
	Email     string
}

// InitiateResult is what the caller needs to send the payer to checkout.
type InitiateResult struct {
	CheckoutURL string
	Payment     *domain.Payment
}

// Service initiates and settles payments.
type Service struct {
	gateway     Gateway
	payments    domain.PaymentRepository
	invoices    domain.InvoiceRepository
	callbackURL string
	returnURL   string
}

func NewService(gateway Gateway, payments domain.PaymentRepository, invoices domain.InvoiceRepository, callbackURL, returnURL string) *Service {
	return &Service{
		gateway:     gateway,
		payments:    payments,
		invoices:    invoices,
		callbackURL: callbackURL,
		returnURL:   returnURL,
	}
}

// Initiate starts a hosted checkout for the invoice and records a pending
// payment carrying the generated transaction reference and the raw gateway
// response. On gateway failure nothing is persisted and the *GatewayError is
// returned as-is for the caller to present.
func (s *Service) Initiate(ctx context.Context, scope domain.Scope, invoiceID uuid.UUID, customer CustomerDetails) (*InitiateResult, error) {
	inv, err := s.invoices.GetByID(ctx, scope, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("payments.Service.Initiate: %w", err)
	}

	if inv.Status == domain.InvoiceStatusPaid || inv.Status == domain.InvoiceStatusVoid {
		return nil, fmt.Errorf("payments.Service.Initiate: invoice %s is %s: %w", inv.ID, inv.Status, domain.ErrConflict)
	}

	txRef, err := s.uniqueTxRef(ctx, inv.Number)
	if err != nil {
		return nil, fmt.Errorf("payments.Service.Initiate: %w", err)
	}

	resp, err := s.gateway.InitiatePayment(ctx, paychangu.InitiateRequest{
		Amount:      inv.Total.String(),
		Currency:    inv.Currency,
		TxRef:       txRef,
		CallbackURL: s.callbackURL,
		ReturnURL:   s.returnURL,
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		Meta: paychangu.Meta{
			InvoiceID:      inv.ID.String(),
			OrganizationID: inv.OrganizationID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:             uuid.New(),
		OrganizationID: inv.OrganizationID,
		InvoiceID:      inv.ID,
		Amount:         inv.Total,
		Currency:       inv.Currency,
		TxRef:          txRef,
		Gateway:        paychangu.GatewayName,
		Status:         domain.PaymentStatusPending,
		CustomerName:   customerName(customer.FirstName, customer.LastName),
		CustomerEmail:  customer.Email,
		RawResponse:    resp.Raw,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if createErr := s.payments.Create(ctx, scope, payment); createErr != nil {
		return nil, fmt.Errorf("payments.Service.Initiate: %w", createErr)
	}

	return &InitiateResult{
		CheckoutURL: resp.Data.CheckoutURL,
		Payment:     payment,
	}, nil
}

// VerifyAndSettle resolves the transaction synchronously with the gateway and
// applies the same terminal transition the webhook reconciler would. Used by
// the return redirect so the payer sees the outcome without waiting for the
// webhook. Runs cross-tenant: the redirect is a bare browser request with no
// organization session.
func (s *Service) VerifyAndSettle(ctx context.Context, txRef string) (*domain.Payment, error) {
	scope := domain.AllOrganizations()

	payment, err := s.payments.GetByTxRef(ctx, scope, txRef)
	if err != nil {
		return nil, fmt.Errorf("payments.Service.VerifyAndSettle: %w", err)
	}

	resp, err := s.gateway.VerifyPayment(ctx, txRef)
	if err != nil {
		return nil, err
	}

	upd := domain.PaymentUpdate{
		GatewayRef:    resp.Data.Reference,
		Channel:       resp.Data.Authorization.Channel,
		CustomerName:  customerName(resp.Data.Customer.FirstName, resp.Data.Customer.LastName),
		CustomerEmail: resp.Data.Customer.Email,
		RawPayload:    resp.Raw,
		At:            time.Now(),
	}

	switch outcome(resp.Data.Status) {
	case outcomeSuccess:
		if err := s.payments.MarkCompleted(ctx, scope, txRef, upd); err != nil {
			return nil, fmt.Errorf("payments.Service.VerifyAndSettle: %w", err)
		}
		markInvoicePaid(ctx, s.invoices, payment.InvoiceID)
	case outcomeFailure:
		if err := s.payments.MarkFailed(ctx, scope, txRef, upd); err != nil {
			return nil, fmt.Errorf("payments.Service.VerifyAndSettle: %w", err)
		}
	default:
		// Still pending at the gateway; leave the local record untouched.
	}

	settled, err := s.payments.GetByTxRef(ctx, scope, txRef)
	if err != nil {
		return nil, fmt.Errorf("payments.Service.VerifyAndSettle: %w", err)
	}

	return settled, nil
}

// Balance is a read-only passthrough to the gateway wallet balance.
func (s *Service) Balance(ctx context.Context, currency string) (*paychangu.Balance, error) {
	return s.gateway.WalletBalance(ctx, currency)
}

// uniqueTxRef generates a reference and retries on the unlikely collision
// with an existing payment. References are globally unique, so the check
// runs cross-tenant.
func (s *Service) uniqueTxRef(ctx context.Context, invoiceNumber int64) (string, error) {
	for range txRefAttempts {
		txRef := NewTxRef(invoiceNumber)

		_, err := s.payments.GetByTxRef(ctx, domain.AllOrganizations(), txRef)
		if errors.Is(err, domain.ErrNotFound) {
			return txRef, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", ErrTxRefExhausted
}

func customerName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// markInvoicePaid flips the invoice to paid after a completed payment. The
// payment transition already happened; a failure here is logged rather than
// unwinding it.
func markInvoicePaid(ctx context.Context, invoices domain.InvoiceRepository, invoiceID uuid.UUID) {
	err := invoices.UpdateStatus(ctx, domain.AllOrganizations(), invoiceID, domain.InvoiceStatusPaid)
	if err != nil {
		log.Warn().Err(err).Str("invoice_id", invoiceID.String()).Msg("payments: could not mark invoice paid")
	}
}
