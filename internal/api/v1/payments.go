package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/zathu/zathu/internal/domain"
	"github.com/zathu/zathu/internal/gateway/paychangu"
	"github.com/zathu/zathu/internal/payments"
)

type InitiatePaymentInput struct {
	InvoiceID uuid.UUID `path:"id" doc:"Invoice ID"`
	Body      struct {
		FirstName string `json:"first_name" minLength:"1" maxLength:"255" doc:"Payer first name"`
		LastName  string `json:"last_name,omitempty" maxLength:"255" doc:"Payer last name"`
		Email     string `json:"email" minLength:"3" maxLength:"255" doc:"Payer email"`
	}
}

type InitiatePaymentOutput struct {
	Body struct {
		CheckoutURL string          `json:"checkout_url" doc:"Hosted checkout page to redirect the payer to"`
		Payment     *domain.Payment `json:"payment"`
	}
}

type ListPaymentsInput struct {
	InvoiceID uuid.UUID `query:"invoice_id" required:"false" doc:"Filter by invoice"`
}

type ListPaymentsOutput struct {
	Body []*domain.Payment
}

type GetPaymentInput struct {
	TxRef string `path:"txRef" doc:"Transaction reference"`
}

type GetPaymentOutput struct {
	Body *domain.Payment
}

type WalletBalanceInput struct {
	Currency string `query:"currency" pattern:"^[A-Z]{3}$" doc:"ISO 4217 currency code"`
}

type WalletBalanceOutput struct {
	Body *paychangu.Balance
}

func RegisterPaymentRoutes(api huma.API, store DataStore, paySvc PaymentService) {
	huma.Register(api, huma.Operation{
		OperationID: "initiate-payment",
		Method:      http.MethodPost,
		Path:        "/invoices/{id}/payments",
		Summary:     "Start a hosted checkout for an invoice",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *InitiatePaymentInput) (*InitiatePaymentOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		result, err := paySvc.Initiate(ctx, scope, input.InvoiceID, payments.CustomerDetails{
			FirstName: input.Body.FirstName,
			LastName:  input.Body.LastName,
			Email:     input.Body.Email,
		})
		if err != nil {
			var gwErr *paychangu.GatewayError
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("invoice not found")
			case errors.Is(err, domain.ErrConflict):
				return nil, huma.Error409Conflict("invoice is not payable")
			case errors.As(err, &gwErr):
				return nil, huma.Error502BadGateway(gwErr.Message)
			default:
				return nil, huma.Error500InternalServerError("failed to initiate payment", err)
			}
		}

		out := &InitiatePaymentOutput{}
		out.Body.CheckoutURL = result.CheckoutURL
		out.Body.Payment = result.Payment
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-payments",
		Method:      http.MethodGet,
		Path:        "/payments",
		Summary:     "List payments in the current organization",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *ListPaymentsInput) (*ListPaymentsOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		var (
			list    []*domain.Payment
			listErr error
		)
		if input.InvoiceID != uuid.Nil {
			list, listErr = store.Payments().ListByInvoice(ctx, scope, input.InvoiceID)
		} else {
			list, listErr = store.Payments().List(ctx, scope)
		}
		if listErr != nil {
			return nil, huma.Error500InternalServerError("failed to list payments", listErr)
		}

		return &ListPaymentsOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-payment",
		Method:      http.MethodGet,
		Path:        "/payments/{txRef}",
		Summary:     "Get a payment by transaction reference",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *GetPaymentInput) (*GetPaymentOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		p, err := store.Payments().GetByTxRef(ctx, scope, input.TxRef)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("payment not found")
			}
			return nil, huma.Error500InternalServerError("failed to get payment", err)
		}

		return &GetPaymentOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "wallet-balance",
		Method:      http.MethodGet,
		Path:        "/payments/balance/wallet",
		Summary:     "Get the gateway wallet balance",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *WalletBalanceInput) (*WalletBalanceOutput, error) {
		role, err := roleFrom(ctx)
		if err != nil {
			return nil, err
		}
		if !role.AtLeast(domain.RoleAccountant) {
			return nil, huma.Error403Forbidden("accountant role required")
		}

		balance, err := paySvc.Balance(ctx, input.Currency)
		if err != nil {
			var gwErr *paychangu.GatewayError
			if errors.As(err, &gwErr) {
				return nil, huma.Error502BadGateway(gwErr.Message)
			}
			return nil, huma.Error500InternalServerError("failed to fetch balance", err)
		}

		return &WalletBalanceOutput{Body: balance}, nil
	})
}
