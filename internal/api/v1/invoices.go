package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zathu/zathu/internal/domain"
)

type CreateInvoiceInput struct {
	Body struct {
		ClientID uuid.UUID `json:"client_id" doc:"Client to bill"`
		Currency string    `json:"currency" minLength:"3" maxLength:"3" doc:"ISO 4217 currency code"`
		Total    string    `json:"total" minLength:"1" doc:"Invoice total as a decimal string"`
		IssuedAt time.Time `json:"issued_at,omitempty" doc:"Issue date, defaults to now"`
		DueAt    time.Time `json:"due_at,omitempty" doc:"Due date"`
		Notes    string    `json:"notes,omitempty" maxLength:"4096" doc:"Free-form notes"`
	}
}

type CreateInvoiceOutput struct {
	Body *domain.Invoice
}

type ListInvoicesInput struct {
	ClientID uuid.UUID `query:"client_id" required:"false" doc:"Filter by client"`
}

type ListInvoicesOutput struct {
	Body []*domain.Invoice
}

type GetInvoiceInput struct {
	ID uuid.UUID `path:"id" doc:"Invoice ID"`
}

type GetInvoiceOutput struct {
	Body *domain.Invoice
}

type InvoiceStatusOutput struct {
	Body *domain.Invoice
}

func RegisterInvoiceRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-invoice",
		Method:      http.MethodPost,
		Path:        "/invoices",
		Summary:     "Create a draft invoice",
		Tags:        []string{"Invoices"},
	}, func(ctx context.Context, input *CreateInvoiceInput) (*CreateInvoiceOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		total, err := decimal.NewFromString(input.Body.Total)
		if err != nil {
			return nil, huma.Error400BadRequest("total is not a valid decimal")
		}
		if total.IsNegative() {
			return nil, huma.Error400BadRequest("total must not be negative")
		}

		// The client must live in the same organization.
		if _, err := store.Clients().GetByID(ctx, scope, input.Body.ClientID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up client", err)
		}

		if _, err := store.Currencies().GetByCode(ctx, scope, input.Body.Currency); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error400BadRequest("currency not configured for this organization")
			}
			return nil, huma.Error500InternalServerError("failed to look up currency", err)
		}

		now := time.Now()
		issuedAt := input.Body.IssuedAt
		if issuedAt.IsZero() {
			issuedAt = now
		}

		inv := &domain.Invoice{
			ID:        uuid.New(),
			ClientID:  input.Body.ClientID,
			Status:    domain.InvoiceStatusDraft,
			Currency:  input.Body.Currency,
			Total:     total,
			IssuedAt:  issuedAt,
			DueAt:     input.Body.DueAt,
			Notes:     input.Body.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Invoices().Create(ctx, scope, inv); err != nil {
			return nil, huma.Error500InternalServerError("failed to create invoice", err)
		}

		return &CreateInvoiceOutput{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-invoices",
		Method:      http.MethodGet,
		Path:        "/invoices",
		Summary:     "List invoices in the current organization",
		Tags:        []string{"Invoices"},
	}, func(ctx context.Context, input *ListInvoicesInput) (*ListInvoicesOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		var (
			invoices []*domain.Invoice
			listErr  error
		)
		if input.ClientID != uuid.Nil {
			invoices, listErr = store.Invoices().ListByClient(ctx, scope, input.ClientID)
		} else {
			invoices, listErr = store.Invoices().List(ctx, scope)
		}
		if listErr != nil {
			return nil, huma.Error500InternalServerError("failed to list invoices", listErr)
		}

		return &ListInvoicesOutput{Body: invoices}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-invoice",
		Method:      http.MethodGet,
		Path:        "/invoices/{id}",
		Summary:     "Get an invoice by ID",
		Tags:        []string{"Invoices"},
	}, func(ctx context.Context, input *GetInvoiceInput) (*GetInvoiceOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		inv, err := store.Invoices().GetByID(ctx, scope, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("invoice not found")
			}
			return nil, huma.Error500InternalServerError("failed to get invoice", err)
		}

		return &GetInvoiceOutput{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "send-invoice",
		Method:      http.MethodPost,
		Path:        "/invoices/{id}/send",
		Summary:     "Mark a draft invoice as sent",
		Tags:        []string{"Invoices"},
	}, func(ctx context.Context, input *GetInvoiceInput) (*InvoiceStatusOutput, error) {
		return transitionInvoice(ctx, store, input.ID, domain.InvoiceStatusSent)
	})

	huma.Register(api, huma.Operation{
		OperationID: "void-invoice",
		Method:      http.MethodPost,
		Path:        "/invoices/{id}/void",
		Summary:     "Void an invoice",
		Tags:        []string{"Invoices"},
	}, func(ctx context.Context, input *GetInvoiceInput) (*InvoiceStatusOutput, error) {
		return transitionInvoice(ctx, store, input.ID, domain.InvoiceStatusVoid)
	})
}

// transitionInvoice applies a manual status change, enforcing the invoice
// state machine. Paid is excluded here: only settlement marks invoices paid.
func transitionInvoice(ctx context.Context, store DataStore, id uuid.UUID, to domain.InvoiceStatus) (*InvoiceStatusOutput, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := store.Invoices().GetByID(ctx, scope, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("invoice not found")
		}
		return nil, huma.Error500InternalServerError("failed to get invoice", err)
	}

	if !inv.Status.ValidTransition(to) {
		return nil, huma.Error409Conflict("invoice is " + string(inv.Status) + ", cannot mark " + string(to))
	}

	if err := store.Invoices().UpdateStatus(ctx, scope, id, to); err != nil {
		return nil, huma.Error500InternalServerError("failed to update invoice", err)
	}

	inv.Status = to
	return &InvoiceStatusOutput{Body: inv}, nil
}
