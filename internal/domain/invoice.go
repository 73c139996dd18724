package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

// ValidTransition checks if an invoice status change is allowed.
// Allowed: draft->sent, draft->void, sent->paid, sent->void.
func (s InvoiceStatus) ValidTransition(to InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return to == InvoiceStatusSent || to == InvoiceStatusVoid
	case InvoiceStatusSent:
		return to == InvoiceStatusPaid || to == InvoiceStatusVoid
	default:
		return false
	}
}

// Invoice is a bill issued by an organization to one of its clients.
// Number is a per-organization sequence assigned at creation.
type Invoice struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ClientID       uuid.UUID
	Number         int64
	Status         InvoiceStatus
	Currency       string
	Total          decimal.Decimal
	IssuedAt       time.Time
	DueAt          time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type InvoiceRepository interface {
	// Create assigns the next per-organization invoice number and persists the
	// invoice, filling in Number on the passed value.
	Create(ctx context.Context, scope Scope, inv *Invoice) error
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, scope Scope) ([]*Invoice, error)
	ListByClient(ctx context.Context, scope Scope, clientID uuid.UUID) ([]*Invoice, error)
	UpdateStatus(ctx context.Context, scope Scope, id uuid.UUID, status InvoiceStatus) error
}
