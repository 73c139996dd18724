package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// Payment tracks one attempted transaction against an invoice. A payment is
// created in pending status when checkout is initiated and is mutated only by
// webhook reconciliation or synchronous verification; it is never deleted.
// TxRef is generated locally, unique, and immutable once created.
type Payment struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	InvoiceID      uuid.UUID
	Amount         decimal.Decimal
	Currency       string
	TxRef          string
	Gateway        string // e.g. "paychangu"
	Status         PaymentStatus
	GatewayRef     string // gateway-assigned reference, set on completion
	Channel        string // e.g. "mobile_money", "card"
	CustomerName   string
	CustomerEmail  string
	RawResponse    json.RawMessage // last raw gateway payload, kept for audit
	CompletedAt    *time.Time
	FailedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PaymentUpdate carries the fields a terminal transition records.
type PaymentUpdate struct {
	GatewayRef    string
	Channel       string
	CustomerName  string
	CustomerEmail string
	RawPayload    json.RawMessage
	At            time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, scope Scope, p *Payment) error
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*Payment, error)
	GetByTxRef(ctx context.Context, scope Scope, txRef string) (*Payment, error)
	List(ctx context.Context, scope Scope) ([]*Payment, error)
	ListByInvoice(ctx context.Context, scope Scope, invoiceID uuid.UUID) ([]*Payment, error)
	// MarkCompleted and MarkFailed apply terminal transitions unconditionally:
	// the gateway's latest word wins, even over a prior terminal state.
	MarkCompleted(ctx context.Context, scope Scope, txRef string, upd PaymentUpdate) error
	MarkFailed(ctx context.Context, scope Scope, txRef string, upd PaymentUpdate) error
}
