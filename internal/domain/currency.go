package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is a currency an organization invoices in, with its exchange rate
// against the organization's default currency.
type Currency struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Code           string // ISO 4217, e.g. "MWK", "USD"
	Symbol         string
	ExchangeRate   decimal.Decimal
	IsDefault      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CurrencyRepository interface {
	Create(ctx context.Context, scope Scope, c *Currency) error
	GetByCode(ctx context.Context, scope Scope, code string) (*Currency, error)
	List(ctx context.Context, scope Scope) ([]*Currency, error)
	// SetDefault marks the given code as the organization's default currency
	// and clears the flag on every other currency in the same organization.
	SetDefault(ctx context.Context, scope Scope, code string) error
}
