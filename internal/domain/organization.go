package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant root. All business data is partitioned by it.
// Organizations are never hard-deleted; Deactivate flips the active flag.
type Organization struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	BillingEmail string
	BillingPhone string
	Address      string
	Active       bool
	Settings     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrganizationRepository interface {
	Create(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	Update(ctx context.Context, o *Organization) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	// List returns every organization and is reserved for admin use.
	List(ctx context.Context) ([]*Organization, error)
	// ListByUser returns organizations the user holds an active membership in,
	// ordered by membership creation.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Organization, error)
}
