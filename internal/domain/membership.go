package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a user's role within one organization.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleAccountant Role = "accountant"
	RoleUser       Role = "user"
)

var roleRank = map[Role]int{
	RoleUser:       1,
	RoleAccountant: 2,
	RoleManager:    3,
	RoleAdmin:      4,
	RoleOwner:      5,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the privileges of other.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// Membership joins a user to an organization with a role.
type Membership struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	// Get returns the user's membership in the given organization.
	Get(ctx context.Context, orgID, userID uuid.UUID) (*Membership, error)
	// FirstActiveForUser returns the user's earliest active membership,
	// ordered by (created_at, id) so the choice is deterministic.
	FirstActiveForUser(ctx context.Context, userID uuid.UUID) (*Membership, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*Membership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Membership, error)
	Deactivate(ctx context.Context, orgID, userID uuid.UUID) error
}
