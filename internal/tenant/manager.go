package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zathu/zathu/internal/domain"
)

// SessionStore holds each user's current organization selection. The
// selection lives only in the session store; it is never part of a persisted
// schema. *redis.Sessions satisfies this interface.
type SessionStore interface {
	GetOrganization(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
	SetOrganization(ctx context.Context, userID, orgID uuid.UUID) error
	ClearOrganization(ctx context.Context, userID uuid.UUID) error
}

// Manager resolves and mutates a user's current organization. All side
// effects are confined to the session store.
type Manager struct {
	sessions    SessionStore
	memberships domain.MembershipRepository
	orgs        domain.OrganizationRepository
}

func NewManager(sessions SessionStore, memberships domain.MembershipRepository, orgs domain.OrganizationRepository) *Manager {
	return &Manager{
		sessions:    sessions,
		memberships: memberships,
		orgs:        orgs,
	}
}

// Current returns the user's selected organization id, if one is set.
func (m *Manager) Current(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	orgID, ok, err := m.sessions.GetOrganization(ctx, userID)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("tenant.Manager.Current: %w", err)
	}
	return orgID, ok, nil
}

// Select sets the user's current organization after checking the user holds
// an active membership in an active organization. Returns domain.ErrForbidden
// when either check fails.
func (m *Manager) Select(ctx context.Context, userID, orgID uuid.UUID) error {
	membership, err := m.memberships.Get(ctx, orgID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("tenant.Manager.Select: %w", domain.ErrForbidden)
	}
	if err != nil {
		return fmt.Errorf("tenant.Manager.Select: %w", err)
	}
	if !membership.Active {
		return fmt.Errorf("tenant.Manager.Select: membership inactive: %w", domain.ErrForbidden)
	}

	org, err := m.orgs.GetByID(ctx, orgID)
	if err != nil {
		return fmt.Errorf("tenant.Manager.Select: %w", err)
	}
	if !org.Active {
		return fmt.Errorf("tenant.Manager.Select: organization inactive: %w", domain.ErrForbidden)
	}

	if err := m.sessions.SetOrganization(ctx, userID, orgID); err != nil {
		return fmt.Errorf("tenant.Manager.Select: %w", err)
	}

	return nil
}

// Clear removes the user's current organization selection.
func (m *Manager) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := m.sessions.ClearOrganization(ctx, userID); err != nil {
		return fmt.Errorf("tenant.Manager.Clear: %w", err)
	}
	return nil
}

// Ensure returns the user's current organization, selecting the earliest
// active membership when none is set. Calling it twice yields the same id as
// calling it once. A user with no active memberships gets uuid.Nil and no
// error; callers decide whether that is a problem.
func (m *Manager) Ensure(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	orgID, ok, err := m.Current(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("tenant.Manager.Ensure: %w", err)
	}
	if ok {
		return orgID, nil
	}

	membership, err := m.memberships.FirstActiveForUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("tenant.Manager.Ensure: %w", err)
	}

	if err := m.sessions.SetOrganization(ctx, userID, membership.OrganizationID); err != nil {
		return uuid.Nil, fmt.Errorf("tenant.Manager.Ensure: %w", err)
	}

	return membership.OrganizationID, nil
}

// CurrentMembership returns the user's membership row for the current
// organization, or domain.ErrNotFound when no organization is selected.
func (m *Manager) CurrentMembership(ctx context.Context, userID uuid.UUID) (*domain.Membership, error) {
	orgID, ok, err := m.Current(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tenant.Manager.CurrentMembership: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("tenant.Manager.CurrentMembership: no organization selected: %w", domain.ErrNotFound)
	}

	membership, err := m.memberships.Get(ctx, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("tenant.Manager.CurrentMembership: %w", err)
	}

	return membership, nil
}
