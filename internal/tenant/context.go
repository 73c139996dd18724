package tenant

import (
	"context"

	"github.com/google/uuid"

	"github.com/zathu/zathu/internal/domain"
)

type contextKey string

const contextKeyOrganization contextKey = "organization_id"

// WithOrganization returns a context carrying the current organization id.
// Only the organization middleware should call this; handlers read it back
// through ScopeFromContext.
func WithOrganization(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKeyOrganization, orgID)
}

// OrganizationFromContext returns the current organization id, if any.
func OrganizationFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(contextKeyOrganization).(uuid.UUID)
	return v, ok && v != uuid.Nil
}

// ScopeFromContext is the default filtered data-access path: it derives a
// single-organization scope from the request context. Handlers that need
// cross-tenant access must reach for domain.ForOrganization or
// domain.AllOrganizations explicitly instead.
func ScopeFromContext(ctx context.Context) (domain.Scope, bool) {
	orgID, ok := OrganizationFromContext(ctx)
	if !ok {
		return domain.Scope{}, false
	}
	return domain.ForOrganization(orgID), true
}
