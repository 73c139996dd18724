package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zathu/zathu/internal/domain"
	"github.com/zathu/zathu/internal/tenant"
)

// OrganizationResolver resolves a user's current organization and membership.
// *tenant.Manager satisfies this interface.
type OrganizationResolver interface {
	Ensure(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	CurrentMembership(ctx context.Context, userID uuid.UUID) (*domain.Membership, error)
}

// OrganizationContext establishes the current organization for authenticated
// requests: it auto-selects the user's earliest active membership when none
// is chosen and stores the organization id and role in the request context.
// Requests from users with no memberships pass through without an
// organization; RequireOrganization decides whether that is acceptable.
func OrganizationContext(resolver OrganizationResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			orgID, err := resolver.Ensure(r.Context(), userID)
			if err != nil {
				log.Error().Err(err).Str("user_id", userID.String()).Msg("middleware: organization resolution failed")
				http.Error(w, `{"title":"Internal Server Error","status":500,"detail":"could not resolve organization"}`, http.StatusInternalServerError)
				return
			}
			if orgID == uuid.Nil {
				next.ServeHTTP(w, r)
				return
			}

			membership, err := resolver.CurrentMembership(r.Context(), userID)
			if err != nil {
				log.Error().Err(err).Str("user_id", userID.String()).Msg("middleware: membership lookup failed")
				http.Error(w, `{"title":"Internal Server Error","status":500,"detail":"could not resolve membership"}`, http.StatusInternalServerError)
				return
			}

			ctx := tenant.WithOrganization(r.Context(), orgID)
			ctx = context.WithValue(ctx, ContextKeyRole, membership.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOrganization rejects requests that reach a tenant-scoped route with
// no current organization.
func RequireOrganization() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := tenant.OrganizationFromContext(r.Context()); !ok {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"no organization selected"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
