package middleware

import (
	"net/http"

	"github.com/zathu/zathu/internal/domain"
)

// RequireRole returns middleware that checks the authenticated user's role in
// the current organization grants at least the given role. It must be chained
// after OrganizationContext, which stores the membership role in the request
// context.
//
// Returns 401 Unauthorized when no role is in context (middleware order bug
// or no organization) and 403 Forbidden when the role ranks too low.
func RequireRole(minimum domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role == "" {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if !role.AtLeast(minimum) {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"insufficient permissions"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience wrapper for RequireRole(domain.RoleAdmin).
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin)
}
