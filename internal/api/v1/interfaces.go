package v1

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/zathu/zathu/internal/domain"
	"github.com/zathu/zathu/internal/gateway/paychangu"
	"github.com/zathu/zathu/internal/payments"
	"github.com/zathu/zathu/internal/server/middleware"
	"github.com/zathu/zathu/internal/tenant"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Organizations() domain.OrganizationRepository
	Memberships() domain.MembershipRepository
	Users() domain.UserRepository
	Clients() domain.ClientRepository
	Invoices() domain.InvoiceRepository
	Currencies() domain.CurrencyRepository
	Payments() domain.PaymentRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// TenantManager abstracts organization selection for handler testing.
// *tenant.Manager satisfies this interface.
type TenantManager interface {
	Current(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
	Select(ctx context.Context, userID, orgID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// PaymentService abstracts checkout initiation for handler testing.
// *payments.Service satisfies this interface.
type PaymentService interface {
	Initiate(ctx context.Context, scope domain.Scope, invoiceID uuid.UUID, customer payments.CustomerDetails) (*payments.InitiateResult, error)
	Balance(ctx context.Context, currency string) (*paychangu.Balance, error)
}

// scopeFrom pulls the current organization scope out of the request context.
// Routes behind RequireOrganization always have one; the error path covers
// misconfigured route groups.
func scopeFrom(ctx context.Context) (domain.Scope, error) {
	scope, ok := tenant.ScopeFromContext(ctx)
	if !ok {
		return domain.Scope{}, huma.Error403Forbidden("no organization selected")
	}
	return scope, nil
}

func userIDFrom(ctx context.Context) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("authentication required")
	}
	return id, nil
}

func roleFrom(ctx context.Context) (domain.Role, error) {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		return "", huma.Error403Forbidden("no organization selected")
	}
	return role, nil
}
