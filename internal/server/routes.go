package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/zathu/zathu/internal/api/v1"
)

func registerAuthRoutes(api huma.API, deps Deps) {
	v1.RegisterAuthRoutes(api, deps.Auth)
}

// registerAccountRoutes covers operations a user can perform before any
// organization exists: creating one, listing memberships, switching.
func registerAccountRoutes(api huma.API, deps Deps) {
	v1.RegisterOrganizationRoutes(api, deps.Store, deps.Manager)
	v1.RegisterAdminRoutes(api, deps.Store)
}

// registerInvoicingRoutes covers everything scoped to the current
// organization.
func registerInvoicingRoutes(api huma.API, deps Deps) {
	v1.RegisterClientRoutes(api, deps.Store)
	v1.RegisterInvoiceRoutes(api, deps.Store)
	v1.RegisterCurrencyRoutes(api, deps.Store)
	v1.RegisterPaymentRoutes(api, deps.Store, deps.Payments)
}
