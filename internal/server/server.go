package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/zathu/zathu/internal/auth"
	"github.com/zathu/zathu/internal/config"
	"github.com/zathu/zathu/internal/gateway/paychangu"
	"github.com/zathu/zathu/internal/payments"
	"github.com/zathu/zathu/internal/server/middleware"
	"github.com/zathu/zathu/internal/store/postgres"
	"github.com/zathu/zathu/internal/tenant"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	manager    *tenant.Manager
	cfg        *config.Config
}

// Deps carries everything the route tree needs.
type Deps struct {
	Store          *postgres.Store
	Manager        *tenant.Manager
	Auth           *auth.Service
	Payments       *payments.Service
	WebhookHandler *paychangu.Handler
}

// New creates a Server with all routes wired. The webhook and callback
// endpoints live outside the authenticated API group: the gateway calls them
// with no session, authenticated by HMAC signature (webhook) or synchronous
// verification (callback).
func New(ctx context.Context, cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router:  router,
		store:   deps.Store,
		manager: deps.Manager,
		cfg:     cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Unauthenticated group for auth endpoints, rate limited per IP.
	// 2. Authenticated group for everything else, rate limited per org.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, 5, 10))

			authConfig := huma.DefaultConfig("Zathu Auth API", "1.0.0")
			authConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			authAPI := humachi.New(r, authConfig)
			registerAuthRoutes(authAPI, deps)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.OrganizationContext(deps.Manager))
			r.Use(middleware.RateLimit(ctx, 100, 200))

			apiConfig := huma.DefaultConfig("Zathu API", "1.0.0")
			apiConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			api := humachi.New(r, apiConfig)
			registerAccountRoutes(api, deps)
		})

		// Tenant-scoped business routes additionally require an organization.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.OrganizationContext(deps.Manager))
			r.Use(middleware.RequireOrganization())
			r.Use(middleware.RateLimit(ctx, 100, 200))

			orgConfig := huma.DefaultConfig("Zathu Invoicing API", "1.0.0")
			orgConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			orgAPI := humachi.New(r, orgConfig)
			registerInvoicingRoutes(orgAPI, deps)
		})
	})

	// Gateway-facing routes: webhook POST plus the payer's return redirect.
	router.Route("/gateway/paychangu", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ctx, 20, 40))
		r.Post("/webhook", deps.WebhookHandler.HandleWebhook)
		r.Get("/callback", deps.WebhookHandler.HandleCallback)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
