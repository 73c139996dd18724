package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/zathu/zathu/internal/api/v1"
	"github.com/zathu/zathu/internal/domain"
)

// ---------------------------------------------------------------------------
// POST /clients
// ---------------------------------------------------------------------------

func TestCreateClient(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		orgID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			clients: &mockClientRepo{
				createFunc: func(_ context.Context, scope domain.Scope, c *domain.Client) error {
					assert.Equal(t, orgID, scope.OrganizationID())
					scope.Stamp(&c.OrganizationID)
					return nil
				},
			},
		}
		v1.RegisterClientRoutes(api, store)

		resp := api.PostCtx(orgCtx(userID, orgID, domain.RoleUser), "/clients", map[string]any{
			"name":  "Lilongwe Hardware Ltd",
			"email": "accounts@lilongwehw.example",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Client
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "Lilongwe Hardware Ltd", body.Name)
		assert.Equal(t, orgID, body.OrganizationID)
		assert.NotEqual(t, uuid.Nil, body.ID)
	})

	t.Run("missing_organization_context", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{clients: &mockClientRepo{}}
		v1.RegisterClientRoutes(api, store)

		resp := api.PostCtx(context.Background(), "/clients", map[string]any{
			"name": "Lilongwe Hardware Ltd",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("store_error", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			clients: &mockClientRepo{
				createFunc: func(_ context.Context, _ domain.Scope, _ *domain.Client) error {
					return errors.New("db: connection refused")
				},
			},
		}
		v1.RegisterClientRoutes(api, store)

		resp := api.PostCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleUser), "/clients", map[string]any{
			"name": "failing-client",
		})

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /clients/{id}
// ---------------------------------------------------------------------------

func TestGetClient(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		clientID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			clients: &mockClientRepo{
				getByIDFunc: func(_ context.Context, scope domain.Scope, id uuid.UUID) (*domain.Client, error) {
					assert.Equal(t, orgID, scope.OrganizationID())
					assert.Equal(t, clientID, id)
					return &domain.Client{ID: clientID, OrganizationID: orgID, Name: "Mzuzu Motors"}, nil
				},
			},
		}
		v1.RegisterClientRoutes(api, store)

		resp := api.GetCtx(orgCtx(uuid.New(), orgID, domain.RoleUser), "/clients/"+clientID.String())
		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Client
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "Mzuzu Motors", body.Name)
	})

	t.Run("other_tenants_client_is_404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			clients: &mockClientRepo{
				getByIDFunc: func(_ context.Context, _ domain.Scope, _ uuid.UUID) (*domain.Client, error) {
					// The scoped query simply finds no row.
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterClientRoutes(api, store)

		resp := api.GetCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleUser), "/clients/"+uuid.NewString())
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /clients
// ---------------------------------------------------------------------------

func TestListClients(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	_, api := humatest.New(t)
	store := &mockDataStore{
		clients: &mockClientRepo{
			listFunc: func(_ context.Context, scope domain.Scope) ([]*domain.Client, error) {
				assert.Equal(t, orgID, scope.OrganizationID())
				return []*domain.Client{
					{ID: uuid.New(), OrganizationID: orgID, Name: "a"},
					{ID: uuid.New(), OrganizationID: orgID, Name: "b"},
				}, nil
			},
		},
	}
	v1.RegisterClientRoutes(api, store)

	resp := api.GetCtx(orgCtx(uuid.New(), orgID, domain.RoleUser), "/clients")
	require.Equal(t, http.StatusOK, resp.Code)

	var body []*domain.Client
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body, 2)
}

// ---------------------------------------------------------------------------
// DELETE /clients/{id}
// ---------------------------------------------------------------------------

func TestDeleteClient(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		clientID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			clients: &mockClientRepo{
				deleteFunc: func(_ context.Context, scope domain.Scope, id uuid.UUID) error {
					assert.Equal(t, orgID, scope.OrganizationID())
					assert.Equal(t, clientID, id)
					return nil
				},
			},
		}
		v1.RegisterClientRoutes(api, store)

		resp := api.DeleteCtx(orgCtx(uuid.New(), orgID, domain.RoleUser), "/clients/"+clientID.String())
		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("client_with_invoices_conflicts", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			clients: &mockClientRepo{
				deleteFunc: func(_ context.Context, _ domain.Scope, _ uuid.UUID) error {
					return domain.ErrConflict
				},
			},
		}
		v1.RegisterClientRoutes(api, store)

		resp := api.DeleteCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleUser), "/clients/"+uuid.NewString())
		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}
