package v1_test

import (
	"context"
	"encoding/json"
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
// POST /organizations
// ---------------------------------------------------------------------------

func TestCreateOrganization(t *testing.T) {
	t.Parallel()

	t.Run("creates_owner_membership_and_selects", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		var createdOrg *domain.Organization
		var createdMembership *domain.Membership
		var selectedOrg uuid.UUID

		_, api := humatest.New(t)
		store := &mockDataStore{
			organizations: &mockOrgRepo{
				createFunc: func(_ context.Context, o *domain.Organization) error {
					createdOrg = o
					return nil
				},
			},
			memberships: &mockMembershipRepo{
				createFunc: func(_ context.Context, m *domain.Membership) error {
					createdMembership = m
					return nil
				},
			},
		}
		manager := &mockTenantManager{
			selectFunc: func(_ context.Context, gotUser, orgID uuid.UUID) error {
				assert.Equal(t, userID, gotUser)
				selectedOrg = orgID
				return nil
			},
		}
		v1.RegisterOrganizationRoutes(api, store, manager)

		resp := api.PostCtx(userCtx(userID), "/organizations", map[string]any{
			"name": "Nyasa Traders",
			"slug": "nyasa-traders",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, createdOrg)
		assert.Equal(t, "nyasa-traders", createdOrg.Slug)
		assert.True(t, createdOrg.Active)

		require.NotNil(t, createdMembership)
		assert.Equal(t, createdOrg.ID, createdMembership.OrganizationID)
		assert.Equal(t, userID, createdMembership.UserID)
		assert.Equal(t, domain.RoleOwner, createdMembership.Role)
		assert.True(t, createdMembership.Active)

		assert.Equal(t, createdOrg.ID, selectedOrg)
	})

	t.Run("invalid_slug_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{organizations: &mockOrgRepo{}, memberships: &mockMembershipRepo{}}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.PostCtx(userCtx(uuid.New()), "/organizations", map[string]any{
			"name": "Nyasa Traders",
			"slug": "Nyasa Traders!",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("duplicate_slug_conflicts", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			organizations: &mockOrgRepo{
				createFunc: func(_ context.Context, _ *domain.Organization) error {
					return domain.ErrConflict
				},
			},
			memberships: &mockMembershipRepo{},
		}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.PostCtx(userCtx(uuid.New()), "/organizations", map[string]any{
			"name": "Nyasa Traders",
			"slug": "nyasa-traders",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{organizations: &mockOrgRepo{}, memberships: &mockMembershipRepo{}}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.PostCtx(context.Background(), "/organizations", map[string]any{
			"name": "Nyasa Traders",
			"slug": "nyasa-traders",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /organizations/{id}/select
// ---------------------------------------------------------------------------

func TestSelectOrganization(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		orgID := uuid.New()
		_, api := humatest.New(t)
		manager := &mockTenantManager{
			selectFunc: func(_ context.Context, gotUser, gotOrg uuid.UUID) error {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, orgID, gotOrg)
				return nil
			},
		}
		v1.RegisterOrganizationRoutes(api, &mockDataStore{}, manager)

		resp := api.PostCtx(userCtx(userID), "/organizations/"+orgID.String()+"/select")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			OrganizationID uuid.UUID `json:"organization_id"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, orgID, body.OrganizationID)
	})

	t.Run("not_a_member", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		manager := &mockTenantManager{
			selectFunc: func(_ context.Context, _, _ uuid.UUID) error {
				return domain.ErrForbidden
			},
		}
		v1.RegisterOrganizationRoutes(api, &mockDataStore{}, manager)

		resp := api.PostCtx(userCtx(uuid.New()), "/organizations/"+uuid.NewString()+"/select")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("unknown_organization", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		manager := &mockTenantManager{
			selectFunc: func(_ context.Context, _, _ uuid.UUID) error {
				return domain.ErrNotFound
			},
		}
		v1.RegisterOrganizationRoutes(api, &mockDataStore{}, manager)

		resp := api.PostCtx(userCtx(uuid.New()), "/organizations/"+uuid.NewString()+"/select")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// DELETE /organizations/{id}
// ---------------------------------------------------------------------------

func TestDeactivateOrganization(t *testing.T) {
	t.Parallel()

	t.Run("owner_deactivates", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		orgID := uuid.New()
		deactivated := false
		cleared := false

		_, api := humatest.New(t)
		store := &mockDataStore{
			organizations: &mockOrgRepo{
				deactivateFunc: func(_ context.Context, id uuid.UUID) error {
					assert.Equal(t, orgID, id)
					deactivated = true
					return nil
				},
			},
			memberships: &mockMembershipRepo{
				getFunc: func(_ context.Context, gotOrg, gotUser uuid.UUID) (*domain.Membership, error) {
					assert.Equal(t, orgID, gotOrg)
					assert.Equal(t, userID, gotUser)
					return &domain.Membership{OrganizationID: orgID, UserID: userID, Role: domain.RoleOwner, Active: true}, nil
				},
			},
		}
		manager := &mockTenantManager{
			clearFunc: func(_ context.Context, gotUser uuid.UUID) error {
				assert.Equal(t, userID, gotUser)
				cleared = true
				return nil
			},
		}
		v1.RegisterOrganizationRoutes(api, store, manager)

		resp := api.DeleteCtx(userCtx(userID), "/organizations/"+orgID.String())
		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deactivated)
		assert.True(t, cleared)
	})

	t.Run("admin_is_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			organizations: &mockOrgRepo{},
			memberships: &mockMembershipRepo{
				getFunc: func(_ context.Context, orgID, userID uuid.UUID) (*domain.Membership, error) {
					return &domain.Membership{OrganizationID: orgID, UserID: userID, Role: domain.RoleAdmin, Active: true}, nil
				},
			},
		}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.DeleteCtx(userCtx(uuid.New()), "/organizations/"+uuid.NewString())
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("non_member_is_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			organizations: &mockOrgRepo{},
			memberships: &mockMembershipRepo{
				getFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Membership, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.DeleteCtx(userCtx(uuid.New()), "/organizations/"+uuid.NewString())
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

func TestAddMember(t *testing.T) {
	t.Parallel()

	t.Run("admin_adds_accountant", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		memberID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			users: &mockUserRepo{
				getByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
					assert.Equal(t, "grace@example.com", email)
					return &domain.User{ID: memberID, Email: email}, nil
				},
			},
			memberships: &mockMembershipRepo{
				createFunc: func(_ context.Context, m *domain.Membership) error {
					assert.Equal(t, orgID, m.OrganizationID)
					assert.Equal(t, memberID, m.UserID)
					assert.Equal(t, domain.RoleAccountant, m.Role)
					return nil
				},
			},
		}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.PostCtx(orgCtx(uuid.New(), orgID, domain.RoleAdmin), "/organizations/current/members", map[string]any{
			"email": "grace@example.com",
			"role":  "accountant",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("manager_cannot_add_members", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{users: &mockUserRepo{}, memberships: &mockMembershipRepo{}}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.PostCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleManager), "/organizations/current/members", map[string]any{
			"email": "grace@example.com",
			"role":  "user",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("only_owners_mint_owners", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{users: &mockUserRepo{}, memberships: &mockMembershipRepo{}}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.PostCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleAdmin), "/organizations/current/members", map[string]any{
			"email": "grace@example.com",
			"role":  "owner",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("unknown_email", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			users: &mockUserRepo{
				getByEmailFunc: func(_ context.Context, _ string) (*domain.User, error) {
					return nil, domain.ErrNotFound
				},
			},
			memberships: &mockMembershipRepo{},
		}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.PostCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleOwner), "/organizations/current/members", map[string]any{
			"email": "nobody@example.com",
			"role":  "user",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("already_a_member", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			users: &mockUserRepo{
				getByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
					return &domain.User{ID: uuid.New(), Email: email}, nil
				},
			},
			memberships: &mockMembershipRepo{
				createFunc: func(_ context.Context, _ *domain.Membership) error {
					return domain.ErrConflict
				},
			},
		}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.PostCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleOwner), "/organizations/current/members", map[string]any{
			"email": "grace@example.com",
			"role":  "user",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

func TestRemoveMember(t *testing.T) {
	t.Parallel()

	t.Run("admin_removes_user", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		targetID := uuid.New()
		removed := false
		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: &mockMembershipRepo{
				getFunc: func(_ context.Context, gotOrg, gotUser uuid.UUID) (*domain.Membership, error) {
					assert.Equal(t, orgID, gotOrg)
					assert.Equal(t, targetID, gotUser)
					return &domain.Membership{OrganizationID: orgID, UserID: targetID, Role: domain.RoleUser, Active: true}, nil
				},
				deactivateFunc: func(_ context.Context, _, _ uuid.UUID) error {
					removed = true
					return nil
				},
			},
		}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.DeleteCtx(orgCtx(uuid.New(), orgID, domain.RoleAdmin), "/organizations/current/members/"+targetID.String())
		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, removed)
	})

	t.Run("admin_cannot_remove_owner", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: &mockMembershipRepo{
				getFunc: func(_ context.Context, orgID, userID uuid.UUID) (*domain.Membership, error) {
					return &domain.Membership{OrganizationID: orgID, UserID: userID, Role: domain.RoleOwner, Active: true}, nil
				},
			},
		}
		v1.RegisterOrganizationRoutes(api, store, &mockTenantManager{})

		resp := api.DeleteCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleAdmin), "/organizations/current/members/"+uuid.NewString())
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /admin/organizations
// ---------------------------------------------------------------------------

func TestAdminListOrganizations(t *testing.T) {
	t.Parallel()

	t.Run("owner_lists_all", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			organizations: &mockOrgRepo{
				listFunc: func(_ context.Context) ([]*domain.Organization, error) {
					return []*domain.Organization{
						{ID: uuid.New(), Slug: "a"},
						{ID: uuid.New(), Slug: "b"},
					}, nil
				},
			},
		}
		v1.RegisterAdminRoutes(api, store)

		resp := api.GetCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleOwner), "/admin/organizations")
		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.Organization
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Len(t, body, 2)
	})

	t.Run("admin_is_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterAdminRoutes(api, &mockDataStore{})

		resp := api.GetCtx(orgCtx(uuid.New(), uuid.New(), domain.RoleAdmin), "/admin/organizations")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
