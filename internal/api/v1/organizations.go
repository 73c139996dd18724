package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/zathu/zathu/internal/domain"
	"github.com/zathu/zathu/internal/tenant"
)

type CreateOrganizationInput struct {
	Body struct {
		Name         string `json:"name" minLength:"1" maxLength:"255" doc:"Organization name"`
		Slug         string `json:"slug" minLength:"1" maxLength:"63" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-safe slug (lowercase alphanumeric with hyphens)"`
		BillingEmail string `json:"billing_email,omitempty" maxLength:"255" doc:"Billing email"`
		BillingPhone string `json:"billing_phone,omitempty" maxLength:"32" doc:"Billing phone"`
		Address      string `json:"address,omitempty" maxLength:"1024" doc:"Postal address"`
	}
}

type CreateOrganizationOutput struct {
	Body *domain.Organization
}

type ListOrganizationsInput struct{}

type ListOrganizationsOutput struct {
	Body []*domain.Organization
}

type GetCurrentOrganizationOutput struct {
	Body *domain.Organization
}

type UpdateOrganizationInput struct {
	Body struct {
		Name         string `json:"name,omitempty" maxLength:"255" doc:"Organization name"`
		BillingEmail string `json:"billing_email,omitempty" maxLength:"255" doc:"Billing email"`
		BillingPhone string `json:"billing_phone,omitempty" maxLength:"32" doc:"Billing phone"`
		Address      string `json:"address,omitempty" maxLength:"1024" doc:"Postal address"`
	}
}

type UpdateOrganizationOutput struct {
	Body *domain.Organization
}

type SelectOrganizationInput struct {
	ID uuid.UUID `path:"id" doc:"Organization ID"`
}

type SelectOrganizationOutput struct {
	Body struct {
		OrganizationID uuid.UUID `json:"organization_id"`
	}
}

type DeactivateOrganizationInput struct {
	ID uuid.UUID `path:"id" doc:"Organization ID"`
}

type ListMembersInput struct{}

type ListMembersOutput struct {
	Body []*domain.Membership
}

type AddMemberInput struct {
	Body struct {
		Email string `json:"email" minLength:"3" maxLength:"255" doc:"Email of the user to add"`
		Role  string `json:"role" enum:"owner,admin,manager,accountant,user" doc:"Role in the organization"`
	}
}

type AddMemberOutput struct {
	Body *domain.Membership
}

type RemoveMemberInput struct {
	UserID uuid.UUID `path:"userID" doc:"User ID of the member to remove"`
}

func RegisterOrganizationRoutes(api huma.API, store DataStore, manager TenantManager) {
	huma.Register(api, huma.Operation{
		OperationID: "create-organization",
		Method:      http.MethodPost,
		Path:        "/organizations",
		Summary:     "Create an organization",
		Description: "Creates an organization with the caller as owner and selects it as the caller's current organization.",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *CreateOrganizationInput) (*CreateOrganizationOutput, error) {
		userID, err := userIDFrom(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		org := &domain.Organization{
			ID:           uuid.New(),
			Name:         input.Body.Name,
			Slug:         input.Body.Slug,
			BillingEmail: input.Body.BillingEmail,
			BillingPhone: input.Body.BillingPhone,
			Address:      input.Body.Address,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := store.Organizations().Create(ctx, org); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("slug already taken")
			}
			return nil, huma.Error500InternalServerError("failed to create organization", err)
		}

		membership := &domain.Membership{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			UserID:         userID,
			Role:           domain.RoleOwner,
			Active:         true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := store.Memberships().Create(ctx, membership); err != nil {
			return nil, huma.Error500InternalServerError("failed to create owner membership", err)
		}

		if err := manager.Select(ctx, userID, org.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to select organization", err)
		}

		return &CreateOrganizationOutput{Body: org}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-organizations",
		Method:      http.MethodGet,
		Path:        "/organizations",
		Summary:     "List the caller's organizations",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, _ *ListOrganizationsInput) (*ListOrganizationsOutput, error) {
		userID, err := userIDFrom(ctx)
		if err != nil {
			return nil, err
		}

		orgs, err := store.Organizations().ListByUser(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list organizations", err)
		}

		return &ListOrganizationsOutput{Body: orgs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-current-organization",
		Method:      http.MethodGet,
		Path:        "/organizations/current",
		Summary:     "Get the caller's current organization",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, _ *struct{}) (*GetCurrentOrganizationOutput, error) {
		orgID, ok := tenant.OrganizationFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("no organization selected")
		}

		org, err := store.Organizations().GetByID(ctx, orgID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get organization", err)
		}

		return &GetCurrentOrganizationOutput{Body: org}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-organization",
		Method:      http.MethodPut,
		Path:        "/organizations/current",
		Summary:     "Update the current organization",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *UpdateOrganizationInput) (*UpdateOrganizationOutput, error) {
		orgID, ok := tenant.OrganizationFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("no organization selected")
		}

		role, err := roleFrom(ctx)
		if err != nil {
			return nil, err
		}
		if !role.AtLeast(domain.RoleAdmin) {
			return nil, huma.Error403Forbidden("admin role required")
		}

		org, err := store.Organizations().GetByID(ctx, orgID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get organization", err)
		}

		if input.Body.Name != "" {
			org.Name = input.Body.Name
		}
		if input.Body.BillingEmail != "" {
			org.BillingEmail = input.Body.BillingEmail
		}
		if input.Body.BillingPhone != "" {
			org.BillingPhone = input.Body.BillingPhone
		}
		if input.Body.Address != "" {
			org.Address = input.Body.Address
		}

		if err := store.Organizations().Update(ctx, org); err != nil {
			return nil, huma.Error500InternalServerError("failed to update organization", err)
		}

		return &UpdateOrganizationOutput{Body: org}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "select-organization",
		Method:      http.MethodPost,
		Path:        "/organizations/{id}/select",
		Summary:     "Switch the caller's current organization",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *SelectOrganizationInput) (*SelectOrganizationOutput, error) {
		userID, err := userIDFrom(ctx)
		if err != nil {
			return nil, err
		}

		if err := manager.Select(ctx, userID, input.ID); err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return nil, huma.Error403Forbidden("not a member of this organization")
			}
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("organization not found")
			}
			return nil, huma.Error500InternalServerError("failed to select organization", err)
		}

		out := &SelectOrganizationOutput{}
		out.Body.OrganizationID = input.ID
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "deactivate-organization",
		Method:      http.MethodDelete,
		Path:        "/organizations/{id}",
		Summary:     "Deactivate an organization",
		Description: "Soft-deletes the organization. Owner only. Data is retained; members can no longer select it.",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *DeactivateOrganizationInput) (*struct{}, error) {
		userID, err := userIDFrom(ctx)
		if err != nil {
			return nil, err
		}

		membership, err := store.Memberships().Get(ctx, input.ID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error403Forbidden("not a member of this organization")
			}
			return nil, huma.Error500InternalServerError("failed to check membership", err)
		}
		if membership.Role != domain.RoleOwner {
			return nil, huma.Error403Forbidden("owner role required")
		}

		if err := store.Organizations().Deactivate(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("organization not found")
			}
			return nil, huma.Error500InternalServerError("failed to deactivate organization", err)
		}

		if err := manager.Clear(ctx, userID); err != nil {
			return nil, huma.Error500InternalServerError("failed to clear organization selection", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-members",
		Method:      http.MethodGet,
		Path:        "/organizations/current/members",
		Summary:     "List members of the current organization",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, _ *ListMembersInput) (*ListMembersOutput, error) {
		orgID, ok := tenant.OrganizationFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("no organization selected")
		}

		members, err := store.Memberships().ListByOrganization(ctx, orgID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}

		return &ListMembersOutput{Body: members}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-member",
		Method:      http.MethodPost,
		Path:        "/organizations/current/members",
		Summary:     "Add a member to the current organization",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *AddMemberInput) (*AddMemberOutput, error) {
		orgID, ok := tenant.OrganizationFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("no organization selected")
		}

		role, err := roleFrom(ctx)
		if err != nil {
			return nil, err
		}
		if !role.AtLeast(domain.RoleAdmin) {
			return nil, huma.Error403Forbidden("admin role required")
		}

		newRole := domain.Role(input.Body.Role)
		if !newRole.Valid() {
			return nil, huma.Error400BadRequest("unknown role")
		}
		// Only owners can mint other owners.
		if newRole == domain.RoleOwner && role != domain.RoleOwner {
			return nil, huma.Error403Forbidden("owner role required to add an owner")
		}

		user, err := store.Users().GetByEmail(ctx, input.Body.Email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("no user with that email")
			}
			return nil, huma.Error500InternalServerError("failed to look up user", err)
		}

		now := time.Now()
		membership := &domain.Membership{
			ID:             uuid.New(),
			OrganizationID: orgID,
			UserID:         user.ID,
			Role:           newRole,
			Active:         true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := store.Memberships().Create(ctx, membership); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("user is already a member")
			}
			return nil, huma.Error500InternalServerError("failed to add member", err)
		}

		return &AddMemberOutput{Body: membership}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-member",
		Method:      http.MethodDelete,
		Path:        "/organizations/current/members/{userID}",
		Summary:     "Remove a member from the current organization",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
		orgID, ok := tenant.OrganizationFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("no organization selected")
		}

		role, err := roleFrom(ctx)
		if err != nil {
			return nil, err
		}
		if !role.AtLeast(domain.RoleAdmin) {
			return nil, huma.Error403Forbidden("admin role required")
		}

		target, err := store.Memberships().Get(ctx, orgID, input.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("membership not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up membership", err)
		}
		if target.Role == domain.RoleOwner && role != domain.RoleOwner {
			return nil, huma.Error403Forbidden("owner role required to remove an owner")
		}

		if err := store.Memberships().Deactivate(ctx, orgID, input.UserID); err != nil {
			return nil, huma.Error500InternalServerError("failed to remove member", err)
		}

		return nil, nil
	})
}

// RegisterAdminRoutes exposes cross-organization listings for self-hosted
// operators. Callers must hold the owner role in their current organization.
func RegisterAdminRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-organizations",
		Method:      http.MethodGet,
		Path:        "/admin/organizations",
		Summary:     "List every organization",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*ListOrganizationsOutput, error) {
		role, err := roleFrom(ctx)
		if err != nil {
			return nil, err
		}
		if role != domain.RoleOwner {
			return nil, huma.Error403Forbidden("owner role required")
		}

		orgs, err := store.Organizations().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list organizations", err)
		}

		return &ListOrganizationsOutput{Body: orgs}, nil
	})
}
