package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/zathu/zathu/internal/domain"
)

type CreateClientInput struct {
	Body struct {
		Name    string `json:"name" minLength:"1" maxLength:"255" doc:"Client name"`
		Email   string `json:"email,omitempty" maxLength:"255" doc:"Contact email"`
		Phone   string `json:"phone,omitempty" maxLength:"32" doc:"Contact phone"`
		Address string `json:"address,omitempty" maxLength:"1024" doc:"Postal address"`
	}
}

type CreateClientOutput struct {
	Body *domain.Client
}

type ListClientsInput struct{}

type ListClientsOutput struct {
	Body []*domain.Client
}

type GetClientInput struct {
	ID uuid.UUID `path:"id" doc:"Client ID"`
}

type GetClientOutput struct {
	Body *domain.Client
}

type UpdateClientInput struct {
	ID   uuid.UUID `path:"id" doc:"Client ID"`
	Body struct {
		Name    string `json:"name,omitempty" maxLength:"255" doc:"Client name"`
		Email   string `json:"email,omitempty" maxLength:"255" doc:"Contact email"`
		Phone   string `json:"phone,omitempty" maxLength:"32" doc:"Contact phone"`
		Address string `json:"address,omitempty" maxLength:"1024" doc:"Postal address"`
	}
}

type UpdateClientOutput struct {
	Body *domain.Client
}

type DeleteClientInput struct {
	ID uuid.UUID `path:"id" doc:"Client ID"`
}

func RegisterClientRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-client",
		Method:      http.MethodPost,
		Path:        "/clients",
		Summary:     "Create a client",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *CreateClientInput) (*CreateClientOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		c := &domain.Client{
			ID:        uuid.New(),
			Name:      input.Body.Name,
			Email:     input.Body.Email,
			Phone:     input.Body.Phone,
			Address:   input.Body.Address,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Clients().Create(ctx, scope, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create client", err)
		}

		return &CreateClientOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/clients",
		Summary:     "List clients in the current organization",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, _ *ListClientsInput) (*ListClientsOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		clients, err := store.Clients().List(ctx, scope)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list clients", err)
		}

		return &ListClientsOutput{Body: clients}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-client",
		Method:      http.MethodGet,
		Path:        "/clients/{id}",
		Summary:     "Get a client by ID",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *GetClientInput) (*GetClientOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		c, err := store.Clients().GetByID(ctx, scope, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			return nil, huma.Error500InternalServerError("failed to get client", err)
		}

		return &GetClientOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-client",
		Method:      http.MethodPut,
		Path:        "/clients/{id}",
		Summary:     "Update a client",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *UpdateClientInput) (*UpdateClientOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Clients().GetByID(ctx, scope, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			return nil, huma.Error500InternalServerError("failed to get client", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Email != "" {
			existing.Email = input.Body.Email
		}
		if input.Body.Phone != "" {
			existing.Phone = input.Body.Phone
		}
		if input.Body.Address != "" {
			existing.Address = input.Body.Address
		}

		if err := store.Clients().Update(ctx, scope, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update client", err)
		}

		return &UpdateClientOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-client",
		Method:      http.MethodDelete,
		Path:        "/clients/{id}",
		Summary:     "Delete a client",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *DeleteClientInput) (*struct{}, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		if err := store.Clients().Delete(ctx, scope, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("client has invoices")
			}
			return nil, huma.Error500InternalServerError("failed to delete client", err)
		}

		return nil, nil
	})
}
