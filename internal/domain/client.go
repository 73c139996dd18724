package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Client is a customer of an organization: the party an invoice is billed to.
type Client struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Email          string
	Phone          string
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ClientRepository interface {
	Create(ctx context.Context, scope Scope, c *Client) error
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*Client, error)
	List(ctx context.Context, scope Scope) ([]*Client, error)
	Update(ctx context.Context, scope Scope, c *Client) error
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
}
