package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zathu/zathu/internal/domain"
)

type ClientRepo struct {
	pool *pgxpool.Pool
}

func NewClientRepo(pool *pgxpool.Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

func (r *ClientRepo) Create(ctx context.Context, scope domain.Scope, c *domain.Client) error {
	if err := checkScope("clientRepo.Create", scope); err != nil {
		return err
	}
	scope.Stamp(&c.OrganizationID)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO clients (id, organization_id, name, email, phone, address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.OrganizationID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("clientRepo.Create: %w", err)
	}

	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.Client, error) {
	if err := checkScope("clientRepo.GetByID", scope); err != nil {
		return nil, err
	}

	query := `SELECT id, organization_id, name, email, phone, address, created_at, updated_at
	          FROM clients WHERE id = $1`
	args := []any{id}
	if !scope.All() {
		query += ` AND organization_id = $2`
		args = append(args, scope.OrganizationID())
	}

	var c domain.Client

	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context, scope domain.Scope) ([]*domain.Client, error) {
	if err := checkScope("clientRepo.List", scope); err != nil {
		return nil, err
	}

	query := `SELECT id, organization_id, name, email, phone, address, created_at, updated_at
	          FROM clients`
	var args []any
	if !scope.All() {
		query += ` WHERE organization_id = $1`
		args = append(args, scope.OrganizationID())
	}
	query += ` ORDER BY name LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var c domain.Client

		err = rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("clientRepo.List: scan: %w", err)
		}

		clients = append(clients, &c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: rows: %w", err)
	}

	return clients, nil
}

func (r *ClientRepo) Update(ctx context.Context, scope domain.Scope, c *domain.Client) error {
	if err := checkScope("clientRepo.Update", scope); err != nil {
		return err
	}

	query := `UPDATE clients SET name = $1, email = $2, phone = $3, address = $4, updated_at = now()
	          WHERE id = $5`
	args := []any{c.Name, c.Email, c.Phone, c.Address, c.ID}
	if !scope.All() {
		query += ` AND organization_id = $6`
		args = append(args, scope.OrganizationID())
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clientRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ClientRepo) Delete(ctx context.Context, scope domain.Scope, id uuid.UUID) error {
	if err := checkScope("clientRepo.Delete", scope); err != nil {
		return err
	}

	query := `DELETE FROM clients WHERE id = $1`
	args := []any{id}
	if !scope.All() {
		query += ` AND organization_id = $2`
		args = append(args, scope.OrganizationID())
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("clientRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clientRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
