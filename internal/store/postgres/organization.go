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

type OrganizationRepo struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepo(pool *pgxpool.Pool) *OrganizationRepo {
	return &OrganizationRepo{pool: pool}
}

func (r *OrganizationRepo) Create(ctx context.Context, o *domain.Organization) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO organizations (id, name, slug, billing_email, billing_phone, address, active, settings, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.Name, o.Slug, o.BillingEmail, o.BillingPhone, o.Address, o.Active, o.Settings, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("organizationRepo.Create: %w", err)
	}

	return nil
}

func (r *OrganizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	var o domain.Organization

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, billing_email, billing_phone, address, active, settings, created_at, updated_at
		 FROM organizations WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.Name, &o.Slug, &o.BillingEmail, &o.BillingPhone, &o.Address, &o.Active, &o.Settings, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("organizationRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("organizationRepo.GetByID: %w", err)
	}

	return &o, nil
}

func (r *OrganizationRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	var o domain.Organization

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, billing_email, billing_phone, address, active, settings, created_at, updated_at
		 FROM organizations WHERE slug = $1`,
		slug,
	).Scan(&o.ID, &o.Name, &o.Slug, &o.BillingEmail, &o.BillingPhone, &o.Address, &o.Active, &o.Settings, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("organizationRepo.GetBySlug: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("organizationRepo.GetBySlug: %w", err)
	}

	return &o, nil
}

func (r *OrganizationRepo) Update(ctx context.Context, o *domain.Organization) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations SET name = $1, slug = $2, billing_email = $3, billing_phone = $4, address = $5, settings = $6, updated_at = now()
		 WHERE id = $7`,
		o.Name, o.Slug, o.BillingEmail, o.BillingPhone, o.Address, o.Settings, o.ID,
	)
	if err != nil {
		return fmt.Errorf("organizationRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("organizationRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *OrganizationRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations SET active = false, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("organizationRepo.Deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("organizationRepo.Deactivate: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *OrganizationRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, billing_email, billing_phone, address, active, settings, created_at, updated_at
		 FROM organizations ORDER BY created_at
		 LIMIT 500`,
	)
	if err != nil {
		return nil, fmt.Errorf("organizationRepo.List: %w", err)
	}
	defer rows.Close()

	return scanOrganizations(rows, "organizationRepo.List")
}

func (r *OrganizationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Organization, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.name, o.slug, o.billing_email, o.billing_phone, o.address, o.active, o.settings, o.created_at, o.updated_at
		 FROM organizations o
		 JOIN memberships m ON m.organization_id = o.id
		 WHERE m.user_id = $1 AND m.active
		 ORDER BY m.created_at, m.id
		 LIMIT 100`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("organizationRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	return scanOrganizations(rows, "organizationRepo.ListByUser")
}

func scanOrganizations(rows pgx.Rows, op string) ([]*domain.Organization, error) {
	var orgs []*domain.Organization
	for rows.Next() {
		var o domain.Organization

		err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.BillingEmail, &o.BillingPhone, &o.Address, &o.Active, &o.Settings, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		orgs = append(orgs, &o)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return orgs, nil
}
