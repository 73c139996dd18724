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

type MembershipRepo struct {
	pool *pgxpool.Pool
}

func NewMembershipRepo(pool *pgxpool.Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

func (r *MembershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO memberships (id, organization_id, user_id, role, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.OrganizationID, m.UserID, m.Role, m.Active, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("membershipRepo.Create: %w", err)
	}

	return nil
}

func (r *MembershipRepo) Get(ctx context.Context, orgID, userID uuid.UUID) (*domain.Membership, error) {
	var m domain.Membership

	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, user_id, role, active, created_at, updated_at
		 FROM memberships WHERE organization_id = $1 AND user_id = $2`,
		orgID, userID,
	).Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("membershipRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.Get: %w", err)
	}

	return &m, nil
}

// FirstActiveForUser orders by (created_at, id) so organization auto-selection
// is deterministic across calls.
func (r *MembershipRepo) FirstActiveForUser(ctx context.Context, userID uuid.UUID) (*domain.Membership, error) {
	var m domain.Membership

	err := r.pool.QueryRow(ctx,
		`SELECT m.id, m.organization_id, m.user_id, m.role, m.active, m.created_at, m.updated_at
		 FROM memberships m
		 JOIN organizations o ON o.id = m.organization_id
		 WHERE m.user_id = $1 AND m.active AND o.active
		 ORDER BY m.created_at, m.id
		 LIMIT 1`,
		userID,
	).Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("membershipRepo.FirstActiveForUser: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.FirstActiveForUser: %w", err)
	}

	return &m, nil
}

func (r *MembershipRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Membership, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organization_id, user_id, role, active, created_at, updated_at
		 FROM memberships WHERE organization_id = $1
		 ORDER BY created_at, id
		 LIMIT 500`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListByOrganization: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows, "membershipRepo.ListByOrganization")
}

func (r *MembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Membership, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organization_id, user_id, role, active, created_at, updated_at
		 FROM memberships WHERE user_id = $1
		 ORDER BY created_at, id
		 LIMIT 100`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows, "membershipRepo.ListByUser")
}

func (r *MembershipRepo) Deactivate(ctx context.Context, orgID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE memberships SET active = false, updated_at = now()
		 WHERE organization_id = $1 AND user_id = $2`,
		orgID, userID,
	)
	if err != nil {
		return fmt.Errorf("membershipRepo.Deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("membershipRepo.Deactivate: %w", domain.ErrNotFound)
	}

	return nil
}

func scanMemberships(rows pgx.Rows, op string) ([]*domain.Membership, error) {
	var memberships []*domain.Membership
	for rows.Next() {
		var m domain.Membership

		err := rows.Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.Active, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		memberships = append(memberships, &m)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return memberships, nil
}
