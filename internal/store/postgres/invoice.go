package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/zathu/zathu/internal/domain"
)

type InvoiceRepo struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepo(pool *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

func (r *InvoiceRepo) Create(ctx context.Context, scope domain.Scope, inv *domain.Invoice) error {
	if err := checkScope("invoiceRepo.Create", scope); err != nil {
		return err
	}
	scope.Stamp(&inv.OrganizationID)

	// The invoice number is a per-organization sequence assigned inside the
	// insert so concurrent creates in different organizations never contend.
	err := r.pool.QueryRow(ctx,
		`INSERT INTO invoices (id, organization_id, client_id, number, status, currency, total, issued_at, due_at, notes, created_at, updated_at)
		 VALUES ($1, $2, $3,
		         (SELECT COALESCE(MAX(number), 0) + 1 FROM invoices WHERE organization_id = $2),
		         $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING number`,
		inv.ID, inv.OrganizationID, inv.ClientID, inv.Status, inv.Currency,
		inv.Total.String(), inv.IssuedAt, inv.DueAt, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.Number)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}

	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.Invoice, error) {
	if err := checkScope("invoiceRepo.GetByID", scope); err != nil {
		return nil, err
	}

	query := `SELECT id, organization_id, client_id, number, status, currency, total::text, issued_at, due_at, notes, created_at, updated_at
	          FROM invoices WHERE id = $1`
	args := []any{id}
	if !scope.All() {
		query += ` AND organization_id = $2`
		args = append(args, scope.OrganizationID())
	}

	inv, err := scanInvoiceRow(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}

	return inv, nil
}

func (r *InvoiceRepo) List(ctx context.Context, scope domain.Scope) ([]*domain.Invoice, error) {
	if err := checkScope("invoiceRepo.List", scope); err != nil {
		return nil, err
	}

	query := `SELECT id, organization_id, client_id, number, status, currency, total::text, issued_at, due_at, notes, created_at, updated_at
	          FROM invoices`
	var args []any
	if !scope.All() {
		query += ` WHERE organization_id = $1`
		args = append(args, scope.OrganizationID())
	}
	query += ` ORDER BY number DESC LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	defer rows.Close()

	return scanInvoices(rows, "invoiceRepo.List")
}

func (r *InvoiceRepo) ListByClient(ctx context.Context, scope domain.Scope, clientID uuid.UUID) ([]*domain.Invoice, error) {
	if err := checkScope("invoiceRepo.ListByClient", scope); err != nil {
		return nil, err
	}

	query := `SELECT id, organization_id, client_id, number, status, currency, total::text, issued_at, due_at, notes, created_at, updated_at
	          FROM invoices WHERE client_id = $1`
	args := []any{clientID}
	if !scope.All() {
		query += ` AND organization_id = $2`
		args = append(args, scope.OrganizationID())
	}
	query += ` ORDER BY number DESC LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListByClient: %w", err)
	}
	defer rows.Close()

	return scanInvoices(rows, "invoiceRepo.ListByClient")
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, scope domain.Scope, id uuid.UUID, status domain.InvoiceStatus) error {
	if err := checkScope("invoiceRepo.UpdateStatus", scope); err != nil {
		return err
	}

	query := `UPDATE invoices SET status = $1, updated_at = now() WHERE id = $2`
	args := []any{status, id}
	if !scope.All() {
		query += ` AND organization_id = $3`
		args = append(args, scope.OrganizationID())
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoiceRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoiceRow(row rowScanner) (*domain.Invoice, error) {
	var (
		inv      domain.Invoice
		totalStr string
	)

	err := row.Scan(
		&inv.ID, &inv.OrganizationID, &inv.ClientID, &inv.Number, &inv.Status,
		&inv.Currency, &totalStr, &inv.IssuedAt, &inv.DueAt, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.Total, err = decimal.NewFromString(totalStr)
	if err != nil {
		return nil, fmt.Errorf("parse total %q: %w", totalStr, err)
	}

	return &inv, nil
}

func scanInvoices(rows pgx.Rows, op string) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	for rows.Next() {
		inv, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		invoices = append(invoices, inv)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return invoices, nil
}
