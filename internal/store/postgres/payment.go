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

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `id, organization_id, invoice_id, amount::text, currency, tx_ref, gateway, status,
	gateway_ref, channel, customer_name, customer_email, raw_response, completed_at, failed_at, created_at, updated_at`

func (r *PaymentRepo) Create(ctx context.Context, scope domain.Scope, p *domain.Payment) error {
	if err := checkScope("paymentRepo.Create", scope); err != nil {
		return err
	}
	scope.Stamp(&p.OrganizationID)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO payments (id, organization_id, invoice_id, amount, currency, tx_ref, gateway, status,
		                       gateway_ref, channel, customer_name, customer_email, raw_response, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.OrganizationID, p.InvoiceID, p.Amount.String(), p.Currency, p.TxRef, p.Gateway, p.Status,
		p.GatewayRef, p.Channel, p.CustomerName, p.CustomerEmail, p.RawResponse, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}

	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.Payment, error) {
	if err := checkScope("paymentRepo.GetByID", scope); err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	args := []any{id}
	if !scope.All() {
		query += ` AND organization_id = $2`
		args = append(args, scope.OrganizationID())
	}

	p, err := scanPaymentRow(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}

	return p, nil
}

func (r *PaymentRepo) GetByTxRef(ctx context.Context, scope domain.Scope, txRef string) (*domain.Payment, error) {
	if err := checkScope("paymentRepo.GetByTxRef", scope); err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tx_ref = $1`
	args := []any{txRef}
	if !scope.All() {
		query += ` AND organization_id = $2`
		args = append(args, scope.OrganizationID())
	}

	p, err := scanPaymentRow(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("paymentRepo.GetByTxRef: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.GetByTxRef: %w", err)
	}

	return p, nil
}

func (r *PaymentRepo) List(ctx context.Context, scope domain.Scope) ([]*domain.Payment, error) {
	if err := checkScope("paymentRepo.List", scope); err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments`
	var args []any
	if !scope.All() {
		query += ` WHERE organization_id = $1`
		args = append(args, scope.OrganizationID())
	}
	query += ` ORDER BY created_at DESC LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.List: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows, "paymentRepo.List")
}

func (r *PaymentRepo) ListByInvoice(ctx context.Context, scope domain.Scope, invoiceID uuid.UUID) ([]*domain.Payment, error) {
	if err := checkScope("paymentRepo.ListByInvoice", scope); err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1`
	args := []any{invoiceID}
	if !scope.All() {
		query += ` AND organization_id = $2`
		args = append(args, scope.OrganizationID())
	}
	query += ` ORDER BY created_at DESC LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByInvoice: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows, "paymentRepo.ListByInvoice")
}

// MarkCompleted applies the terminal completed state. The update is
// unconditional on current status: the gateway's latest word wins.
func (r *PaymentRepo) MarkCompleted(ctx context.Context, scope domain.Scope, txRef string, upd domain.PaymentUpdate) error {
	if err := checkScope("paymentRepo.MarkCompleted", scope); err != nil {
		return err
	}

	query := `UPDATE payments SET status = 'completed', gateway_ref = $1, channel = $2,
	                 customer_name = $3, customer_email = $4, raw_response = $5,
	                 completed_at = $6, failed_at = NULL, updated_at = now()
	          WHERE tx_ref = $7`
	args := []any{upd.GatewayRef, upd.Channel, upd.CustomerName, upd.CustomerEmail, upd.RawPayload, upd.At, txRef}
	if !scope.All() {
		query += ` AND organization_id = $8`
		args = append(args, scope.OrganizationID())
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("paymentRepo.MarkCompleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("paymentRepo.MarkCompleted: %w", domain.ErrNotFound)
	}

	return nil
}

// MarkFailed applies the terminal failed state, also last-write-wins.
func (r *PaymentRepo) MarkFailed(ctx context.Context, scope domain.Scope, txRef string, upd domain.PaymentUpdate) error {
	if err := checkScope("paymentRepo.MarkFailed", scope); err != nil {
		return err
	}

	query := `UPDATE payments SET status = 'failed', raw_response = $1, failed_at = $2, updated_at = now()
	          WHERE tx_ref = $3`
	args := []any{upd.RawPayload, upd.At, txRef}
	if !scope.All() {
		query += ` AND organization_id = $4`
		args = append(args, scope.OrganizationID())
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("paymentRepo.MarkFailed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("paymentRepo.MarkFailed: %w", domain.ErrNotFound)
	}

	return nil
}

func scanPaymentRow(row rowScanner) (*domain.Payment, error) {
	var (
		p         domain.Payment
		amountStr string
	)

	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.InvoiceID, &amountStr, &p.Currency, &p.TxRef, &p.Gateway, &p.Status,
		&p.GatewayRef, &p.Channel, &p.CustomerName, &p.CustomerEmail, &p.RawResponse,
		&p.CompletedAt, &p.FailedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amountStr, err)
	}

	return &p, nil
}

func scanPayments(rows pgx.Rows, op string) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		payments = append(payments, p)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return payments, nil
}
