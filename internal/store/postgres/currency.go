package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/zathu/zathu/internal/domain"
)

type CurrencyRepo struct {
	pool *pgxpool.Pool
}

func NewCurrencyRepo(pool *pgxpool.Pool) *CurrencyRepo {
	return &CurrencyRepo{pool: pool}
}

func (r *CurrencyRepo) Create(ctx context.Context, scope domain.Scope, c *domain.Currency) error {
	if err := checkScope("currencyRepo.Create", scope); err != nil {
		return err
	}
	scope.Stamp(&c.OrganizationID)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO currencies (id, organization_id, code, symbol, exchange_rate, is_default, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.OrganizationID, c.Code, c.Symbol, c.ExchangeRate.String(), c.IsDefault, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("currencyRepo.Create: %w", err)
	}

	return nil
}

func (r *CurrencyRepo) GetByCode(ctx context.Context, scope domain.Scope, code string) (*domain.Currency, error) {
	if err := checkScope("currencyRepo.GetByCode", scope); err != nil {
		return nil, err
	}

	query := `SELECT id, organization_id, code, symbol, exchange_rate::text, is_default, created_at, updated_at
	          FROM currencies WHERE code = $1`
	args := []any{code}
	if !scope.All() {
		query += ` AND organization_id = $2`
		args = append(args, scope.OrganizationID())
	}

	c, err := scanCurrencyRow(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("currencyRepo.GetByCode: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("currencyRepo.GetByCode: %w", err)
	}

	return c, nil
}

func (r *CurrencyRepo) List(ctx context.Context, scope domain.Scope) ([]*domain.Currency, error) {
	if err := checkScope("currencyRepo.List", scope); err != nil {
		return nil, err
	}

	query := `SELECT id, organization_id, code, symbol, exchange_rate::text, is_default, created_at, updated_at
	          FROM currencies`
	var args []any
	if !scope.All() {
		query += ` WHERE organization_id = $1`
		args = append(args, scope.OrganizationID())
	}
	query += ` ORDER BY code LIMIT 200`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("currencyRepo.List: %w", err)
	}
	defer rows.Close()

	var currencies []*domain.Currency
	for rows.Next() {
		c, scanErr := scanCurrencyRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("currencyRepo.List: scan: %w", scanErr)
		}

		currencies = append(currencies, c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("currencyRepo.List: rows: %w", err)
	}

	return currencies, nil
}

// SetDefault flips the default flag atomically within the organization.
func (r *CurrencyRepo) SetDefault(ctx context.Context, scope domain.Scope, code string) error {
	if err := checkScope("currencyRepo.SetDefault", scope); err != nil {
		return err
	}
	if scope.All() {
		return fmt.Errorf("currencyRepo.SetDefault: requires a single organization: %w", domain.ErrForbidden)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("currencyRepo.SetDefault: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`UPDATE currencies SET is_default = false, updated_at = now()
		 WHERE organization_id = $1 AND is_default`,
		scope.OrganizationID(),
	)
	if err != nil {
		return fmt.Errorf("currencyRepo.SetDefault: clear: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE currencies SET is_default = true, updated_at = now()
		 WHERE organization_id = $1 AND code = $2`,
		scope.OrganizationID(), code,
	)
	if err != nil {
		return fmt.Errorf("currencyRepo.SetDefault: set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("currencyRepo.SetDefault: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("currencyRepo.SetDefault: commit: %w", err)
	}

	return nil
}

func scanCurrencyRow(row rowScanner) (*domain.Currency, error) {
	var (
		c       domain.Currency
		rateStr string
	)

	err := row.Scan(&c.ID, &c.OrganizationID, &c.Code, &c.Symbol, &rateStr, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.ExchangeRate, err = decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("parse exchange_rate %q: %w", rateStr, err)
	}

	return &c, nil
}
