package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zathu/zathu/internal/domain"
)

type Store struct {
	pool        *pgxpool.Pool
	orgs        *OrganizationRepo
	memberships *MembershipRepo
	users       *UserRepo
	clients     *ClientRepo
	invoices    *InvoiceRepo
	currencies  *CurrencyRepo
	payments    *PaymentRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		orgs:        NewOrganizationRepo(pool),
		memberships: NewMembershipRepo(pool),
		users:       NewUserRepo(pool),
		clients:     NewClientRepo(pool),
		invoices:    NewInvoiceRepo(pool),
		currencies:  NewCurrencyRepo(pool),
		payments:    NewPaymentRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Organizations() domain.OrganizationRepository { return s.orgs }
func (s *Store) Memberships() domain.MembershipRepository     { return s.memberships }
func (s *Store) Users() domain.UserRepository                 { return s.users }
func (s *Store) Clients() domain.ClientRepository             { return s.clients }
func (s *Store) Invoices() domain.InvoiceRepository           { return s.invoices }
func (s *Store) Currencies() domain.CurrencyRepository        { return s.currencies }
func (s *Store) Payments() domain.PaymentRepository           { return s.payments }

// checkScope rejects the zero Scope before it reaches SQL. A query may only
// run unfiltered when the caller asked for domain.AllOrganizations by name.
func checkScope(op string, scope domain.Scope) error {
	if !scope.Valid() {
		return fmt.Errorf("%s: empty scope: %w", op, domain.ErrForbidden)
	}
	return nil
}
