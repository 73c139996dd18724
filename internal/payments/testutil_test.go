package payments_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zathu/zathu/internal/domain"
	"github.com/zathu/zathu/internal/gateway/paychangu"
)

// ---------------------------------------------------------------------------
// Mock PaymentRepository
// ---------------------------------------------------------------------------

type mockPaymentRepo struct {
	createFunc        func(ctx context.Context, scope domain.Scope, p *domain.Payment) error
	getByIDFunc       func(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.Payment, error)
	getByTxRefFunc    func(ctx context.Context, scope domain.Scope, txRef string) (*domain.Payment, error)
	listFunc          func(ctx context.Context, scope domain.Scope) ([]*domain.Payment, error)
	listByInvoiceFunc func(ctx context.Context, scope domain.Scope, invoiceID uuid.UUID) ([]*domain.Payment, error)
	markCompletedFunc func(ctx context.Context, scope domain.Scope, txRef string, upd domain.PaymentUpdate) error
	markFailedFunc    func(ctx context.Context, scope domain.Scope, txRef string, upd domain.PaymentUpdate) error
}

func (m *mockPaymentRepo) Create(ctx context.Context, scope domain.Scope, p *domain.Payment) error {
	return m.createFunc(ctx, scope, p)
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.Payment, error) {
	return m.getByIDFunc(ctx, scope, id)
}

func (m *mockPaymentRepo) GetByTxRef(ctx context.Context, scope domain.Scope, txRef string) (*domain.Payment, error) {
	return m.getByTxRefFunc(ctx, scope, txRef)
}

func (m *mockPaymentRepo) List(ctx context.Context, scope domain.Scope) ([]*domain.Payment, error) {
	return m.listFunc(ctx, scope)
}

func (m *mockPaymentRepo) ListByInvoice(ctx context.Context, scope domain.Scope, invoiceID uuid.UUID) ([]*domain.Payment, error) {
	return m.listByInvoiceFunc(ctx, scope, invoiceID)
}

func (m *mockPaymentRepo) MarkCompleted(ctx context.Context, scope domain.Scope, txRef string, upd domain.PaymentUpdate) error {
	return m.markCompletedFunc(ctx, scope, txRef, upd)
}

func (m *mockPaymentRepo) MarkFailed(ctx context.Context, scope domain.Scope, txRef string, upd domain.PaymentUpdate) error {
	return m.markFailedFunc(ctx, scope, txRef, upd)
}

// ---------------------------------------------------------------------------
// Mock InvoiceRepository
// ---------------------------------------------------------------------------

type mockInvoiceRepo struct {
	createFunc       func(ctx context.Context, scope domain.Scope, inv *domain.Invoice) error
	getByIDFunc      func(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.Invoice, error)
	listFunc         func(ctx context.Context, scope domain.Scope) ([]*domain.Invoice, error)
	listByClientFunc func(ctx context.Context, scope domain.Scope, clientID uuid.UUID) ([]*domain.Invoice, error)
	updateStatusFunc func(ctx context.Context, scope domain.Scope, id uuid.UUID, status domain.InvoiceStatus) error
}

func (m *mockInvoiceRepo) Create(ctx context.Context, scope domain.Scope, inv *domain.Invoice) error {
	return m.createFunc(ctx, scope, inv)
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.Invoice, error) {
	return m.getByIDFunc(ctx, scope, id)
}

func (m *mockInvoiceRepo) List(ctx context.Context, scope domain.Scope) ([]*domain.Invoice, error) {
	return m.listFunc(ctx, scope)
}

func (m *mockInvoiceRepo) ListByClient(ctx context.Context, scope domain.Scope, clientID uuid.UUID) ([]*domain.Invoice, error) {
	return m.listByClientFunc(ctx, scope, clientID)
}

func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, scope domain.Scope, id uuid.UUID, status domain.InvoiceStatus) error {
	return m.updateStatusFunc(ctx, scope, id, status)
}

// ---------------------------------------------------------------------------
// Mock Gateway
// ---------------------------------------------------------------------------

type mockGateway struct {
	initiateFunc func(ctx context.Context, req paychangu.InitiateRequest) (*paychangu.InitiateResponse, error)
	verifyFunc   func(ctx context.Context, txRef string) (*paychangu.VerifyResponse, error)
	balanceFunc  func(ctx context.Context, currency string) (*paychangu.Balance, error)
}

func (m *mockGateway) InitiatePayment(ctx context.Context, req paychangu.InitiateRequest) (*paychangu.InitiateResponse, error) {
	return m.initiateFunc(ctx, req)
}

func (m *mockGateway) VerifyPayment(ctx context.Context, txRef string) (*paychangu.VerifyResponse, error) {
	return m.verifyFunc(ctx, txRef)
}

func (m *mockGateway) WalletBalance(ctx context.Context, currency string) (*paychangu.Balance, error) {
	return m.balanceFunc(ctx, currency)
}

// ---------------------------------------------------------------------------
// Mock Notifier
// ---------------------------------------------------------------------------

type mockNotifier struct {
	completed []*domain.Payment
	err       error
}

func (m *mockNotifier) PaymentCompleted(_ context.Context, p *domain.Payment) error {
	m.completed = append(m.completed, p)
	return m.err
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func sentInvoice(orgID uuid.UUID) *domain.Invoice {
	return &domain.Invoice{
		ID:             uuid.New(),
		OrganizationID: orgID,
		ClientID:       uuid.New(),
		Number:         7,
		Status:         domain.InvoiceStatusSent,
		Currency:       "MWK",
		Total:          decimal.RequireFromString("1500.00"),
	}
}

func pendingPayment(orgID uuid.UUID, txRef string) *domain.Payment {
	return &domain.Payment{
		ID:             uuid.New(),
		OrganizationID: orgID,
		InvoiceID:      uuid.New(),
		Amount:         decimal.RequireFromString("1500.00"),
		Currency:       "MWK",
		TxRef:          txRef,
		Gateway:        paychangu.GatewayName,
		Status:         domain.PaymentStatusPending,
	}
}
