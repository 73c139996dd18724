package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/zathu/zathu/internal/domain"
	"github.com/zathu/zathu/internal/gateway/paychangu"
	"github.com/zathu/zathu/internal/payments"
	"github.com/zathu/zathu/internal/server/middleware"
	"github.com/zathu/zathu/internal/tenant"
)

// ---------------------------------------------------------------------------
// Context helpers: inject user/organization/role into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	return ctx
}

func orgCtx(userID, orgID uuid.UUID, role domain.Role) context.Context {
	ctx := userCtx(userID)
	ctx = tenant.WithOrganization(ctx, orgID)
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, role)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	organizations domain.OrganizationRepository
	memberships   domain.MembershipRepository
	users         domain.UserRepository
	clients       domain.ClientRepository
	invoices      domain.InvoiceRepository
	currencies    domain.CurrencyRepository
	payments      domain.PaymentRepository
}

func (m *mockDataStore) Organizations() domain.OrganizationRepository { return m.organizations }
func (m *mockDataStore) Memberships() domain.MembershipRepository     { return m.memberships }
func (m *mockDataStore) Users() domain.UserRepository                 { return m.users }
func (m *mockDataStore) Clients() domain.ClientRepository             { return m.clients }
func (m *mockDataStore) Invoices() domain.InvoiceRepository           { return m.invoices }
func (m *mockDataStore) Currencies() domain.CurrencyRepository        { return m.currencies }
func (m *mockDataStore) Payments() domain.PaymentRepository           { return m.payments }

// ---------------------------------------------------------------------------
// Mock OrganizationRepository
// ---------------------------------------------------------------------------

type mockOrgRepo struct {
	createFunc     func(ctx context.Context, o *domain.Organization) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	getBySlugFunc  func(ctx context.Context, slug string) (*domain.Organization, error)
	updateFunc     func(ctx context.Context, o *domain.Organization) error
	deactivateFunc func(ctx context.Context, id uuid.UUID) error
	listFunc       func(ctx context.Context) ([]*domain.Organization, error)
	listByUserFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.Organization, error)
}

func (m *mockOrgRepo) Create(ctx context.Context, o *domain.Organization) error {
	return m.createFunc(ctx, o)
}

func (m *mockOrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockOrgRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockOrgRepo) Update(ctx context.Context, o *domain.Organization) error {
	return m.updateFunc(ctx, o)
}

func (m *mockOrgRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.deactivateFunc(ctx, id)
}

func (m *mockOrgRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	return m.listFunc(ctx)
}

func (m *mockOrgRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Organization, error) {
	return m.listByUserFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock MembershipRepository
// ---------------------------------------------------------------------------

type mockMembershipRepo struct {
	createFunc             func(ctx context.Context, m *domain.Membership) error
	getFunc                func(ctx context.Context, orgID, userID uuid.UUID) (*domain.Membership, error)
	firstActiveForUserFunc func(ctx context.Context, userID uuid.UUID) (*domain.Membership, error)
	listByOrgFunc          func(ctx context.Context, orgID uuid.UUID) ([]*domain.Membership, error)
	listByUserFunc         func(ctx context.Context, userID uuid.UUID) ([]*domain.Membership, error)
	deactivateFunc         func(ctx context.Context, orgID, userID uuid.UUID) error
}

func (m *mockMembershipRepo) Create(ctx context.Context, mem *domain.Membership) error {
	return m.createFunc(ctx, mem)
}

func (m *mockMembershipRepo) Get(ctx context.Context, orgID, userID uuid.UUID) (*domain.Membership, error) {
	return m.getFunc(ctx, orgID, userID)
}

func (m *mockMembershipRepo) FirstActiveForUser(ctx context.Context, userID uuid.UUID) (*domain.Membership, error) {
	return m.firstActiveForUserFunc(ctx, userID)
}

func (m *mockMembershipRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Membership, error) {
	return m.listByOrgFunc(ctx, orgID)
}

func (m *mockMembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Membership, error) {
	return m.listByUserFunc(ctx, userID)
}

func (m *mockMembershipRepo) Deactivate(ctx context.Context, orgID, userID uuid.UUID) error {
	return m.deactivateFunc(ctx, orgID, userID)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

// ---------------------------------------------------------------------------
// Mock ClientRepository
// ---------------------------------------------------------------------------

type mockClientRepo struct {
	createFunc  func(ctx context.Context, scope domain.Scope, c *domain.Client) error
	getByIDFunc func(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.Client, error)
	listFunc    func(ctx context.Context, scope domain.Scope) ([]*domain.Client, error)
	updateFunc  func(ctx context.Context, scope domain.Scope, c *domain.Client) error
	deleteFunc  func(ctx context.Context, scope domain.Scope, id uuid.UUID) error
}

func (m *mockClientRepo) Create(ctx context.Context, scope domain.Scope, c *domain.Client) error {
	return m.createFunc(ctx, scope, c)
}

func (m *mockClientRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.Client, error) {
	return m.getByIDFunc(ctx, scope, id)
}

func (m *mockClientRepo) List(ctx context.Context, scope domain.Scope) ([]*domain.Client, error) {
	return m.listFunc(ctx, scope)
}

func (m *mockClientRepo) Update(ctx context.Context, scope domain.Scope, c *domain.Client) error {
	return m.updateFunc(ctx, scope, c)
}

func (m *mockClientRepo) Delete(ctx context.Context, scope domain.Scope, id uuid.UUID) error {
	return m.deleteFunc(ctx, scope, id)
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
// Mock CurrencyRepository
// ---------------------------------------------------------------------------

type mockCurrencyRepo struct {
	createFunc     func(ctx context.Context, scope domain.Scope, c *domain.Currency) error
	getByCodeFunc  func(ctx context.Context, scope domain.Scope, code string) (*domain.Currency, error)
	listFunc       func(ctx context.Context, scope domain.Scope) ([]*domain.Currency, error)
	setDefaultFunc func(ctx context.Context, scope domain.Scope, code string) error
}

func (m *mockCurrencyRepo) Create(ctx context.Context, scope domain.Scope, c *domain.Currency) error {
	return m.createFunc(ctx, scope, c)
}

func (m *mockCurrencyRepo) GetByCode(ctx context.Context, scope domain.Scope, code string) (*domain.Currency, error) {
	return m.getByCodeFunc(ctx, scope, code)
}

func (m *mockCurrencyRepo) List(ctx context.Context, scope domain.Scope) ([]*domain.Currency, error) {
	return m.listFunc(ctx, scope)
}

func (m *mockCurrencyRepo) SetDefault(ctx context.Context, scope domain.Scope, code string) error {
	return m.setDefaultFunc(ctx, scope, code)
}

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
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, email, password, name string) (*domain.User, error)
	loginFunc        func(ctx context.Context, email, password string) (string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

// ---------------------------------------------------------------------------
// Mock TenantManager
// ---------------------------------------------------------------------------

type mockTenantManager struct {
	currentFunc func(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
	selectFunc  func(ctx context.Context, userID, orgID uuid.UUID) error
	clearFunc   func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockTenantManager) Current(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	return m.currentFunc(ctx, userID)
}

func (m *mockTenantManager) Select(ctx context.Context, userID, orgID uuid.UUID) error {
	return m.selectFunc(ctx, userID, orgID)
}

func (m *mockTenantManager) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.clearFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock PaymentService
// ---------------------------------------------------------------------------

type mockPaymentService struct {
	initiateFunc func(ctx context.Context, scope domain.Scope, invoiceID uuid.UUID, customer payments.CustomerDetails) (*payments.InitiateResult, error)
	balanceFunc  func(ctx context.Context, currency string) (*paychangu.Balance, error)
}

func (m *mockPaymentService) Initiate(ctx context.Context, scope domain.Scope, invoiceID uuid.UUID, customer payments.CustomerDetails) (*payments.InitiateResult, error) {
	return m.initiateFunc(ctx, scope, invoiceID, customer)
}

func (m *mockPaymentService) Balance(ctx context.Context, currency string) (*paychangu.Balance, error) {
	return m.balanceFunc(ctx, currency)
}
