package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
)

// In-memory repositories shared by the service tests. DB() returns nil so
// runTx executes callbacks directly, without a real database.

// ── Sessions ─────────────────────────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*model.CashRegisterSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.CashRegisterSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *model.CashRegisterSession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRegisterSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) FindOpenByRegister(_ context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	for _, s := range r.sessions {
		if s.CashRegisterID == registerID && s.Status == model.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) Update(_ context.Context, s *model.CashRegisterSession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) ListByCompany(_ context.Context, companyID uuid.UUID, page, limit int) ([]model.CashRegisterSession, int64, error) {
	var out []model.CashRegisterSession
	for _, s := range r.sessions {
		if s.CompanyID == companyID && !s.Archived {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSessionRepo) ArchiveClosed(_ context.Context, companyID uuid.UUID, at time.Time) (int64, []uuid.UUID, error) {
	var count int64
	seen := make(map[uuid.UUID]bool)
	var registerIDs []uuid.UUID
	for _, s := range r.sessions {
		if s.CompanyID == companyID && s.Status == model.SessionClosed && !s.Archived {
			s.Archived = true
			t := at
			s.ArchivedAt = &t
			count++
			if !seen[s.CashRegisterID] {
				seen[s.CashRegisterID] = true
				registerIDs = append(registerIDs, s.CashRegisterID)
			}
		}
	}
	return count, registerIDs, nil
}

func (r *fakeSessionRepo) ListArchived(_ context.Context, companyID uuid.UUID, from, to *time.Time) ([]model.CashRegisterSession, error) {
	var out []model.CashRegisterSession
	for _, s := range r.sessions {
		if s.CompanyID != companyID || !s.Archived {
			continue
		}
		if from != nil && s.ArchivedAt.Before(*from) {
			continue
		}
		if to != nil && s.ArchivedAt.After(*to) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSessionRepo) CreateTx(_ *gorm.DB, s *model.CashRegisterSession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) DB() *gorm.DB { return nil }

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

// ── Sales ────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *fakeSaleRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) List(_ context.Context, companyID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CompanyID != companyID || s.Archived {
			continue
		}
		if filter.SessionID != "" && s.SessionID.String() != filter.SessionID {
			continue
		}
		if filter.RegisterID != "" && s.CashRegisterID.String() != filter.RegisterID {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.SessionID == sessionID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) ArchiveAll(_ context.Context, companyID uuid.UUID, at time.Time) (int64, error) {
	var count int64
	for _, s := range r.sales {
		if s.CompanyID == companyID && !s.Archived {
			s.Archived = true
			t := at
			s.ArchivedAt = &t
			count++
		}
	}
	return count, nil
}

func (r *fakeSaleRepo) ListArchived(_ context.Context, companyID uuid.UUID, from, to *time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CompanyID != companyID || !s.Archived {
			continue
		}
		if from != nil && s.ArchivedAt.Before(*from) {
			continue
		}
		if to != nil && s.ArchivedAt.After(*to) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSaleRepo) ExistingIDs(_ context.Context, companyID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	existing := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if s, ok := r.sales[id]; ok && s.CompanyID == companyID {
			existing[id] = true
		}
	}
	return existing, nil
}

func (r *fakeSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

// ── Registers ────────────────────────────────────────────────────────────────

type fakeRegisterRepo struct {
	regs map[uuid.UUID]*model.CashRegister
}

func newFakeRegisterRepo() *fakeRegisterRepo {
	return &fakeRegisterRepo{regs: make(map[uuid.UUID]*model.CashRegister)}
}

func (r *fakeRegisterRepo) Create(_ context.Context, reg *model.CashRegister) error {
	cp := *reg
	r.regs[reg.ID] = &cp
	return nil
}

func (r *fakeRegisterRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.CashRegister, error) {
	reg, ok := r.regs[id]
	if !ok || reg.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r *fakeRegisterRepo) FindByAccessToken(_ context.Context, token string) (*model.CashRegister, error) {
	for _, reg := range r.regs {
		if reg.AccessToken == token {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRegisterRepo) List(_ context.Context, companyID uuid.UUID) ([]model.CashRegister, error) {
	var out []model.CashRegister
	for _, reg := range r.regs {
		if reg.CompanyID == companyID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (r *fakeRegisterRepo) Save(_ context.Context, reg *model.CashRegister) error {
	cp := *reg
	r.regs[reg.ID] = &cp
	return nil
}

func (r *fakeRegisterRepo) Delete(_ context.Context, companyID, id uuid.UUID) error {
	delete(r.regs, id)
	return nil
}

func (r *fakeRegisterRepo) CountByCompany(_ context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	for _, reg := range r.regs {
		if reg.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegisterRepo) SaveTx(_ *gorm.DB, reg *model.CashRegister) error {
	cp := *reg
	r.regs[reg.ID] = &cp
	return nil
}

func (r *fakeRegisterRepo) AddToBalanceTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	reg, ok := r.regs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	reg.CurrentBalance = reg.CurrentBalance.Add(amount)
	return nil
}

func (r *fakeRegisterRepo) DB() *gorm.DB { return nil }

var _ repository.RegisterRepository = (*fakeRegisterRepo)(nil)

// ── Products ─────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, companyID, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) CountByCompany(_ context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.products {
		if p.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

func (r *fakeProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *fakeProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

// ── Employees ────────────────────────────────────────────────────────────────

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*model.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[uuid.UUID]*model.Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Employee, error) {
	e, ok := r.employees[id]
	if !ok || e.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, companyID uuid.UUID) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListActiveCashiers(_ context.Context, companyID uuid.UUID) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID && e.IsActive && e.Role == "cashier" {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) Deactivate(_ context.Context, companyID, id uuid.UUID) error {
	if e, ok := r.employees[id]; ok && e.CompanyID == companyID {
		e.IsActive = false
	}
	return nil
}

func (r *fakeEmployeeRepo) CountByCompany(_ context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	for _, e := range r.employees {
		if e.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

var _ repository.EmployeeRepository = (*fakeEmployeeRepo)(nil)

// ── Companies ────────────────────────────────────────────────────────────────

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*model.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[uuid.UUID]*model.Company)}
}

func (r *fakeCompanyRepo) Create(_ context.Context, c *model.Company) error {
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r *fakeCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompanyRepo) FindByCode(_ context.Context, code string) (*model.Company, error) {
	for _, c := range r.companies {
		if c.Code == code && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCompanyRepo) FindBySubdomain(_ context.Context, subdomain string) (*model.Company, error) {
	for _, c := range r.companies {
		if c.Subdomain == subdomain {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCompanyRepo) Update(_ context.Context, c *model.Company) error {
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r *fakeCompanyRepo) DB() *gorm.DB { return nil }

var _ repository.CompanyRepository = (*fakeCompanyRepo)(nil)

// ── Settings ─────────────────────────────────────────────────────────────────

type fakeSettingsRepo struct {
	company map[uuid.UUID]*model.CompanySettings
	api     map[uuid.UUID]*model.APISettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{
		company: make(map[uuid.UUID]*model.CompanySettings),
		api:     make(map[uuid.UUID]*model.APISettings),
	}
}

func (r *fakeSettingsRepo) CreateCompanySettings(_ context.Context, s *model.CompanySettings) error {
	cp := *s
	r.company[s.CompanyID] = &cp
	return nil
}

func (r *fakeSettingsRepo) FindCompanySettings(_ context.Context, companyID uuid.UUID) (*model.CompanySettings, error) {
	s, ok := r.company[companyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) UpdateCompanySettings(_ context.Context, s *model.CompanySettings) error {
	cp := *s
	r.company[s.CompanyID] = &cp
	return nil
}

func (r *fakeSettingsRepo) FindAPISettings(_ context.Context, companyID uuid.UUID) (*model.APISettings, error) {
	s, ok := r.api[companyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) SaveAPISettings(_ context.Context, s *model.APISettings) error {
	cp := *s
	r.api[s.CompanyID] = &cp
	return nil
}

var _ repository.SettingsRepository = (*fakeSettingsRepo)(nil)

// ── Customers ────────────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	customers    map[uuid.UUID]*model.Customer
	points       map[uuid.UUID]*model.CustomerPoints
	transactions []model.PointTransaction
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers: make(map[uuid.UUID]*model.Customer),
		points:    make(map[uuid.UUID]*model.CustomerPoints),
	}
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) FindByQRCode(_ context.Context, companyID uuid.UUID, qrCode string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.CompanyID == companyID && c.QRCode == qrCode {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) List(_ context.Context, companyID uuid.UUID) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.CompanyID == companyID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) FindPoints(_ context.Context, customerID uuid.UUID) (*model.CustomerPoints, error) {
	p, ok := r.points[customerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeCustomerRepo) SavePoints(_ context.Context, p *model.CustomerPoints) error {
	cp := *p
	r.points[p.CustomerID] = &cp
	return nil
}

func (r *fakeCustomerRepo) CreateTransaction(_ context.Context, t *model.PointTransaction) error {
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *fakeCustomerRepo) ListTransactions(_ context.Context, customerID uuid.UUID) ([]model.PointTransaction, error) {
	var out []model.PointTransaction
	for _, t := range r.transactions {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, nil
}

var _ repository.CustomerRepository = (*fakeCustomerRepo)(nil)

// ── Loyalty ──────────────────────────────────────────────────────────────────

type fakeLoyaltyRepo struct {
	programs map[uuid.UUID]*model.LoyaltyProgram
}

func newFakeLoyaltyRepo() *fakeLoyaltyRepo {
	return &fakeLoyaltyRepo{programs: make(map[uuid.UUID]*model.LoyaltyProgram)}
}

func (r *fakeLoyaltyRepo) FindByCompany(_ context.Context, companyID uuid.UUID) (*model.LoyaltyProgram, error) {
	p, ok := r.programs[companyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeLoyaltyRepo) Save(_ context.Context, p *model.LoyaltyProgram) error {
	cp := *p
	r.programs[p.CompanyID] = &cp
	return nil
}

var _ repository.LoyaltyRepository = (*fakeLoyaltyRepo)(nil)

// ── Failure injection ────────────────────────────────────────────────────────

// failingSessionRepo stands in for a database outage on selected lookups.
type failingSessionRepo struct {
	*fakeSessionRepo
	findOpenErr error
	findByIDErr error
}

func (r *failingSessionRepo) FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	if r.findOpenErr != nil {
		return nil, r.findOpenErr
	}
	return r.fakeSessionRepo.FindOpenByRegister(ctx, registerID)
}

func (r *failingSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegisterSession, error) {
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	return r.fakeSessionRepo.FindByID(ctx, id)
}

var _ repository.SessionRepository = (*failingSessionRepo)(nil)
