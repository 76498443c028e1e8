package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/model"
)

// CompanyRepository defines the data access contract for tenants.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via mocks.
type CompanyRepository interface {
	Create(ctx context.Context, c *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	FindByCode(ctx context.Context, code string) (*model.Company, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*model.Company, error)
	Update(ctx context.Context, c *model.Company) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type companyRepo struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) CompanyRepository { return &companyRepo{db: db} }

func (r *companyRepo) Create(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *companyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var c model.Company
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *companyRepo) FindByCode(ctx context.Context, code string) (*model.Company, error) {
	var c model.Company
	err := r.db.WithContext(ctx).Where("code = ? AND is_active = true", code).First(&c).Error
	return &c, err
}

func (r *companyRepo) FindBySubdomain(ctx context.Context, subdomain string) (*model.Company, error) {
	var c model.Company
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&c).Error
	return &c, err
}

func (r *companyRepo) Update(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *companyRepo) DB() *gorm.DB { return r.db }
