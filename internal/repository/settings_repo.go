package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/model"
)

type SettingsRepository interface {
	CreateCompanySettings(ctx context.Context, s *model.CompanySettings) error
	FindCompanySettings(ctx context.Context, companyID uuid.UUID) (*model.CompanySettings, error)
	UpdateCompanySettings(ctx context.Context, s *model.CompanySettings) error

	FindAPISettings(ctx context.Context, companyID uuid.UUID) (*model.APISettings, error)
	SaveAPISettings(ctx context.Context, s *model.APISettings) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) CreateCompanySettings(ctx context.Context, s *model.CompanySettings) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *settingsRepo) FindCompanySettings(ctx context.Context, companyID uuid.UUID) (*model.CompanySettings, error) {
	var s model.CompanySettings
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&s).Error
	return &s, err
}

func (r *settingsRepo) UpdateCompanySettings(ctx context.Context, s *model.CompanySettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *settingsRepo) FindAPISettings(ctx context.Context, companyID uuid.UUID) (*model.APISettings, error) {
	var s model.APISettings
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&s).Error
	return &s, err
}

// SaveAPISettings upserts: credentials are created the first time the company
// configures the gateway.
func (r *settingsRepo) SaveAPISettings(ctx context.Context, s *model.APISettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
