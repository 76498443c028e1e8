package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/model"
)

type LoyaltyRepository interface {
	FindByCompany(ctx context.Context, companyID uuid.UUID) (*model.LoyaltyProgram, error)
	Save(ctx context.Context, p *model.LoyaltyProgram) error
}

type loyaltyRepo struct{ db *gorm.DB }

func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository { return &loyaltyRepo{db: db} }

// FindByCompany returns the single program of the company. One program per
// tenant; the uniqueIndex on company_id enforces it.
func (r *loyaltyRepo) FindByCompany(ctx context.Context, companyID uuid.UUID) (*model.LoyaltyProgram, error) {
	var p model.LoyaltyProgram
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&p).Error
	return &p, err
}

func (r *loyaltyRepo) Save(ctx context.Context, p *model.LoyaltyProgram) error {
	return r.db.WithContext(ctx).Save(p).Error
}
