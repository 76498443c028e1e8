package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/model"
)

type RegisterRepository interface {
	Create(ctx context.Context, r *model.CashRegister) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.CashRegister, error)
	FindByAccessToken(ctx context.Context, token string) (*model.CashRegister, error)
	List(ctx context.Context, companyID uuid.UUID) ([]model.CashRegister, error)
	Save(ctx context.Context, r *model.CashRegister) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)

	// Used inside transactions — callers must pass the tx instance
	SaveTx(tx *gorm.DB, r *model.CashRegister) error
	AddToBalanceTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) Create(ctx context.Context, reg *model.CashRegister) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registerRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&reg, id).Error
	return &reg, err
}

// FindByAccessToken resolves a terminal capability token. Not tenant-scoped:
// the token itself identifies the register and its company.
func (r *registerRepo) FindByAccessToken(ctx context.Context, token string) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&reg).Error
	return &reg, err
}

func (r *registerRepo) List(ctx context.Context, companyID uuid.UUID) ([]model.CashRegister, error) {
	var regs []model.CashRegister
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").Find(&regs).Error
	return regs, err
}

func (r *registerRepo) Save(ctx context.Context, reg *model.CashRegister) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

func (r *registerRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&model.CashRegister{}).Error
}

func (r *registerRepo) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.CashRegister{}).
		Where("company_id = ?", companyID).Count(&total).Error
	return total, err
}

func (r *registerRepo) SaveTx(tx *gorm.DB, reg *model.CashRegister) error {
	return tx.Save(reg).Error
}

func (r *registerRepo) AddToBalanceTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	return tx.Model(&model.CashRegister{}).Where("id = ?", id).
		Update("current_balance", gorm.Expr("current_balance + ?", amount)).Error
}

func (r *registerRepo) DB() *gorm.DB { return r.db }
