package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/model"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Customer, error)
	FindByQRCode(ctx context.Context, companyID uuid.UUID, qrCode string) (*model.Customer, error)
	List(ctx context.Context, companyID uuid.UUID) ([]model.Customer, error)

	FindPoints(ctx context.Context, customerID uuid.UUID) (*model.CustomerPoints, error)
	SavePoints(ctx context.Context, p *model.CustomerPoints) error
	CreateTransaction(ctx context.Context, t *model.PointTransaction) error
	ListTransactions(ctx context.Context, customerID uuid.UUID) ([]model.PointTransaction, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&c, id).Error
	return &c, err
}

func (r *customerRepo) FindByQRCode(ctx context.Context, companyID uuid.UUID, qrCode string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND qr_code = ?", companyID, qrCode).First(&c).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, companyID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindPoints(ctx context.Context, customerID uuid.UUID) (*model.CustomerPoints, error) {
	var p model.CustomerPoints
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&p).Error
	return &p, err
}

// SavePoints upserts the balance row; it is created lazily on first award.
func (r *customerRepo) SavePoints(ctx context.Context, p *model.CustomerPoints) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *customerRepo) CreateTransaction(ctx context.Context, t *model.PointTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *customerRepo) ListTransactions(ctx context.Context, customerID uuid.UUID) ([]model.PointTransaction, error) {
	var txs []model.PointTransaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&txs).Error
	return txs, err
}
