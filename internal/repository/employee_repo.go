package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/model"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, companyID uuid.UUID) ([]model.Employee, error)
	ListActiveCashiers(ctx context.Context, companyID uuid.UUID) ([]model.Employee, error)
	Update(ctx context.Context, e *model.Employee) error
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
}

type employeeRepo struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository { return &employeeRepo{db: db} }

func (r *employeeRepo) Create(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&e, id).Error
	return &e, err
}

func (r *employeeRepo) List(ctx context.Context, companyID uuid.UUID) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) ListActiveCashiers(ctx context.Context, companyID uuid.UUID) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND role = 'cashier' AND is_active = true", companyID).
		Order("name ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Update(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *employeeRepo) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("is_active", false).Error
}

func (r *employeeRepo) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("company_id = ? AND is_active = true", companyID).Count(&total).Error
	return total, err
}
