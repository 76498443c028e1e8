package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.CashRegisterSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegisterSession, error)
	FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error)
	Update(ctx context.Context, s *model.CashRegisterSession) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]model.CashRegisterSession, int64, error)

	// ArchiveClosed flags every closed, unarchived session of the company and
	// returns how many rows changed plus the distinct registers touched.
	ArchiveClosed(ctx context.Context, companyID uuid.UUID, at time.Time) (int64, []uuid.UUID, error)
	ListArchived(ctx context.Context, companyID uuid.UUID, from, to *time.Time) ([]model.CashRegisterSession, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, s *model.CashRegisterSession) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) Create(ctx context.Context, s *model.CashRegisterSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *sessionRepo) FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	err := r.db.WithContext(ctx).
		Where("cash_register_id = ? AND status = ?", registerID, model.SessionOpen).
		First(&s).Error
	return &s, err
}

func (r *sessionRepo) Update(ctx context.Context, s *model.CashRegisterSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sessionRepo) ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]model.CashRegisterSession, int64, error) {
	var sessions []model.CashRegisterSession
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CashRegisterSession{}).
		Where("company_id = ? AND archived = false", companyID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("opened_at DESC").Limit(limit).Offset(offset).Find(&sessions).Error
	return sessions, total, err
}

func (r *sessionRepo) ArchiveClosed(ctx context.Context, companyID uuid.UUID, at time.Time) (int64, []uuid.UUID, error) {
	var registerIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.CashRegisterSession{}).
		Where("company_id = ? AND status = ? AND archived = false", companyID, model.SessionClosed).
		Distinct().Pluck("cash_register_id", &registerIDs).Error
	if err != nil {
		return 0, nil, err
	}

	res := r.db.WithContext(ctx).Model(&model.CashRegisterSession{}).
		Where("company_id = ? AND status = ? AND archived = false", companyID, model.SessionClosed).
		Updates(map[string]interface{}{"archived": true, "archived_at": at})
	return res.RowsAffected, registerIDs, res.Error
}

func (r *sessionRepo) ListArchived(ctx context.Context, companyID uuid.UUID, from, to *time.Time) ([]model.CashRegisterSession, error) {
	var sessions []model.CashRegisterSession
	q := r.db.WithContext(ctx).
		Where("company_id = ? AND archived = true", companyID)
	// Range filters match on archived_at, not opened_at.
	if from != nil {
		q = q.Where("archived_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("archived_at <= ?", *to)
	}
	err := q.Order("archived_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) CreateTx(tx *gorm.DB, s *model.CashRegisterSession) error {
	return tx.Create(s).Error
}

func (r *sessionRepo) DB() *gorm.DB { return r.db }
