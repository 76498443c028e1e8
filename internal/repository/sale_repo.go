package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
)

type SaleRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Sale, error)

	// ArchiveAll flags every unarchived sale of the company, open sessions
	// included.
	ArchiveAll(ctx context.Context, companyID uuid.UUID, at time.Time) (int64, error)
	ListArchived(ctx context.Context, companyID uuid.UUID, from, to *time.Time) ([]model.Sale, error)

	// ExistingIDs returns which of the given sale IDs are already stored,
	// company-wide. Used to deduplicate imports.
	ExistingIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, s *model.Sale) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Where("company_id = ?", companyID).First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("company_id = ? AND archived = false", companyID)

	if filter.RegisterID != "" {
		q = q.Where("cash_register_id = ?", filter.RegisterID)
	}
	if filter.SessionID != "" {
		q = q.Where("session_id = ?", filter.SessionID)
	}
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Order("date DESC").Limit(filter.Limit).Offset(offset).Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).Preload("Items").
		Where("session_id = ?", sessionID).
		Order("date ASC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ArchiveAll(ctx context.Context, companyID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("company_id = ? AND archived = false", companyID).
		Updates(map[string]interface{}{"archived": true, "archived_at": at})
	return res.RowsAffected, res.Error
}

func (r *saleRepo) ListArchived(ctx context.Context, companyID uuid.UUID, from, to *time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Preload("Items").
		Where("company_id = ? AND archived = true", companyID)
	if from != nil {
		q = q.Where("archived_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("archived_at <= ?", *to)
	}
	err := q.Order("archived_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ExistingIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	existing := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	var found []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) DB() *gorm.DB { return r.db }
