package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
)

// exportVersion is written into every artifact; imports reject anything else.
const exportVersion = "1.0"

type ExportService interface {
	Export(ctx context.Context, companyID, sessionID uuid.UUID) (*dto.SessionExport, error)
	// Import replays an exported session into this deployment. Reimporting
	// the same file is rejected on the session; sales are deduplicated by ID.
	Import(ctx context.Context, companyID uuid.UUID, export dto.SessionExport) (*dto.ImportResultResponse, error)
}

type exportService struct {
	sessionRepo repository.SessionRepository
	saleRepo    repository.SaleRepository
}

func NewExportService(sessionRepo repository.SessionRepository, saleRepo repository.SaleRepository) ExportService {
	return &exportService{sessionRepo: sessionRepo, saleRepo: saleRepo}
}

// ── Export ────────────────────────────────────────────────────────────────────

func (s *exportService) Export(ctx context.Context, companyID, sessionID uuid.UUID) (*dto.SessionExport, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	if session.Status != model.SessionClosed {
		return nil, ErrSessionStillOpen
	}

	sales, err := s.saleRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	export := &dto.SessionExport{
		Version:    exportVersion,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Session:    sessionToExported(session),
		Sales:      make([]dto.ExportedSale, 0, len(sales)),
	}
	for i := range sales {
		export.Sales = append(export.Sales, saleToExported(&sales[i]))
	}
	return export, nil
}

// ── Import ────────────────────────────────────────────────────────────────────

func (s *exportService) Import(ctx context.Context, companyID uuid.UUID, export dto.SessionExport) (*dto.ImportResultResponse, error) {
	if export.Version != exportVersion {
		return nil, fmt.Errorf("unsupported export version %q", export.Version)
	}

	sessionID, err := uuid.Parse(export.Session.ID)
	if err != nil {
		return nil, fmt.Errorf("session id invalid: %w", err)
	}
	if _, err := s.sessionRepo.FindByID(ctx, sessionID); err == nil {
		return nil, ErrDuplicateImport
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session, err := exportedToSession(companyID, export.Session)
	if err != nil {
		return nil, err
	}

	// Parse every sale before writing anything.
	saleIDs := make([]uuid.UUID, 0, len(export.Sales))
	sales := make([]model.Sale, 0, len(export.Sales))
	for _, es := range export.Sales {
		sale, err := exportedToSale(companyID, sessionID, es)
		if err != nil {
			return nil, err
		}
		saleIDs = append(saleIDs, sale.ID)
		sales = append(sales, *sale)
	}

	existing, err := s.saleRepo.ExistingIDs(ctx, companyID, saleIDs)
	if err != nil {
		return nil, err
	}

	imported, skipped := 0, 0
	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		if err := s.sessionRepo.CreateTx(tx, session); err != nil {
			return err
		}
		for i := range sales {
			if existing[sales[i].ID] {
				skipped++
				continue
			}
			if err := s.saleRepo.CreateTx(tx, &sales[i]); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("session_id", sessionID.String()).
		Int("imported", imported).
		Int("skipped", skipped).
		Msg("session import complete")

	return &dto.ImportResultResponse{
		SessionID:     sessionID.String(),
		SalesImported: imported,
		SalesSkipped:  skipped,
	}, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func sessionToExported(s *model.CashRegisterSession) dto.ExportedSession {
	es := dto.ExportedSession{
		ID:               s.ID.String(),
		CashRegisterID:   s.CashRegisterID.String(),
		CashRegisterName: s.CashRegisterName,
		EmployeeName:     s.EmployeeName,
		OpenedAt:         s.OpenedAt.Format(time.RFC3339),
		OpeningBalance:   s.OpeningBalance,
		ClosingBalance:   s.ClosingBalance,
		ExpectedBalance:  s.ExpectedBalance,
		TotalSales:       s.TotalSales,
		TotalCash:        s.TotalCash,
		TotalCard:        s.TotalCard,
		Status:           s.Status,
	}
	if s.EmployeeID != nil {
		id := s.EmployeeID.String()
		es.EmployeeID = &id
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		es.ClosedAt = &t
	}
	return es
}

func saleToExported(v *model.Sale) dto.ExportedSale {
	es := dto.ExportedSale{
		ID:               v.ID.String(),
		SessionID:        v.SessionID.String(),
		CashRegisterID:   v.CashRegisterID.String(),
		CashRegisterName: v.CashRegisterName,
		EmployeeName:     v.EmployeeName,
		Date:             v.Date.Format(time.RFC3339),
		Subtotal:         v.Subtotal,
		Total:            v.Total,
		PaymentMethod:    v.PaymentMethod,
		ReceivedAmount:   v.ReceivedAmount,
		Change:           v.Change,
	}
	if v.EmployeeID != nil {
		id := v.EmployeeID.String()
		es.EmployeeID = &id
	}
	for _, item := range v.Items {
		es.Items = append(es.Items, dto.ExportedSaleItem{
			ProductID:    item.ProductID.String(),
			ProductName:  item.ProductName,
			Category:     item.Category,
			Quantity:     item.Quantity,
			AppliedPrice: item.AppliedPrice,
			LineTotal:    item.LineTotal,
		})
	}
	return es
}

func exportedToSession(companyID uuid.UUID, es dto.ExportedSession) (*model.CashRegisterSession, error) {
	id, err := uuid.Parse(es.ID)
	if err != nil {
		return nil, fmt.Errorf("session id invalid: %w", err)
	}
	registerID, err := uuid.Parse(es.CashRegisterID)
	if err != nil {
		return nil, fmt.Errorf("cash register id invalid: %w", err)
	}
	openedAt, err := time.Parse(time.RFC3339, es.OpenedAt)
	if err != nil {
		return nil, fmt.Errorf("openedAt invalid: %w", err)
	}
	if es.Status != model.SessionClosed {
		return nil, errors.New("only closed sessions can be imported")
	}

	session := &model.CashRegisterSession{
		ID:               id,
		CompanyID:        companyID,
		CashRegisterID:   registerID,
		CashRegisterName: es.CashRegisterName,
		EmployeeName:     es.EmployeeName,
		OpenedAt:         openedAt,
		OpeningBalance:   es.OpeningBalance,
		ClosingBalance:   es.ClosingBalance,
		ExpectedBalance:  es.ExpectedBalance,
		TotalSales:       es.TotalSales,
		TotalCash:        es.TotalCash,
		TotalCard:        es.TotalCard,
		Status:           es.Status,
	}
	if es.EmployeeID != nil {
		eid, err := uuid.Parse(*es.EmployeeID)
		if err == nil {
			session.EmployeeID = &eid
		}
	}
	if es.ClosedAt != nil {
		closedAt, err := time.Parse(time.RFC3339, *es.ClosedAt)
		if err != nil {
			return nil, fmt.Errorf("closedAt invalid: %w", err)
		}
		session.ClosedAt = &closedAt
	}
	return session, nil
}

func exportedToSale(companyID, sessionID uuid.UUID, es dto.ExportedSale) (*model.Sale, error) {
	id, err := uuid.Parse(es.ID)
	if err != nil {
		return nil, fmt.Errorf("sale id invalid: %w", err)
	}
	registerID, err := uuid.Parse(es.CashRegisterID)
	if err != nil {
		return nil, fmt.Errorf("cash register id invalid: %w", err)
	}
	date, err := time.Parse(time.RFC3339, es.Date)
	if err != nil {
		return nil, fmt.Errorf("sale date invalid: %w", err)
	}

	sale := &model.Sale{
		ID:               id,
		CompanyID:        companyID,
		SessionID:        sessionID,
		CashRegisterID:   registerID,
		CashRegisterName: es.CashRegisterName,
		EmployeeName:     es.EmployeeName,
		Date:             date,
		Subtotal:         es.Subtotal,
		Total:            es.Total,
		PaymentMethod:    es.PaymentMethod,
		ReceivedAmount:   es.ReceivedAmount,
		Change:           es.Change,
	}
	if es.EmployeeID != nil {
		eid, err := uuid.Parse(*es.EmployeeID)
		if err == nil {
			sale.EmployeeID = &eid
		}
	}
	for _, item := range es.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product id invalid: %w", err)
		}
		sale.Items = append(sale.Items, model.SaleItem{
			ID:           uuid.New(),
			SaleID:       id,
			ProductID:    pid,
			ProductName:  item.ProductName,
			Category:     item.Category,
			Quantity:     item.Quantity,
			AppliedPrice: item.AppliedPrice,
			LineTotal:    item.LineTotal,
		})
	}
	return sale, nil
}
