package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
)

type SessionService interface {
	Start(ctx context.Context, reg *model.CashRegister, openingBalance decimal.Decimal) (*model.CashRegisterSession, error)
	FindOpen(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error)
	// RefreshTotals recomputes the session's figures from its sales.
	RefreshTotals(ctx context.Context, sessionID uuid.UUID) (*model.CashRegisterSession, error)
	Close(ctx context.Context, sessionID uuid.UUID, countedBalance decimal.Decimal) (*model.CashRegisterSession, decimal.Decimal, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*dto.SessionResponse, error)
	History(ctx context.Context, companyID uuid.UUID, page, limit int) (*dto.SessionListResponse, error)
}

type sessionService struct {
	repo     repository.SessionRepository
	saleRepo repository.SaleRepository
}

func NewSessionService(repo repository.SessionRepository, saleRepo repository.SaleRepository) SessionService {
	return &sessionService{repo: repo, saleRepo: saleRepo}
}

// ── Start ─────────────────────────────────────────────────────────────────────

func (s *sessionService) Start(ctx context.Context, reg *model.CashRegister, openingBalance decimal.Decimal) (*model.CashRegisterSession, error) {
	// Guard: one open session per register. A lookup failure is not "no
	// session" — it propagates rather than skipping the guard.
	if _, err := s.repo.FindOpenByRegister(ctx, reg.ID); err == nil {
		return nil, ErrSessionConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session := &model.CashRegisterSession{
		ID:               uuid.New(),
		CompanyID:        reg.CompanyID,
		CashRegisterID:   reg.ID,
		CashRegisterName: reg.Name,
		EmployeeID:       reg.EmployeeID,
		EmployeeName:     reg.EmployeeName,
		OpenedAt:         time.Now().UTC(),
		OpeningBalance:   openingBalance,
		ExpectedBalance:  openingBalance,
		TotalCash:        decimal.Zero,
		TotalCard:        decimal.Zero,
		Status:           model.SessionOpen,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ── FindOpen ──────────────────────────────────────────────────────────────────

func (s *sessionService) FindOpen(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	session, err := s.repo.FindOpenByRegister(ctx, registerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOpenSession
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ── RefreshTotals ─────────────────────────────────────────────────────────────
// Totals are recomputed from the sales that carry this session's ID, never
// incremented in place. A recompute after a partial failure converges to the
// correct figures.

func (s *sessionService) RefreshTotals(ctx context.Context, sessionID uuid.UUID) (*model.CashRegisterSession, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	totalCash := decimal.Zero
	totalCard := decimal.Zero
	for _, sale := range sales {
		switch sale.PaymentMethod {
		case model.PaymentCash:
			totalCash = totalCash.Add(sale.Total)
		default:
			// Card and QR tenders share the non-drawer bucket.
			totalCard = totalCard.Add(sale.Total)
		}
	}

	session.TotalSales = len(sales)
	session.TotalCash = totalCash
	session.TotalCard = totalCard
	// Card/QR money never enters the drawer, so it is excluded here.
	session.ExpectedBalance = session.OpeningBalance.Add(totalCash)

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// Variance is reported, never enforced: a drawer that does not reconcile
// still closes.

func (s *sessionService) Close(ctx context.Context, sessionID uuid.UUID, countedBalance decimal.Decimal) (*model.CashRegisterSession, decimal.Decimal, error) {
	session, err := s.RefreshTotals(ctx, sessionID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if session.Status != model.SessionOpen {
		return nil, decimal.Zero, ErrNoOpenSession
	}

	now := time.Now().UTC()
	variance := countedBalance.Sub(session.ExpectedBalance)

	session.ClosingBalance = &countedBalance
	session.ClosedAt = &now
	session.Status = model.SessionClosed

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, decimal.Zero, err
	}

	if !variance.IsZero() {
		log.Warn().
			Str("session_id", session.ID.String()).
			Str("register", session.CashRegisterName).
			Str("variance", variance.String()).
			Msg("session closed with cash variance")
	}
	return session, variance, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *sessionService) Get(ctx context.Context, companyID, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	resp := SessionToResponse(session)
	return &resp, nil
}

func (s *sessionService) History(ctx context.Context, companyID uuid.UUID, page, limit int) (*dto.SessionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	sessions, total, err := s.repo.ListByCompany(ctx, companyID, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		data = append(data, SessionToResponse(&sessions[i]))
	}
	return &dto.SessionListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func SessionToResponse(s *model.CashRegisterSession) dto.SessionResponse {
	resp := dto.SessionResponse{
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
		Archived:         s.Archived,
	}
	if s.EmployeeID != nil {
		id := s.EmployeeID.String()
		resp.EmployeeID = &id
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	if s.ArchivedAt != nil {
		t := s.ArchivedAt.Format(time.RFC3339)
		resp.ArchivedAt = &t
	}
	return resp
}
