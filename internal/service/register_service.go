package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
	"github.com/modulartear/posventa/internal/worker"
)

type RegisterService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error)
	List(ctx context.Context, companyID uuid.UUID) ([]dto.RegisterResponse, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*dto.RegisterResponse, error)
	Patch(ctx context.Context, companyID, id uuid.UUID, req dto.RegisterPatch) (*dto.RegisterResponse, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error

	Open(ctx context.Context, companyID, id uuid.UUID, req dto.OpenRegisterRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, companyID, id uuid.UUID, req dto.CloseRegisterRequest) (*dto.CloseSessionResponse, error)
	// Repair zeroes out a register stuck active without an open session. The
	// operator confirms the flow knowing accumulated figures are discarded.
	Repair(ctx context.Context, companyID, id uuid.UUID) (*dto.RegisterResponse, error)

	FindByAccessToken(ctx context.Context, token string) (*model.CashRegister, error)
	RotateAccessToken(ctx context.Context, companyID, id uuid.UUID) (*dto.RegisterResponse, error)
}

type registerService struct {
	repo         repository.RegisterRepository
	sessions     SessionService
	employeeRepo repository.EmployeeRepository
	companyRepo  repository.CompanyRepository
	dispatcher   *worker.Dispatcher
}

func NewRegisterService(
	repo repository.RegisterRepository,
	sessions SessionService,
	employeeRepo repository.EmployeeRepository,
	companyRepo repository.CompanyRepository,
	dispatcher *worker.Dispatcher,
) RegisterService {
	return &registerService{
		repo:         repo,
		sessions:     sessions,
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		dispatcher:   dispatcher,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────

func (s *registerService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if count >= int64(company.MaxCashRegisters) {
		return nil, fmt.Errorf("%w: plan %s allows %d cash registers", ErrPlanLimitReached, company.Plan, company.MaxCashRegisters)
	}

	reg := &model.CashRegister{
		ID:             uuid.New(),
		CompanyID:      companyID,
		Name:           req.Name,
		OpeningBalance: decimal.Zero,
		CurrentBalance: decimal.Zero,
		AccessToken:    generateAccessToken(req.Name),
	}
	if req.EmployeeID != nil {
		if err := s.assignEmployee(ctx, companyID, reg, *req.EmployeeID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, err
	}
	resp := registerToResponse(reg)
	return &resp, nil
}

// ── Open ──────────────────────────────────────────────────────────────────────
// Opening is two writes with no wrapping transaction: activate the register,
// then start the session. A session failure rolls the register back by a
// compensating write.

func (s *registerService) Open(ctx context.Context, companyID, id uuid.UUID, req dto.OpenRegisterRequest) (*dto.SessionResponse, error) {
	reg, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	stale, findErr := s.sessions.FindOpen(ctx, reg.ID)
	if findErr != nil && !errors.Is(findErr, ErrNoOpenSession) {
		return nil, findErr
	}
	if findErr == nil && stale != nil {
		if !req.Force {
			return nil, ErrSessionConflict
		}
		// Stale session from a terminal that never closed. The register's
		// running balance stands in for the physical count.
		if _, _, err := s.sessions.Close(ctx, stale.ID, reg.CurrentBalance); err != nil {
			return nil, fmt.Errorf("force-closing stale session: %w", err)
		}
		log.Warn().
			Str("register_id", reg.ID.String()).
			Str("session_id", stale.ID.String()).
			Msg("stale open session force-closed before reopening")
	}
	if reg.IsActive && findErr != nil {
		return nil, ErrInconsistentState
	}

	// Step 1: activate the register.
	now := time.Now().UTC()
	reg.IsActive = true
	reg.OpeningBalance = req.OpeningBalance
	reg.CurrentBalance = req.OpeningBalance
	reg.OpenedAt = &now
	reg.ClosedAt = nil
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}

	// Step 2: start the session. On failure, compensate step 1.
	session, err := s.sessions.Start(ctx, reg, req.OpeningBalance)
	if err != nil {
		reg.IsActive = false
		reg.OpeningBalance = decimal.Zero
		reg.CurrentBalance = decimal.Zero
		reg.OpenedAt = nil
		if compErr := s.repo.Save(ctx, reg); compErr != nil {
			log.Error().Err(compErr).
				Str("register_id", reg.ID.String()).
				Msg("compensation failed: register left active without session")
		}
		return nil, err
	}

	resp := SessionToResponse(session)
	return &resp, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────

func (s *registerService) Close(ctx context.Context, companyID, id uuid.UUID, req dto.CloseRegisterRequest) (*dto.CloseSessionResponse, error) {
	reg, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !reg.IsActive {
		return nil, ErrRegisterClosed
	}

	open, err := s.sessions.FindOpen(ctx, reg.ID)
	if errors.Is(err, ErrNoOpenSession) {
		// Active register without a session: surface it, never auto-fix.
		return nil, ErrInconsistentState
	}
	if err != nil {
		return nil, err
	}

	session, variance, err := s.sessions.Close(ctx, open.ID, req.CountedBalance)
	if err != nil {
		return nil, err
	}

	// The register starts from scratch on the next opening.
	now := time.Now().UTC()
	reg.IsActive = false
	reg.CurrentBalance = decimal.Zero
	reg.OpeningBalance = decimal.Zero
	reg.ClosedAt = &now
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}

	// Close report generated off the request path — best effort.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueCloseReport(ctx, map[string]interface{}{
			"session_id": session.ID.String(),
			"company_id": companyID.String(),
		})
	}

	return &dto.CloseSessionResponse{
		Session:  SessionToResponse(session),
		Variance: variance,
	}, nil
}

// ── Repair ────────────────────────────────────────────────────────────────────

func (s *registerService) Repair(ctx context.Context, companyID, id uuid.UUID) (*dto.RegisterResponse, error) {
	reg, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.FindOpen(ctx, reg.ID); err == nil {
		// An open session exists — nothing to repair, close it normally.
		return nil, errors.New("register has an open session; close it instead of repairing")
	} else if !errors.Is(err, ErrNoOpenSession) {
		return nil, err
	}

	log.Warn().
		Str("register_id", reg.ID.String()).
		Str("current_balance", reg.CurrentBalance.String()).
		Msg("repairing inconsistent register; unreconciled balance discarded")

	now := time.Now().UTC()
	reg.IsActive = false
	reg.CurrentBalance = decimal.Zero
	reg.OpeningBalance = decimal.Zero
	reg.ClosedAt = &now
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}
	resp := registerToResponse(reg)
	return &resp, nil
}

// ── Terminal access ───────────────────────────────────────────────────────────

func (s *registerService) FindByAccessToken(ctx context.Context, token string) (*model.CashRegister, error) {
	return s.repo.FindByAccessToken(ctx, token)
}

func (s *registerService) RotateAccessToken(ctx context.Context, companyID, id uuid.UUID) (*dto.RegisterResponse, error) {
	reg, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	reg.AccessToken = generateAccessToken(reg.Name)
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}
	resp := registerToResponse(reg)
	return &resp, nil
}

// ── CRUD ──────────────────────────────────────────────────────────────────────

func (s *registerService) List(ctx context.Context, companyID uuid.UUID) ([]dto.RegisterResponse, error) {
	regs, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RegisterResponse, 0, len(regs))
	for i := range regs {
		resp = append(resp, registerToResponse(&regs[i]))
	}
	return resp, nil
}

func (s *registerService) Get(ctx context.Context, companyID, id uuid.UUID) (*dto.RegisterResponse, error) {
	reg, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := registerToResponse(reg)
	return &resp, nil
}

func (s *registerService) Patch(ctx context.Context, companyID, id uuid.UUID, req dto.RegisterPatch) (*dto.RegisterResponse, error) {
	reg, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		reg.Name = *req.Name
	}
	if req.EmployeeID != nil {
		if err := s.assignEmployee(ctx, companyID, reg, *req.EmployeeID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}
	resp := registerToResponse(reg)
	return &resp, nil
}

func (s *registerService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	reg, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if reg.IsActive {
		return errors.New("cannot delete an open register")
	}
	return s.repo.Delete(ctx, companyID, id)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *registerService) assignEmployee(ctx context.Context, companyID uuid.UUID, reg *model.CashRegister, employeeID string) error {
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return fmt.Errorf("employee_id invalid: %w", err)
	}
	emp, err := s.employeeRepo.FindByID(ctx, companyID, eid)
	if err != nil {
		return errors.New("employee not found")
	}
	if !emp.IsActive || emp.Role != "cashier" {
		return errors.New("only active cashiers can be assigned to a register")
	}
	reg.EmployeeID = &emp.ID
	reg.EmployeeName = emp.Name
	return nil
}

// generateAccessToken builds a terminal capability string from the register
// name plus a random suffix: "caja-principal-3f9c2a1b".
func generateAccessToken(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "register"
	}

	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return slug + "-" + hex.EncodeToString(buf)
}

func registerToResponse(r *model.CashRegister) dto.RegisterResponse {
	resp := dto.RegisterResponse{
		ID:             r.ID.String(),
		Name:           r.Name,
		EmployeeName:   r.EmployeeName,
		IsActive:       r.IsActive,
		OpeningBalance: r.OpeningBalance,
		CurrentBalance: r.CurrentBalance,
		AccessToken:    r.AccessToken,
	}
	if r.EmployeeID != nil {
		id := r.EmployeeID.String()
		resp.EmployeeID = &id
	}
	if r.OpenedAt != nil {
		t := r.OpenedAt.Format(time.RFC3339)
		resp.OpenedAt = &t
	}
	if r.ClosedAt != nil {
		t := r.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
