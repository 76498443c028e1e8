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
	"github.com/modulartear/posventa/internal/repository"
)

type ArchiveService interface {
	// Archive flags the company's closed sessions and all its unarchived
	// sales. Running it twice is a no-op the second time.
	Archive(ctx context.Context, companyID uuid.UUID) (*dto.ArchiveResultResponse, error)
	RetrieveArchived(ctx context.Context, companyID uuid.UUID, from, to *time.Time) (*dto.ArchivedDataResponse, error)
}

type archiveService struct {
	sessionRepo  repository.SessionRepository
	saleRepo     repository.SaleRepository
	registerRepo repository.RegisterRepository
}

func NewArchiveService(
	sessionRepo repository.SessionRepository,
	saleRepo repository.SaleRepository,
	registerRepo repository.RegisterRepository,
) ArchiveService {
	return &archiveService{
		sessionRepo:  sessionRepo,
		saleRepo:     saleRepo,
		registerRepo: registerRepo,
	}
}

// ── Archive ───────────────────────────────────────────────────────────────────

func (s *archiveService) Archive(ctx context.Context, companyID uuid.UUID) (*dto.ArchiveResultResponse, error) {
	now := time.Now().UTC()

	sessionsArchived, registerIDs, err := s.sessionRepo.ArchiveClosed(ctx, companyID, now)
	if err != nil {
		return nil, err
	}

	// Sales only get filed once the company has at least one closed session;
	// before that there is nothing to reconcile them against.
	hasClosed := sessionsArchived > 0
	if !hasClosed {
		archived, err := s.sessionRepo.ListArchived(ctx, companyID, nil, nil)
		if err != nil {
			return nil, err
		}
		hasClosed = len(archived) > 0
	}
	var salesArchived int64
	if hasClosed {
		salesArchived, err = s.saleRepo.ArchiveAll(ctx, companyID, now)
		if err != nil {
			return nil, err
		}
	}

	// Registers whose sessions were archived get deactivated too. Most are
	// already closed; this catches ones left dangling by a crashed terminal.
	// A register that has since reopened still has a live session and drawer
	// balance, so it is left alone.
	for _, regID := range registerIDs {
		if _, err := s.sessionRepo.FindOpenByRegister(ctx, regID); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("register_id", regID.String()).Msg("open-session check during archive")
			continue
		}
		reg, err := s.registerRepo.FindByID(ctx, companyID, regID)
		if err != nil {
			continue
		}
		if !reg.IsActive {
			continue
		}
		reg.IsActive = false
		reg.CurrentBalance = decimal.Zero
		reg.OpeningBalance = decimal.Zero
		if err := s.registerRepo.Save(ctx, reg); err != nil {
			log.Error().Err(err).Str("register_id", regID.String()).Msg("deactivating register during archive")
		}
	}

	log.Info().
		Str("company_id", companyID.String()).
		Int64("sessions", sessionsArchived).
		Int64("sales", salesArchived).
		Msg("archive run complete")

	return &dto.ArchiveResultResponse{
		SessionsArchived: sessionsArchived,
		SalesArchived:    salesArchived,
	}, nil
}

// ── RetrieveArchived ──────────────────────────────────────────────────────────
// The range filters match on archived_at: what matters to the history view is
// when a record was filed, not when the money moved.

func (s *archiveService) RetrieveArchived(ctx context.Context, companyID uuid.UUID, from, to *time.Time) (*dto.ArchivedDataResponse, error) {
	sessions, err := s.sessionRepo.ListArchived(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListArchived(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.ArchivedDataResponse{
		Sales:    make([]dto.SaleResponse, 0, len(sales)),
		Sessions: make([]dto.SessionResponse, 0, len(sessions)),
	}
	for i := range sales {
		resp.Sales = append(resp.Sales, *saleToResponse(&sales[i]))
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, SessionToResponse(&sessions[i]))
	}
	return resp, nil
}
