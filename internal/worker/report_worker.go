package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/modulartear/posventa/internal/infra"
	"github.com/modulartear/posventa/internal/repository"
)

// CloseReportPayload identifies the session whose report should be built.
type CloseReportPayload struct {
	SessionID string `json:"session_id"`
	CompanyID string `json:"company_id"`
}

// ReportWorker renders the close-of-session PDF and mails it to the company
// address when one is configured.
type ReportWorker struct {
	sessionRepo  repository.SessionRepository
	saleRepo     repository.SaleRepository
	settingsRepo repository.SettingsRepository
	mailer       *infra.Mailer
	storagePath  string
}

func NewReportWorker(
	sessionRepo repository.SessionRepository,
	saleRepo repository.SaleRepository,
	settingsRepo repository.SettingsRepository,
	mailer *infra.Mailer,
	storagePath string,
) *ReportWorker {
	return &ReportWorker{
		sessionRepo:  sessionRepo,
		saleRepo:     saleRepo,
		settingsRepo: settingsRepo,
		mailer:       mailer,
		storagePath:  storagePath,
	}
}

func (w *ReportWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p CloseReportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("close_report: unmarshal payload: %w", err)
	}
	sessionID, err := uuid.Parse(p.SessionID)
	if err != nil {
		return fmt.Errorf("close_report: session_id invalid: %w", err)
	}
	companyID, err := uuid.Parse(p.CompanyID)
	if err != nil {
		return fmt.Errorf("close_report: company_id invalid: %w", err)
	}

	session, err := w.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("close_report: session lookup: %w", err)
	}
	sales, err := w.saleRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("close_report: sales lookup: %w", err)
	}

	pdfPath, err := infra.GenerateSessionReportPDF(session, sales, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("session_id", p.SessionID).Str("pdf", pdfPath).Msg("close report generated")

	settings, err := w.settingsRepo.FindCompanySettings(ctx, companyID)
	if err != nil || settings.CompanyEmail == nil || *settings.CompanyEmail == "" {
		// No destination configured — the PDF on disk is the deliverable.
		return nil
	}

	subject := fmt.Sprintf("Close report — %s", session.CashRegisterName)
	body := fmt.Sprintf(
		"Session %s closed.\nExpected: %s\nTotal cash: %s\nTotal card/QR: %s\n",
		session.ID, session.ExpectedBalance.StringFixed(2),
		session.TotalCash.StringFixed(2), session.TotalCard.StringFixed(2),
	)
	if err := w.mailer.SendSessionReport(*settings.CompanyEmail, subject, body, pdfPath); err != nil {
		return fmt.Errorf("close_report: send mail: %w", err)
	}
	return nil
}
