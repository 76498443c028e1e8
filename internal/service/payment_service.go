package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/modulartear/posventa/internal/config"
	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/infra"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
	"github.com/modulartear/posventa/internal/worker"
)

type PaymentService interface {
	// CreateCharge publishes a QR order on the company's point of sale and
	// schedules the background poll that tracks it.
	CreateCharge(ctx context.Context, companyID uuid.UUID, req dto.CreateChargeRequest) (*dto.ChargeResponse, error)
	GetStatus(ctx context.Context, companyID uuid.UUID, externalReference string) (*dto.PaymentStatusResponse, error)
	// HandleWebhook resolves a charge from a gateway notification. The
	// signature is verified before anything else is trusted.
	HandleWebhook(ctx context.Context, companyID uuid.UUID, signatureHeader, requestID, dataID string) error

	GetAPISettings(ctx context.Context, companyID uuid.UUID) (*dto.APISettingsResponse, error)
	PatchAPISettings(ctx context.Context, companyID uuid.UUID, req dto.APISettingsPatch) (*dto.APISettingsResponse, error)
}

type paymentService struct {
	settingsRepo repository.SettingsRepository
	client       *infra.MercadoPagoClient
	rdb          *redis.Client
	dispatcher   *worker.Dispatcher
	cfg          *config.Config
}

func NewPaymentService(
	settingsRepo repository.SettingsRepository,
	client *infra.MercadoPagoClient,
	rdb *redis.Client,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		settingsRepo: settingsRepo,
		client:       client,
		rdb:          rdb,
		dispatcher:   dispatcher,
		cfg:          cfg,
	}
}

// ── CreateCharge ──────────────────────────────────────────────────────────────

func (s *paymentService) CreateCharge(ctx context.Context, companyID uuid.UUID, req dto.CreateChargeRequest) (*dto.ChargeResponse, error) {
	creds, err := s.credentials(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.DeviceID != "" {
		if _, err := s.client.CreatePointOrder(ctx, creds, req.DeviceID, req.ExternalReference, req.Amount); err != nil {
			return nil, err
		}
		return s.trackPending(ctx, companyID, req, "")
	}

	order := infra.MPOrder{
		ExternalReference: req.ExternalReference,
		Title:             req.Description,
		Description:       req.Description,
		TotalAmount:       req.Amount,
		Items: []infra.MPOrderItem{{
			Title:       req.Description,
			Quantity:    1,
			UnitPrice:   req.Amount,
			TotalAmount: req.Amount,
			UnitMeasure: "unit",
		}},
	}
	if s.cfg.Domain != "" {
		order.NotificationURL = fmt.Sprintf("https://%s/api/webhooks/mercadopago?company_id=%s", s.cfg.Domain, companyID)
	}

	qrData, err := s.client.CreateQROrder(ctx, creds, order)
	if err != nil {
		return nil, err
	}
	return s.trackPending(ctx, companyID, req, qrData)
}

// trackPending seeds the charge status and schedules the poll job that
// follows it. Both payment flows converge here.
func (s *paymentService) trackPending(ctx context.Context, companyID uuid.UUID, req dto.CreateChargeRequest, qrData string) (*dto.ChargeResponse, error) {
	key := worker.PaymentStatusKey(companyID.String(), req.ExternalReference)
	if err := s.rdb.Set(ctx, key, "pending", worker.PaymentStatusTTL).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("storing pending charge")
	}

	if err := s.dispatcher.EnqueuePaymentPoll(ctx, worker.PaymentPollPayload{
		CompanyID:         companyID.String(),
		ExternalReference: req.ExternalReference,
	}); err != nil {
		log.Error().Err(err).Str("external_reference", req.ExternalReference).Msg("enqueueing payment poll")
	}

	return &dto.ChargeResponse{
		OrderID:           req.ExternalReference,
		QRData:            qrData,
		ExternalReference: req.ExternalReference,
		Status:            "pending",
	}, nil
}

// ── GetStatus ─────────────────────────────────────────────────────────────────

func (s *paymentService) GetStatus(ctx context.Context, companyID uuid.UUID, externalReference string) (*dto.PaymentStatusResponse, error) {
	key := worker.PaymentStatusKey(companyID.String(), externalReference)
	status, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return &dto.PaymentStatusResponse{Status: "not_found", ExternalReference: externalReference}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.PaymentStatusResponse{Status: status, ExternalReference: externalReference}, nil
}

// ── HandleWebhook ─────────────────────────────────────────────────────────────

func (s *paymentService) HandleWebhook(ctx context.Context, companyID uuid.UUID, signatureHeader, requestID, dataID string) error {
	if !infra.VerifyWebhookSignature(s.cfg.MPWebhookSecret, signatureHeader, requestID, dataID) {
		return errors.New("webhook signature mismatch")
	}

	creds, err := s.credentials(ctx, companyID)
	if err != nil {
		return err
	}

	status, externalReference, err := s.client.GetPayment(ctx, creds, dataID)
	if err != nil {
		return err
	}
	if externalReference == "" {
		return nil
	}

	key := worker.PaymentStatusKey(companyID.String(), externalReference)
	if err := s.rdb.Set(ctx, key, status, worker.PaymentStatusTTL).Err(); err != nil {
		return err
	}
	log.Info().
		Str("external_reference", externalReference).
		Str("status", status).
		Msg("charge resolved via webhook")
	return nil
}

// ── API settings ──────────────────────────────────────────────────────────────

func (s *paymentService) GetAPISettings(ctx context.Context, companyID uuid.UUID) (*dto.APISettingsResponse, error) {
	settings, err := s.settingsRepo.FindAPISettings(ctx, companyID)
	if err != nil {
		// Unconfigured companies see the disabled default, not an error.
		return &dto.APISettingsResponse{}, nil
	}
	return apiSettingsToResponse(settings), nil
}

func (s *paymentService) PatchAPISettings(ctx context.Context, companyID uuid.UUID, req dto.APISettingsPatch) (*dto.APISettingsResponse, error) {
	settings, err := s.settingsRepo.FindAPISettings(ctx, companyID)
	if err != nil {
		settings = &model.APISettings{CompanyID: companyID}
	}
	if req.MercadoPagoAccessToken != nil {
		settings.MercadoPagoAccessToken = req.MercadoPagoAccessToken
	}
	if req.MercadoPagoPublicKey != nil {
		settings.MercadoPagoPublicKey = req.MercadoPagoPublicKey
	}
	if req.MercadoPagoUserID != nil {
		settings.MercadoPagoUserID = req.MercadoPagoUserID
	}
	if req.MercadoPagoStoreID != nil {
		settings.MercadoPagoStoreID = req.MercadoPagoStoreID
	}
	if req.MercadoPagoPosID != nil {
		settings.MercadoPagoPosID = req.MercadoPagoPosID
	}
	if req.MercadoPagoEnabled != nil {
		settings.MercadoPagoEnabled = *req.MercadoPagoEnabled
	}
	if err := s.settingsRepo.SaveAPISettings(ctx, settings); err != nil {
		return nil, err
	}
	return apiSettingsToResponse(settings), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *paymentService) credentials(ctx context.Context, companyID uuid.UUID) (infra.MPCredentials, error) {
	settings, err := s.settingsRepo.FindAPISettings(ctx, companyID)
	if err != nil {
		return infra.MPCredentials{}, ErrGatewayDisabled
	}
	if !settings.MercadoPagoEnabled || settings.MercadoPagoAccessToken == nil {
		return infra.MPCredentials{}, ErrGatewayDisabled
	}
	creds := infra.MPCredentials{AccessToken: *settings.MercadoPagoAccessToken}
	if settings.MercadoPagoUserID != nil {
		creds.UserID = *settings.MercadoPagoUserID
	}
	if settings.MercadoPagoPosID != nil {
		creds.PosID = *settings.MercadoPagoPosID
	}
	if creds.UserID == "" || creds.PosID == "" {
		return infra.MPCredentials{}, ErrGatewayDisabled
	}
	return creds, nil
}

func apiSettingsToResponse(s *model.APISettings) *dto.APISettingsResponse {
	resp := &dto.APISettingsResponse{
		MercadoPagoEnabled: s.MercadoPagoEnabled,
		HasAccessToken:     s.MercadoPagoAccessToken != nil && *s.MercadoPagoAccessToken != "",
		HasPublicKey:       s.MercadoPagoPublicKey != nil && *s.MercadoPagoPublicKey != "",
	}
	if s.MercadoPagoUserID != nil {
		resp.MercadoPagoUserID = *s.MercadoPagoUserID
	}
	if s.MercadoPagoStoreID != nil {
		resp.MercadoPagoStoreID = *s.MercadoPagoStoreID
	}
	if s.MercadoPagoPosID != nil {
		resp.MercadoPagoPosID = *s.MercadoPagoPosID
	}
	return resp
}
