package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/modulartear/posventa/internal/infra"
	"github.com/modulartear/posventa/internal/repository"
)

const (
	paymentPollInterval = 2 * time.Second
	paymentPollAttempts = 60

	// PaymentStatusTTL bounds how long a charge outcome stays queryable.
	PaymentStatusTTL = 24 * time.Hour
)

// PaymentStatusKey is the Redis key holding the current status of a charge.
func PaymentStatusKey(companyID, externalReference string) string {
	return "payments:" + companyID + ":" + externalReference
}

// PaymentPollPayload identifies the pending charge to track.
type PaymentPollPayload struct {
	CompanyID         string `json:"company_id"`
	ExternalReference string `json:"external_reference"`
}

// PaymentWorker tracks a pending QR charge: it polls the gateway until the
// payment resolves or the attempt budget runs out, then cancels the order.
// The webhook may resolve the charge first; the worker notices via Redis and
// stops early.
type PaymentWorker struct {
	rdb          *redis.Client
	client       *infra.MercadoPagoClient
	settingsRepo repository.SettingsRepository
}

func NewPaymentWorker(rdb *redis.Client, client *infra.MercadoPagoClient, settingsRepo repository.SettingsRepository) *PaymentWorker {
	return &PaymentWorker{rdb: rdb, client: client, settingsRepo: settingsRepo}
}

func (w *PaymentWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p PaymentPollPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("payment_poll: unmarshal payload: %w", err)
	}
	companyID, err := uuid.Parse(p.CompanyID)
	if err != nil {
		return fmt.Errorf("payment_poll: company_id invalid: %w", err)
	}

	settings, err := w.settingsRepo.FindAPISettings(ctx, companyID)
	if err != nil {
		return fmt.Errorf("payment_poll: api settings lookup: %w", err)
	}
	creds := infra.MPCredentials{
		AccessToken: deref(settings.MercadoPagoAccessToken),
		UserID:      deref(settings.MercadoPagoUserID),
		PosID:       deref(settings.MercadoPagoPosID),
	}

	key := PaymentStatusKey(p.CompanyID, p.ExternalReference)
	ticker := time.NewTicker(paymentPollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < paymentPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		// Webhook fast-path: the handler may have resolved the charge already.
		if status, err := w.rdb.Get(ctx, key).Result(); err == nil && status != "pending" {
			return nil
		}

		status, paymentID, err := w.client.FindPaymentByReference(ctx, creds, p.ExternalReference)
		if err != nil {
			// Breaker open or gateway hiccup — keep burning attempts.
			continue
		}
		if status == "" || status == "pending" || status == "in_process" {
			continue
		}

		w.rdb.Set(ctx, key, status, PaymentStatusTTL)
		log.Info().
			Str("external_reference", p.ExternalReference).
			Str("payment_id", paymentID).
			Str("status", status).
			Msg("payment resolved")
		return nil
	}

	// Budget exhausted — take the order down so the QR cannot be paid late.
	if err := w.client.CancelQROrder(ctx, creds); err != nil {
		log.Warn().Err(err).Str("external_reference", p.ExternalReference).Msg("cancelling expired QR order")
	}
	w.rdb.Set(ctx, key, "cancelled", PaymentStatusTTL)
	log.Info().Str("external_reference", p.ExternalReference).Msg("payment timed out and was cancelled")
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
