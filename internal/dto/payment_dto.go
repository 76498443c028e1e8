package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateChargeRequest struct {
	Amount            decimal.Decimal `json:"amount"             validate:"required,gt=0"`
	Description       string          `json:"description"        validate:"required"`
	ExternalReference string          `json:"external_reference" validate:"required"`
	// DeviceID routes the charge to a Point smart terminal instead of a QR.
	DeviceID string `json:"device_id,omitempty"`
}

type APISettingsPatch struct {
	MercadoPagoAccessToken *string `json:"mercadopago_access_token"`
	MercadoPagoPublicKey   *string `json:"mercadopago_public_key"`
	MercadoPagoUserID      *string `json:"mercadopago_user_id"`
	MercadoPagoStoreID     *string `json:"mercadopago_store_id"`
	MercadoPagoPosID       *string `json:"mercadopago_pos_id"`
	MercadoPagoEnabled     *bool   `json:"mercadopago_enabled"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ChargeResponse struct {
	OrderID           string `json:"order_id"`
	QRData            string `json:"qr_data,omitempty"`
	ExternalReference string `json:"external_reference"`
	Status            string `json:"status"`
}

type PaymentStatusResponse struct {
	Status            string `json:"status"` // pending | approved | rejected | cancelled | not_found
	PaymentID         string `json:"payment_id,omitempty"`
	ExternalReference string `json:"external_reference"`
}

type APISettingsResponse struct {
	MercadoPagoEnabled  bool   `json:"mercadopago_enabled"`
	MercadoPagoUserID   string `json:"mercadopago_user_id,omitempty"`
	MercadoPagoStoreID  string `json:"mercadopago_store_id,omitempty"`
	MercadoPagoPosID    string `json:"mercadopago_pos_id,omitempty"`
	HasAccessToken      bool   `json:"has_access_token"`
	HasPublicKey        bool   `json:"has_public_key"`
}
