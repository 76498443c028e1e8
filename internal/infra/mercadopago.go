package infra

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MPCredentials are the per-company gateway credentials pulled from
// api_settings. The relay never uses a global account.
type MPCredentials struct {
	AccessToken string
	UserID      string
	PosID       string
}

// MPOrderItem is one line of an in-store QR order.
type MPOrderItem struct {
	Title       string          `json:"title"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	UnitMeasure string          `json:"unit_measure"`
}

// MPOrder is the payload for the dynamic QR order endpoint.
type MPOrder struct {
	ExternalReference string          `json:"external_reference"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Items             []MPOrderItem   `json:"items"`
	NotificationURL   string          `json:"notification_url,omitempty"`
}

type mpQRResponse struct {
	QRData       string `json:"qr_data"`
	InStoreOrder string `json:"in_store_order_id"`
}

type mpPaymentSearchResponse struct {
	Results []struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"results"`
}

// MercadoPagoClient relays charge requests to the MercadoPago in-store QR API.
// All calls go through a circuit breaker so a gateway outage fast-fails at the
// terminal instead of hanging it.
type MercadoPagoClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

func NewMercadoPagoClient(baseURL string, breaker *CircuitBreaker) *MercadoPagoClient {
	return &MercadoPagoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		breaker:    breaker,
	}
}

func (c *MercadoPagoClient) Breaker() *CircuitBreaker { return c.breaker }

// CreateQROrder publishes a dynamic QR order on the company's point of sale
// and returns the QR payload to render at the terminal.
func (c *MercadoPagoClient) CreateQROrder(ctx context.Context, creds MPCredentials, order MPOrder) (string, error) {
	path := fmt.Sprintf("/instore/orders/qr/seller/collectors/%s/pos/%s/qrs", creds.UserID, creds.PosID)

	var qr mpQRResponse
	err := c.breaker.Execute(func() error {
		return c.do(ctx, creds, http.MethodPut, path, order, &qr)
	})
	if err != nil {
		return "", err
	}
	return qr.QRData, nil
}

type mpPointIntentResponse struct {
	ID string `json:"id"`
}

// CreatePointOrder pushes a payment intent to a Point smart terminal. The
// Point API takes integer cents, not decimals.
func (c *MercadoPagoClient) CreatePointOrder(ctx context.Context, creds MPCredentials, deviceID, externalReference string, amount decimal.Decimal) (string, error) {
	payload := map[string]interface{}{
		"amount": amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"additional_info": map[string]interface{}{
			"external_reference": externalReference,
			"print_on_terminal":  true,
		},
	}

	var intent mpPointIntentResponse
	err := c.breaker.Execute(func() error {
		path := "/point/integration-api/devices/" + url.PathEscape(deviceID) + "/payment-intents"
		return c.do(ctx, creds, http.MethodPost, path, payload, &intent)
	})
	if err != nil {
		return "", err
	}
	return intent.ID, nil
}

// FindPaymentByReference looks up the most recent payment carrying the given
// external reference. Returns ("", "", nil) when nothing matched yet.
func (c *MercadoPagoClient) FindPaymentByReference(ctx context.Context, creds MPCredentials, externalReference string) (status, paymentID string, err error) {
	path := "/v1/payments/search?sort=date_created&criteria=desc&external_reference=" + url.QueryEscape(externalReference)

	var search mpPaymentSearchResponse
	err = c.breaker.Execute(func() error {
		return c.do(ctx, creds, http.MethodGet, path, nil, &search)
	})
	if err != nil {
		return "", "", err
	}
	if len(search.Results) == 0 {
		return "", "", nil
	}
	first := search.Results[0]
	return first.Status, fmt.Sprintf("%d", first.ID), nil
}

// GetPayment fetches one payment by its gateway ID. Used by the webhook
// handler, which only receives the payment ID.
func (c *MercadoPagoClient) GetPayment(ctx context.Context, creds MPCredentials, paymentID string) (status, externalReference string, err error) {
	var payment struct {
		Status            string `json:"status"`
		ExternalReference string `json:"external_reference"`
	}
	err = c.breaker.Execute(func() error {
		return c.do(ctx, creds, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, &payment)
	})
	if err != nil {
		return "", "", err
	}
	return payment.Status, payment.ExternalReference, nil
}

// CancelQROrder removes the pending order from the point of sale. Called when
// the poll budget is exhausted without an approved payment.
func (c *MercadoPagoClient) CancelQROrder(ctx context.Context, creds MPCredentials) error {
	path := fmt.Sprintf("/instore/qr/seller/collectors/%s/pos/%s/orders", creds.UserID, creds.PosID)
	return c.breaker.Execute(func() error {
		return c.do(ctx, creds, http.MethodDelete, path, nil, nil)
	})
}

func (c *MercadoPagoClient) do(ctx context.Context, creds MPCredentials, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("mercadopago: marshal payload: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("mercadopago: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mercadopago: gateway returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mercadopago: decode response: %w", err)
	}
	return nil
}

// ── Webhook signature ─────────────────────────────────────────────────────────

// VerifyWebhookSignature checks the x-signature header against the manifest
// "id:{dataID};request-id:{requestID};ts:{ts};" signed with HMAC-SHA256.
// The header carries "ts=<unix>,v1=<hex digest>".
func VerifyWebhookSignature(secret, signatureHeader, requestID, dataID string) bool {
	if secret == "" || signatureHeader == "" {
		return false
	}

	var ts, v1 string
	for _, part := range strings.Split(signatureHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			ts = kv[1]
		case "v1":
			v1 = kv[1]
		}
	}
	if ts == "" || v1 == "" {
		return false
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(v1))
}
