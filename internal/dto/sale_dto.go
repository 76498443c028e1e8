package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type RegisterSaleRequest struct {
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card qr"`
	// ReceivedAmount is required for cash tenders; change is computed server-side.
	ReceivedAmount *decimal.Decimal `json:"received_amount"`
	// CustomerQR attaches a loyalty customer to the sale.
	CustomerQR *string `json:"customer_qr"`
}

type SaleFilter struct {
	RegisterID string
	SessionID  string
	From       string
	To         string
	Page       int
	Limit      int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	AppliedPrice decimal.Decimal `json:"applied_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	ID               string             `json:"id"`
	SessionID        string             `json:"session_id"`
	CashRegisterID   string             `json:"cash_register_id"`
	CashRegisterName string             `json:"cash_register_name"`
	EmployeeName     string             `json:"employee_name"`
	Date             string             `json:"date"`
	Items            []SaleItemResponse `json:"items"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	Total            decimal.Decimal    `json:"total"`
	PaymentMethod    string             `json:"payment_method"`
	ReceivedAmount   *decimal.Decimal   `json:"received_amount"`
	Change           *decimal.Decimal   `json:"change"`
	// Points summarizes the loyalty award when a customer was attached.
	Points *PointsAwardResponse `json:"points"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
