package dto

import "github.com/shopspring/decimal"

type SessionResponse struct {
	ID               string          `json:"id"`
	CashRegisterID   string          `json:"cash_register_id"`
	CashRegisterName string          `json:"cash_register_name"`
	EmployeeID       *string         `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	OpenedAt         string          `json:"opened_at"`
	ClosedAt         *string         `json:"closed_at"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	ClosingBalance   *decimal.Decimal `json:"closing_balance"`
	ExpectedBalance  decimal.Decimal `json:"expected_balance"`
	TotalSales       int             `json:"total_sales"`
	TotalCash        decimal.Decimal `json:"total_cash"`
	TotalCard        decimal.Decimal `json:"total_card"`
	Status           string          `json:"status"`
	Archived         bool            `json:"archived"`
	ArchivedAt       *string         `json:"archived_at"`
}

// CloseSessionResponse reports the reconciliation outcome. Variance is
// informational only — a shortfall or surplus never blocks the close.
type CloseSessionResponse struct {
	Session  SessionResponse `json:"session"`
	Variance decimal.Decimal `json:"variance"`
}

type SessionListResponse struct {
	Data  []SessionResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
