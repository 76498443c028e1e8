package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateRegisterRequest struct {
	Name       string  `json:"name"        validate:"required,min=1"`
	EmployeeID *string `json:"employee_id" validate:"omitempty,uuid"`
}

type RegisterPatch struct {
	Name       *string `json:"name"        validate:"omitempty,min=1"`
	EmployeeID *string `json:"employee_id" validate:"omitempty,uuid"`
}

type OpenRegisterRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
	// Force confirms closing a stale open session (using the register's
	// current balance as the counted amount) before opening a new one.
	Force bool `json:"force"`
}

type CloseRegisterRequest struct {
	CountedBalance decimal.Decimal `json:"counted_balance" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RegisterResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	EmployeeID     *string         `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	IsActive       bool            `json:"is_active"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	OpenedAt       *string         `json:"opened_at"`
	ClosedAt       *string         `json:"closed_at"`
	AccessToken    string          `json:"access_token"`
}
