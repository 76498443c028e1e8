package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegister is a named till with its own open/close lifecycle.
//
// AccessToken is an unguessable capability string: a terminal addressed by it
// may record sales without a login step, but only while IsActive is true.
//
// Invariant: IsActive == true should imply exactly one open
// CashRegisterSession for this register. The invariant is not enforced by a
// transaction — it is checked reactively and repaired through an
// operator-confirmed flow (see RegisterService.Repair).
type CashRegister struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name         string    `gorm:"not null"`
	EmployeeID   *uuid.UUID
	EmployeeName string `gorm:"not null;default:''"`
	IsActive     bool   `gorm:"not null;default:false"`
	// OpeningBalance and CurrentBalance are reset to zero on close: the next
	// opening always starts from an explicitly entered amount.
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	OpenedAt       *time.Time
	ClosedAt       *time.Time
	AccessToken    string `gorm:"uniqueIndex;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
