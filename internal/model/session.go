package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status values.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// CashRegisterSession is the bounded period between a register's opening and
// closing. Totals accrue while open and are frozen at close; the archived
// flag is a later, one-way visibility reclassification that never touches
// Status or the frozen figures.
//
// ExpectedBalance = OpeningBalance + TotalCash. Card/QR tenders never touch
// the physical drawer, so they are excluded from the expectation.
type CashRegisterSession struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CashRegisterID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CashRegisterName string    `gorm:"not null"`
	EmployeeID       *uuid.UUID
	EmployeeName     string `gorm:"not null;default:''"`
	OpenedAt         time.Time
	ClosedAt         *time.Time
	OpeningBalance   decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ClosingBalance   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedBalance  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	// TotalSales is a sale count, not an amount.
	TotalSales int             `gorm:"not null;default:0"`
	TotalCash  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCard  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status     string          `gorm:"type:varchar(10);not null;default:'open';index"`
	Archived   bool            `gorm:"not null;default:false;index"`
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
