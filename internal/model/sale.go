package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the terminal.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentQR   = "qr"
)

// Sale is immutable once created, except for the one-way archive flag.
//
// SessionID is set at creation time from the register's currently open
// session; session totals are computed over this foreign key rather than a
// timestamp window, so clock skew cannot misattribute a sale.
type Sale struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID `gorm:"type:uuid;index;not null"`
	SessionID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CashRegisterID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CashRegisterName string    `gorm:"not null"`
	EmployeeID       *uuid.UUID
	EmployeeName     string    `gorm:"not null;default:''"`
	Date             time.Time `gorm:"index;not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod    string          `gorm:"type:varchar(10);not null"`
	// ReceivedAmount and Change are recorded for cash tenders only.
	ReceivedAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Change         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Archived       bool             `gorm:"not null;default:false;index"`
	ArchivedAt     *time.Time
	CreatedAt      time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem snapshots the product at sale time. AppliedPrice is the cash or
// card price, chosen by the sale's payment method.
type SaleItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName  string          `gorm:"not null"`
	Category     string          `gorm:"not null;default:''"`
	Quantity     int             `gorm:"not null"`
	AppliedPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
