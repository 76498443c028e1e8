package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product carries two price lists: CashPrice applies to cash tenders,
// CardPrice to card/QR tenders. Stock is decremented on sale.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name      string          `gorm:"index;not null"`
	CashPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CardPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category  string          `gorm:"not null"`
	Image     string          `gorm:"not null;default:''"`
	Stock     int             `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
