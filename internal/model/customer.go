package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is identified at the terminal by scanning QRCode.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      *string
	Email     *string
	Phone     *string
	QRCode    string `gorm:"uniqueIndex;not null;column:qr_code"`
	CreatedAt time.Time
}

// CustomerPoints is the running loyalty balance per customer.
type CustomerPoints struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	PointsBalance  int       `gorm:"not null;default:0"`
	LifetimePoints int       `gorm:"not null;default:0"`
	UpdatedAt      time.Time
}

// PointTransaction is an append-only record of every points change.
type PointTransaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	SaleID       *uuid.UUID
	PointsChange int    `gorm:"not null"`
	Reason       string `gorm:"not null;default:''"`
	CreatedAt    time.Time
}
