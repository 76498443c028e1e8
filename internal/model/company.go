package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant root. Every other entity carries a CompanyID and no
// cross-company references exist.
// Plan: "free" | "basic" | "premium"
type Company struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"not null"`
	Subdomain        string    `gorm:"uniqueIndex;not null"`
	Code             string    `gorm:"uniqueIndex;not null"`
	Plan             string    `gorm:"type:varchar(20);not null;default:'free'"`
	IsActive         bool      `gorm:"not null;default:true"`
	MaxCashRegisters int       `gorm:"not null;default:3"`
	MaxProducts      int       `gorm:"not null;default:100"`
	MaxEmployees     int       `gorm:"not null;default:10"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CompanySettings holds the back-office identity and the admin credential.
// AdminPasswordHash is a bcrypt hash — plaintext secrets are never stored.
type CompanySettings struct {
	CompanyID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyName       string    `gorm:"not null"`
	CompanyAddress    *string
	CompanyPhone      *string
	CompanyEmail      *string
	CompanyTaxID      *string `gorm:"column:company_tax_id"`
	AdminUsername     string  `gorm:"not null"`
	AdminPasswordHash string  `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// APISettings stores per-company payment gateway credentials consumed by the
// relay. Tokens are opaque to the core.
type APISettings struct {
	CompanyID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	MercadoPagoAccessToken *string   `gorm:"column:mercadopago_access_token"`
	MercadoPagoPublicKey   *string   `gorm:"column:mercadopago_public_key"`
	MercadoPagoUserID      *string   `gorm:"column:mercadopago_user_id"`
	MercadoPagoStoreID     *string   `gorm:"column:mercadopago_store_id"`
	MercadoPagoPosID       *string   `gorm:"column:mercadopago_pos_id"`
	MercadoPagoEnabled     bool      `gorm:"column:mercadopago_enabled;not null;default:false"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
