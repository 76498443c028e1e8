package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loyalty calculation types.
const (
	LoyaltyByAmount   = "amount"
	LoyaltyByQuantity = "quantity"
)

// LoyaltyProgram defines how purchases convert to points: every UnitValue of
// spend (or every UnitValue items) earns PointsPerUnit, floor division.
type LoyaltyProgram struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Name            string          `gorm:"not null"`
	CalculationType string          `gorm:"type:varchar(10);not null;default:'amount'"`
	PointsPerUnit   int             `gorm:"not null;default:1"`
	UnitValue       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinPurchase     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MinItems        *int
	// RewardThresholdPoints, when set, resets the balance to zero once crossed
	// and flags the reward as available.
	RewardThresholdPoints *int
	RewardLabel           *string
	IsActive              bool `gorm:"not null;default:false"`
	UpdatedAt             time.Time
}
