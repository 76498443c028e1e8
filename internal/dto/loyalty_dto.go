package dto

import "github.com/shopspring/decimal"

type CreateLoyaltyProgramRequest struct {
	Name                  string           `json:"name"             validate:"required,min=1"`
	CalculationType       string           `json:"calculation_type" validate:"required,oneof=amount quantity"`
	PointsPerUnit         int              `json:"points_per_unit"  validate:"required,gt=0"`
	UnitValue             decimal.Decimal  `json:"unit_value"       validate:"required"`
	MinPurchase           *decimal.Decimal `json:"min_purchase"`
	MinItems              *int             `json:"min_items"`
	RewardThresholdPoints *int             `json:"reward_threshold_points"`
	RewardLabel           *string          `json:"reward_label"`
}

type CreateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
}

type LoyaltyProgramPatch struct {
	Name                  *string          `json:"name"             validate:"omitempty,min=1"`
	CalculationType       *string          `json:"calculation_type" validate:"omitempty,oneof=amount quantity"`
	PointsPerUnit         *int             `json:"points_per_unit"  validate:"omitempty,gt=0"`
	UnitValue             *decimal.Decimal `json:"unit_value"`
	MinPurchase           *decimal.Decimal `json:"min_purchase"`
	MinItems              *int             `json:"min_items"`
	RewardThresholdPoints *int             `json:"reward_threshold_points"`
	RewardLabel           *string          `json:"reward_label"`
	IsActive              *bool            `json:"is_active"`
}

type LoyaltyProgramResponse struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	CalculationType       string           `json:"calculation_type"`
	PointsPerUnit         int              `json:"points_per_unit"`
	UnitValue             decimal.Decimal  `json:"unit_value"`
	MinPurchase           *decimal.Decimal `json:"min_purchase"`
	MinItems              *int             `json:"min_items"`
	RewardThresholdPoints *int             `json:"reward_threshold_points"`
	RewardLabel           *string          `json:"reward_label"`
	IsActive              bool             `json:"is_active"`
}

type PointsAwardResponse struct {
	PointsEarned    int    `json:"points_earned"`
	NewBalance      int    `json:"new_balance"`
	ProgramName     string `json:"program_name"`
	RewardAvailable bool   `json:"reward_available"`
	RewardLabel     string `json:"reward_label,omitempty"`
}

type CustomerResponse struct {
	ID             string  `json:"id"`
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	QRCode         string  `json:"qr_code"`
	PointsBalance  int     `json:"points_balance"`
	LifetimePoints int     `json:"lifetime_points"`
}
