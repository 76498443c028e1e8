package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
)

type LoyaltyService interface {
	GetProgram(ctx context.Context, companyID uuid.UUID) (*dto.LoyaltyProgramResponse, error)
	SaveProgram(ctx context.Context, companyID uuid.UUID, req dto.CreateLoyaltyProgramRequest) (*dto.LoyaltyProgramResponse, error)
	PatchProgram(ctx context.Context, companyID uuid.UUID, req dto.LoyaltyProgramPatch) (*dto.LoyaltyProgramResponse, error)

	CreateCustomer(ctx context.Context, companyID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, companyID uuid.UUID) ([]dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, companyID, id uuid.UUID) (*dto.CustomerResponse, error)

	// AwardPoints applies the company program to a completed sale. A nil
	// response with nil error means no program applied.
	AwardPoints(ctx context.Context, companyID uuid.UUID, customerQR string, sale *model.Sale, itemCount int) (*dto.PointsAwardResponse, error)
}

type loyaltyService struct {
	repo         repository.LoyaltyRepository
	customerRepo repository.CustomerRepository
}

func NewLoyaltyService(repo repository.LoyaltyRepository, customerRepo repository.CustomerRepository) LoyaltyService {
	return &loyaltyService{repo: repo, customerRepo: customerRepo}
}

// ── AwardPoints ───────────────────────────────────────────────────────────────
// Floor division in both modes: a program of 1 point per $100 awards 4 points
// on a $450 sale. Crossing the reward threshold resets the balance to zero.

func (s *loyaltyService) AwardPoints(ctx context.Context, companyID uuid.UUID, customerQR string, sale *model.Sale, itemCount int) (*dto.PointsAwardResponse, error) {
	program, err := s.repo.FindByCompany(ctx, companyID)
	if err != nil || !program.IsActive {
		return nil, nil
	}

	if program.MinPurchase != nil && sale.Total.LessThan(*program.MinPurchase) {
		return nil, nil
	}
	if program.MinItems != nil && itemCount < *program.MinItems {
		return nil, nil
	}

	earned := calculatePoints(program, sale.Total, itemCount)
	if earned <= 0 {
		return nil, nil
	}

	customer, err := s.customerRepo.FindByQRCode(ctx, companyID, customerQR)
	if err != nil {
		return nil, errors.New("customer not found")
	}

	points, err := s.customerRepo.FindPoints(ctx, customer.ID)
	if err != nil {
		points = &model.CustomerPoints{
			ID:         uuid.New(),
			CompanyID:  companyID,
			CustomerID: customer.ID,
		}
	}

	points.PointsBalance += earned
	points.LifetimePoints += earned

	saleID := sale.ID
	if err := s.customerRepo.CreateTransaction(ctx, &model.PointTransaction{
		ID:           uuid.New(),
		CompanyID:    companyID,
		CustomerID:   customer.ID,
		SaleID:       &saleID,
		PointsChange: earned,
		Reason:       "purchase",
	}); err != nil {
		return nil, err
	}

	resp := &dto.PointsAwardResponse{
		PointsEarned: earned,
		ProgramName:  program.Name,
	}

	if program.RewardThresholdPoints != nil && points.PointsBalance >= *program.RewardThresholdPoints {
		redeemed := points.PointsBalance
		points.PointsBalance = 0
		resp.RewardAvailable = true
		if program.RewardLabel != nil {
			resp.RewardLabel = *program.RewardLabel
		}
		if err := s.customerRepo.CreateTransaction(ctx, &model.PointTransaction{
			ID:           uuid.New(),
			CompanyID:    companyID,
			CustomerID:   customer.ID,
			SaleID:       &saleID,
			PointsChange: -redeemed,
			Reason:       "reward",
		}); err != nil {
			log.Error().Err(err).Str("customer_id", customer.ID.String()).Msg("recording reward redemption")
		}
	}

	if err := s.customerRepo.SavePoints(ctx, points); err != nil {
		return nil, err
	}
	resp.NewBalance = points.PointsBalance
	return resp, nil
}

// calculatePoints converts the sale into points under the program's mode.
func calculatePoints(p *model.LoyaltyProgram, total decimal.Decimal, itemCount int) int {
	switch p.CalculationType {
	case model.LoyaltyByQuantity:
		unit := int(p.UnitValue.IntPart())
		if unit <= 0 {
			return 0
		}
		return (itemCount / unit) * p.PointsPerUnit
	default: // amount
		if p.UnitValue.IsZero() || p.UnitValue.IsNegative() {
			return 0
		}
		units := total.Div(p.UnitValue).Floor()
		return int(units.IntPart()) * p.PointsPerUnit
	}
}

// ── Program ───────────────────────────────────────────────────────────────────

func (s *loyaltyService) GetProgram(ctx context.Context, companyID uuid.UUID) (*dto.LoyaltyProgramResponse, error) {
	program, err := s.repo.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return programToResponse(program), nil
}

func (s *loyaltyService) SaveProgram(ctx context.Context, companyID uuid.UUID, req dto.CreateLoyaltyProgramRequest) (*dto.LoyaltyProgramResponse, error) {
	program, err := s.repo.FindByCompany(ctx, companyID)
	if err != nil {
		program = &model.LoyaltyProgram{ID: uuid.New(), CompanyID: companyID}
	}
	program.Name = req.Name
	program.CalculationType = req.CalculationType
	program.PointsPerUnit = req.PointsPerUnit
	program.UnitValue = req.UnitValue
	program.MinPurchase = req.MinPurchase
	program.MinItems = req.MinItems
	program.RewardThresholdPoints = req.RewardThresholdPoints
	program.RewardLabel = req.RewardLabel
	program.IsActive = true
	program.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, program); err != nil {
		return nil, err
	}
	return programToResponse(program), nil
}

func (s *loyaltyService) PatchProgram(ctx context.Context, companyID uuid.UUID, req dto.LoyaltyProgramPatch) (*dto.LoyaltyProgramResponse, error) {
	program, err := s.repo.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.CalculationType != nil {
		program.CalculationType = *req.CalculationType
	}
	if req.PointsPerUnit != nil {
		program.PointsPerUnit = *req.PointsPerUnit
	}
	if req.UnitValue != nil {
		program.UnitValue = *req.UnitValue
	}
	if req.MinPurchase != nil {
		program.MinPurchase = req.MinPurchase
	}
	if req.MinItems != nil {
		program.MinItems = req.MinItems
	}
	if req.RewardThresholdPoints != nil {
		program.RewardThresholdPoints = req.RewardThresholdPoints
	}
	if req.RewardLabel != nil {
		program.RewardLabel = req.RewardLabel
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}
	program.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, program); err != nil {
		return nil, err
	}
	return programToResponse(program), nil
}

// ── Customers ─────────────────────────────────────────────────────────────────

func (s *loyaltyService) CreateCustomer(ctx context.Context, companyID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	customer.QRCode = "cust-" + customer.ID.String()
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return s.customerToResponse(ctx, customer), nil
}

func (s *loyaltyService) ListCustomers(ctx context.Context, companyID uuid.UUID) ([]dto.CustomerResponse, error) {
	customers, err := s.customerRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		resp = append(resp, *s.customerToResponse(ctx, &customers[i]))
	}
	return resp, nil
}

func (s *loyaltyService) GetCustomer(ctx context.Context, companyID, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return s.customerToResponse(ctx, customer), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *loyaltyService) customerToResponse(ctx context.Context, c *model.Customer) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:     c.ID.String(),
		Name:   c.Name,
		Email:  c.Email,
		Phone:  c.Phone,
		QRCode: c.QRCode,
	}
	if points, err := s.customerRepo.FindPoints(ctx, c.ID); err == nil {
		resp.PointsBalance = points.PointsBalance
		resp.LifetimePoints = points.LifetimePoints
	}
	return resp
}

func programToResponse(p *model.LoyaltyProgram) *dto.LoyaltyProgramResponse {
	return &dto.LoyaltyProgramResponse{
		ID:                    p.ID.String(),
		Name:                  p.Name,
		CalculationType:       p.CalculationType,
		PointsPerUnit:         p.PointsPerUnit,
		UnitValue:             p.UnitValue,
		MinPurchase:           p.MinPurchase,
		MinItems:              p.MinItems,
		RewardThresholdPoints: p.RewardThresholdPoints,
		RewardLabel:           p.RewardLabel,
		IsActive:              p.IsActive,
	}
}
