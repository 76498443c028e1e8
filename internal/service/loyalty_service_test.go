package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
)

func TestCalculatePointsByAmount(t *testing.T) {
	program := &model.LoyaltyProgram{
		CalculationType: model.LoyaltyByAmount,
		PointsPerUnit:   2,
		UnitValue:       decimal.NewFromInt(100),
	}

	// Floor division: 250 / 100 → 2 units → 4 points.
	assert.Equal(t, 4, calculatePoints(program, decimal.NewFromInt(250), 1))
	assert.Equal(t, 0, calculatePoints(program, decimal.NewFromInt(99), 1))
	assert.Equal(t, 2, calculatePoints(program, decimal.NewFromInt(100), 1))

	program.UnitValue = decimal.Zero
	assert.Equal(t, 0, calculatePoints(program, decimal.NewFromInt(1000), 1))
}

func TestCalculatePointsByQuantity(t *testing.T) {
	program := &model.LoyaltyProgram{
		CalculationType: model.LoyaltyByQuantity,
		PointsPerUnit:   5,
		UnitValue:       decimal.NewFromInt(3),
	}

	// 7 items / 3 per unit → 2 units → 10 points.
	assert.Equal(t, 10, calculatePoints(program, decimal.Zero, 7))
	assert.Equal(t, 0, calculatePoints(program, decimal.Zero, 2))
}

func loyaltyFixture(t *testing.T) (uuid.UUID, *fakeLoyaltyRepo, *fakeCustomerRepo, LoyaltyService, *model.Customer) {
	t.Helper()
	companyID := uuid.New()
	loyaltyRepo := newFakeLoyaltyRepo()
	customerRepo := newFakeCustomerRepo()
	svc := NewLoyaltyService(loyaltyRepo, customerRepo)

	customer := &model.Customer{ID: uuid.New(), CompanyID: companyID, QRCode: "qr-1"}
	require.NoError(t, customerRepo.Create(context.Background(), customer))
	return companyID, loyaltyRepo, customerRepo, svc, customer
}

func testSale(companyID uuid.UUID, total int64) *model.Sale {
	return &model.Sale{
		ID:        uuid.New(),
		CompanyID: companyID,
		Total:     decimal.NewFromInt(total),
	}
}

func TestAwardPointsNoProgram(t *testing.T) {
	companyID, _, _, svc, _ := loyaltyFixture(t)

	resp, err := svc.AwardPoints(context.Background(), companyID, "qr-1", testSale(companyID, 500), 1)
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestAwardPointsBelowMinimumPurchase(t *testing.T) {
	companyID, loyaltyRepo, _, svc, _ := loyaltyFixture(t)

	min := decimal.NewFromInt(1000)
	loyaltyRepo.programs[companyID] = &model.LoyaltyProgram{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Name:            "Rewards",
		CalculationType: model.LoyaltyByAmount,
		PointsPerUnit:   1,
		UnitValue:       decimal.NewFromInt(100),
		MinPurchase:     &min,
		IsActive:        true,
	}

	resp, err := svc.AwardPoints(context.Background(), companyID, "qr-1", testSale(companyID, 500), 1)
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestAwardPointsAccumulates(t *testing.T) {
	companyID, loyaltyRepo, customerRepo, svc, customer := loyaltyFixture(t)

	loyaltyRepo.programs[companyID] = &model.LoyaltyProgram{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Name:            "Rewards",
		CalculationType: model.LoyaltyByAmount,
		PointsPerUnit:   1,
		UnitValue:       decimal.NewFromInt(100),
		IsActive:        true,
	}

	resp, err := svc.AwardPoints(context.Background(), companyID, "qr-1", testSale(companyID, 350), 1)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 3, resp.PointsEarned)
	assert.Equal(t, 3, resp.NewBalance)
	assert.False(t, resp.RewardAvailable)

	resp, err = svc.AwardPoints(context.Background(), companyID, "qr-1", testSale(companyID, 200), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.NewBalance)

	points, err := customerRepo.FindPoints(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, points.PointsBalance)
	assert.Equal(t, 5, points.LifetimePoints)
}

func TestAwardPointsRewardThresholdResetsBalance(t *testing.T) {
	companyID, loyaltyRepo, customerRepo, svc, customer := loyaltyFixture(t)

	threshold := 10
	label := "Free coffee"
	loyaltyRepo.programs[companyID] = &model.LoyaltyProgram{
		ID:                    uuid.New(),
		CompanyID:             companyID,
		Name:                  "Rewards",
		CalculationType:       model.LoyaltyByAmount,
		PointsPerUnit:         1,
		UnitValue:             decimal.NewFromInt(100),
		RewardThresholdPoints: &threshold,
		RewardLabel:           &label,
		IsActive:              true,
	}

	resp, err := svc.AwardPoints(context.Background(), companyID, "qr-1", testSale(companyID, 1200), 1)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 12, resp.PointsEarned)
	assert.True(t, resp.RewardAvailable)
	assert.Equal(t, "Free coffee", resp.RewardLabel)
	// Crossing the threshold spends the whole balance.
	assert.Equal(t, 0, resp.NewBalance)

	points, err := customerRepo.FindPoints(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, points.PointsBalance)
	// Lifetime total is never reduced by a redemption.
	assert.Equal(t, 12, points.LifetimePoints)

	// Ledger shows the earn and the redemption as separate entries.
	txs, err := customerRepo.ListTransactions(context.Background(), customer.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, 12, txs[0].PointsChange)
	assert.Equal(t, "purchase", txs[0].Reason)
	assert.Equal(t, -12, txs[1].PointsChange)
	assert.Equal(t, "reward", txs[1].Reason)
}

func TestCreateCustomerIssuesQRCode(t *testing.T) {
	companyID, _, _, svc, _ := loyaltyFixture(t)

	name := "Ana"
	resp, err := svc.CreateCustomer(context.Background(), companyID, dto.CreateCustomerRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "cust-"+resp.ID, resp.QRCode)
}
