package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulartear/posventa/internal/model"
)

func newTestRegister(companyID uuid.UUID) *model.CashRegister {
	return &model.CashRegister{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Name:        "Main Register",
		AccessToken: "main-register-deadbeef",
	}
}

func addSale(repo *fakeSaleRepo, companyID, sessionID, registerID uuid.UUID, method string, total decimal.Decimal) {
	repo.sales[uuid.New()] = &model.Sale{
		ID:             uuid.New(),
		CompanyID:      companyID,
		SessionID:      sessionID,
		CashRegisterID: registerID,
		PaymentMethod:  method,
		Subtotal:       total,
		Total:          total,
	}
}

func TestSessionRefreshTotals(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	svc := NewSessionService(sessionRepo, saleRepo)

	companyID := uuid.New()
	reg := newTestRegister(companyID)

	session, err := svc.Start(context.Background(), reg, decimal.NewFromInt(10000))
	require.NoError(t, err)

	addSale(saleRepo, companyID, session.ID, reg.ID, model.PaymentCash, decimal.NewFromInt(500))
	addSale(saleRepo, companyID, session.ID, reg.ID, model.PaymentCard, decimal.NewFromInt(300))
	addSale(saleRepo, companyID, session.ID, reg.ID, model.PaymentQR, decimal.NewFromInt(200))

	refreshed, err := svc.RefreshTotals(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, refreshed.TotalSales)
	assert.Equal(t, "500", refreshed.TotalCash.String())
	// QR joins card in the non-drawer bucket.
	assert.Equal(t, "500", refreshed.TotalCard.String())
	// Only cash raises the drawer expectation.
	assert.Equal(t, "10500", refreshed.ExpectedBalance.String())
}

func TestSessionCloseVariance(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	svc := NewSessionService(sessionRepo, saleRepo)

	companyID := uuid.New()
	reg := newTestRegister(companyID)

	session, err := svc.Start(context.Background(), reg, decimal.NewFromInt(10000))
	require.NoError(t, err)
	addSale(saleRepo, companyID, session.ID, reg.ID, model.PaymentCash, decimal.NewFromInt(500))

	// Counted 10450 against expected 10500: a 50 shortfall, reported but
	// never blocking.
	closed, variance, err := svc.Close(context.Background(), session.ID, decimal.NewFromInt(10450))
	require.NoError(t, err)

	assert.Equal(t, model.SessionClosed, closed.Status)
	assert.Equal(t, "-50", variance.String())
	require.NotNil(t, closed.ClosingBalance)
	assert.Equal(t, "10450", closed.ClosingBalance.String())
	assert.NotNil(t, closed.ClosedAt)
}

func TestSessionCloseTwiceRejected(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	svc := NewSessionService(sessionRepo, saleRepo)

	reg := newTestRegister(uuid.New())
	session, err := svc.Start(context.Background(), reg, decimal.NewFromInt(1000))
	require.NoError(t, err)

	_, _, err = svc.Close(context.Background(), session.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)

	_, _, err = svc.Close(context.Background(), session.ID, decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, ErrNoOpenSession)
}

func TestSessionStartGuardsDuplicate(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	svc := NewSessionService(sessionRepo, saleRepo)

	reg := newTestRegister(uuid.New())
	_, err := svc.Start(context.Background(), reg, decimal.NewFromInt(1000))
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), reg, decimal.NewFromInt(2000))
	assert.ErrorIs(t, err, ErrSessionConflict)
}

func TestSessionStartPropagatesLookupFailure(t *testing.T) {
	dbDown := errors.New("connection refused")
	repo := &failingSessionRepo{fakeSessionRepo: newFakeSessionRepo(), findOpenErr: dbDown}
	svc := NewSessionService(repo, newFakeSaleRepo())

	// A failed duplicate check must not be read as "no open session".
	_, err := svc.Start(context.Background(), newTestRegister(uuid.New()), decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, dbDown)
	assert.Empty(t, repo.sessions)
}

func TestSessionFindOpenSeparatesMissingFromFailure(t *testing.T) {
	repo := &failingSessionRepo{fakeSessionRepo: newFakeSessionRepo()}
	svc := NewSessionService(repo, newFakeSaleRepo())

	_, err := svc.FindOpen(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoOpenSession)

	dbDown := errors.New("connection refused")
	repo.findOpenErr = dbDown
	_, err = svc.FindOpen(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dbDown)
	assert.NotErrorIs(t, err, ErrNoOpenSession)
}

func TestSessionGetEnforcesTenancy(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	svc := NewSessionService(sessionRepo, saleRepo)

	reg := newTestRegister(uuid.New())
	session, err := svc.Start(context.Background(), reg, decimal.NewFromInt(1000))
	require.NoError(t, err)

	// Another company's ID sees not-found, not someone else's session.
	_, err = svc.Get(context.Background(), uuid.New(), session.ID)
	assert.Error(t, err)

	resp, err := svc.Get(context.Background(), reg.CompanyID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID.String(), resp.ID)
}
