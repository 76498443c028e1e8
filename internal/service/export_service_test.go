package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulartear/posventa/internal/model"
)

func closedSession(companyID uuid.UUID) *model.CashRegisterSession {
	opened := time.Now().UTC().Add(-2 * time.Hour)
	closed := time.Now().UTC()
	closing := decimal.NewFromInt(1500)
	return &model.CashRegisterSession{
		ID:               uuid.New(),
		CompanyID:        companyID,
		CashRegisterID:   uuid.New(),
		CashRegisterName: "Front Desk",
		OpenedAt:         opened,
		ClosedAt:         &closed,
		OpeningBalance:   decimal.NewFromInt(1000),
		ClosingBalance:   &closing,
		ExpectedBalance:  decimal.NewFromInt(1500),
		TotalSales:       1,
		TotalCash:        decimal.NewFromInt(500),
		TotalCard:        decimal.Zero,
		Status:           model.SessionClosed,
	}
}

func sessionSale(companyID uuid.UUID, s *model.CashRegisterSession) *model.Sale {
	return &model.Sale{
		ID:               uuid.New(),
		CompanyID:        companyID,
		SessionID:        s.ID,
		CashRegisterID:   s.CashRegisterID,
		CashRegisterName: s.CashRegisterName,
		Date:             time.Now().UTC(),
		Subtotal:         decimal.NewFromInt(500),
		Total:            decimal.NewFromInt(500),
		PaymentMethod:    model.PaymentCash,
		Items: []model.SaleItem{{
			ID:           uuid.New(),
			ProductID:    uuid.New(),
			ProductName:  "Coffee",
			Quantity:     5,
			AppliedPrice: decimal.NewFromInt(100),
			LineTotal:    decimal.NewFromInt(500),
		}},
	}
}

func TestExportClosedSession(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	svc := NewExportService(sessionRepo, saleRepo)

	companyID := uuid.New()
	session := closedSession(companyID)
	sessionRepo.sessions[session.ID] = session
	sale := sessionSale(companyID, session)
	saleRepo.sales[sale.ID] = sale

	export, err := svc.Export(context.Background(), companyID, session.ID)
	require.NoError(t, err)

	assert.Equal(t, "1.0", export.Version)
	assert.Equal(t, session.ID.String(), export.Session.ID)
	assert.Equal(t, model.SessionClosed, export.Session.Status)
	require.Len(t, export.Sales, 1)
	assert.Equal(t, sale.ID.String(), export.Sales[0].ID)
	require.Len(t, export.Sales[0].Items, 1)
	assert.Equal(t, "Coffee", export.Sales[0].Items[0].ProductName)
}

func TestExportRejectsOpenSession(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	svc := NewExportService(sessionRepo, saleRepo)

	companyID := uuid.New()
	session := closedSession(companyID)
	session.Status = model.SessionOpen
	session.ClosedAt = nil
	sessionRepo.sessions[session.ID] = session

	_, err := svc.Export(context.Background(), companyID, session.ID)
	assert.ErrorIs(t, err, ErrSessionStillOpen)
}

func TestExportEnforcesTenancy(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	svc := NewExportService(sessionRepo, saleRepo)

	session := closedSession(uuid.New())
	sessionRepo.sessions[session.ID] = session

	_, err := svc.Export(context.Background(), uuid.New(), session.ID)
	assert.Error(t, err)
}

func TestImportRoundTrip(t *testing.T) {
	companyID := uuid.New()

	// Export from one deployment...
	srcSessions := newFakeSessionRepo()
	srcSales := newFakeSaleRepo()
	src := NewExportService(srcSessions, srcSales)

	session := closedSession(companyID)
	srcSessions.sessions[session.ID] = session
	sale := sessionSale(companyID, session)
	srcSales.sales[sale.ID] = sale

	export, err := src.Export(context.Background(), companyID, session.ID)
	require.NoError(t, err)

	// ...import into another.
	dstSessions := newFakeSessionRepo()
	dstSales := newFakeSaleRepo()
	dst := NewExportService(dstSessions, dstSales)

	result, err := dst.Import(context.Background(), companyID, *export)
	require.NoError(t, err)
	assert.Equal(t, session.ID.String(), result.SessionID)
	assert.Equal(t, 1, result.SalesImported)
	assert.Equal(t, 0, result.SalesSkipped)

	imported := dstSessions.sessions[session.ID]
	require.NotNil(t, imported)
	assert.Equal(t, model.SessionClosed, imported.Status)
	assert.Equal(t, "1500", imported.ExpectedBalance.String())
	require.NotNil(t, dstSales.sales[sale.ID])
}

func TestImportRejectsDuplicateSession(t *testing.T) {
	companyID := uuid.New()
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	svc := NewExportService(sessionRepo, saleRepo)

	session := closedSession(companyID)
	sessionRepo.sessions[session.ID] = session
	export, err := svc.Export(context.Background(), companyID, session.ID)
	require.NoError(t, err)

	_, err = svc.Import(context.Background(), companyID, *export)
	assert.ErrorIs(t, err, ErrDuplicateImport)
}

func TestImportSkipsExistingSales(t *testing.T) {
	companyID := uuid.New()

	srcSessions := newFakeSessionRepo()
	srcSales := newFakeSaleRepo()
	src := NewExportService(srcSessions, srcSales)

	session := closedSession(companyID)
	srcSessions.sessions[session.ID] = session
	saleA := sessionSale(companyID, session)
	saleB := sessionSale(companyID, session)
	srcSales.sales[saleA.ID] = saleA
	srcSales.sales[saleB.ID] = saleB

	export, err := src.Export(context.Background(), companyID, session.ID)
	require.NoError(t, err)

	// Destination already holds one of the sales from a partial sync.
	dstSessions := newFakeSessionRepo()
	dstSales := newFakeSaleRepo()
	dstSales.sales[saleA.ID] = saleA
	dst := NewExportService(dstSessions, dstSales)

	result, err := dst.Import(context.Background(), companyID, *export)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SalesImported)
	assert.Equal(t, 1, result.SalesSkipped)
}

func TestImportLookupFailurePropagates(t *testing.T) {
	companyID := uuid.New()

	srcSessions := newFakeSessionRepo()
	session := closedSession(companyID)
	srcSessions.sessions[session.ID] = session
	src := NewExportService(srcSessions, newFakeSaleRepo())

	export, err := src.Export(context.Background(), companyID, session.ID)
	require.NoError(t, err)

	// A failed duplicate check must not pass as "session absent".
	dbDown := errors.New("connection refused")
	dstSessions := &failingSessionRepo{fakeSessionRepo: newFakeSessionRepo(), findByIDErr: dbDown}
	dst := NewExportService(dstSessions, newFakeSaleRepo())

	_, err = dst.Import(context.Background(), companyID, *export)
	assert.ErrorIs(t, err, dbDown)
	assert.NotErrorIs(t, err, ErrDuplicateImport)
	assert.Empty(t, dstSessions.sessions)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	svc := NewExportService(newFakeSessionRepo(), newFakeSaleRepo())

	companyID := uuid.New()
	session := closedSession(companyID)
	srcSessions := newFakeSessionRepo()
	srcSessions.sessions[session.ID] = session
	src := NewExportService(srcSessions, newFakeSaleRepo())

	export, err := src.Export(context.Background(), companyID, session.ID)
	require.NoError(t, err)
	export.Version = "2.0"

	_, err = svc.Import(context.Background(), companyID, *export)
	assert.ErrorContains(t, err, "unsupported export version")
}
