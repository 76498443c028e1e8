package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulartear/posventa/internal/model"
)

func TestArchiveFlagsClosedSessionsAndSales(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	registerRepo := newFakeRegisterRepo()
	svc := NewArchiveService(sessionRepo, saleRepo, registerRepo)

	companyID := uuid.New()
	closed := closedSession(companyID)
	sessionRepo.sessions[closed.ID] = closed

	open := closedSession(companyID)
	open.Status = model.SessionOpen
	open.ClosedAt = nil
	sessionRepo.sessions[open.ID] = open

	sale := sessionSale(companyID, closed)
	saleRepo.sales[sale.ID] = sale

	result, err := svc.Archive(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.SessionsArchived)
	assert.Equal(t, int64(1), result.SalesArchived)

	assert.True(t, sessionRepo.sessions[closed.ID].Archived)
	// Open sessions stay live; their frozen state comes only at close.
	assert.False(t, sessionRepo.sessions[open.ID].Archived)
	assert.True(t, saleRepo.sales[sale.ID].Archived)
}

func TestArchiveIsIdempotent(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	registerRepo := newFakeRegisterRepo()
	svc := NewArchiveService(sessionRepo, saleRepo, registerRepo)

	companyID := uuid.New()
	closed := closedSession(companyID)
	sessionRepo.sessions[closed.ID] = closed
	sale := sessionSale(companyID, closed)
	saleRepo.sales[sale.ID] = sale

	first, err := svc.Archive(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.SessionsArchived)

	second, err := svc.Archive(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.SessionsArchived)
	assert.Equal(t, int64(0), second.SalesArchived)
}

func TestArchiveSkipsSalesWithoutClosedSessions(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	registerRepo := newFakeRegisterRepo()
	svc := NewArchiveService(sessionRepo, saleRepo, registerRepo)

	companyID := uuid.New()
	open := closedSession(companyID)
	open.Status = model.SessionOpen
	open.ClosedAt = nil
	sessionRepo.sessions[open.ID] = open

	sale := sessionSale(companyID, open)
	saleRepo.sales[sale.ID] = sale

	result, err := svc.Archive(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.SessionsArchived)
	assert.Equal(t, int64(0), result.SalesArchived)
	assert.False(t, saleRepo.sales[sale.ID].Archived)
}

func TestArchiveDeactivatesDanglingRegister(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	registerRepo := newFakeRegisterRepo()
	svc := NewArchiveService(sessionRepo, saleRepo, registerRepo)

	companyID := uuid.New()
	closed := closedSession(companyID)
	sessionRepo.sessions[closed.ID] = closed

	// The session's register was left active by a crashed terminal.
	registerRepo.regs[closed.CashRegisterID] = &model.CashRegister{
		ID:             closed.CashRegisterID,
		CompanyID:      companyID,
		Name:           "Front Desk",
		IsActive:       true,
		CurrentBalance: decimal.NewFromInt(1500),
		AccessToken:    "front-desk-0badc0de",
	}

	_, err := svc.Archive(context.Background(), companyID)
	require.NoError(t, err)

	reg := registerRepo.regs[closed.CashRegisterID]
	assert.False(t, reg.IsActive)
	assert.True(t, reg.CurrentBalance.IsZero())
}

func TestArchiveKeepsReopenedRegisterActive(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	registerRepo := newFakeRegisterRepo()
	svc := NewArchiveService(sessionRepo, saleRepo, registerRepo)

	companyID := uuid.New()
	closed := closedSession(companyID)
	sessionRepo.sessions[closed.ID] = closed

	// Same register, legitimately reopened after yesterday's close.
	open := closedSession(companyID)
	open.CashRegisterID = closed.CashRegisterID
	open.Status = model.SessionOpen
	open.ClosedAt = nil
	sessionRepo.sessions[open.ID] = open

	registerRepo.regs[closed.CashRegisterID] = &model.CashRegister{
		ID:             closed.CashRegisterID,
		CompanyID:      companyID,
		Name:           "Front Desk",
		IsActive:       true,
		CurrentBalance: decimal.NewFromInt(1500),
		AccessToken:    "front-desk-0badc0de",
	}

	result, err := svc.Archive(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.SessionsArchived)

	// The running register keeps its drawer and stays open.
	reg := registerRepo.regs[closed.CashRegisterID]
	assert.True(t, reg.IsActive)
	assert.Equal(t, "1500", reg.CurrentBalance.String())
}

func TestRetrieveArchivedFiltersByArchivalDate(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	registerRepo := newFakeRegisterRepo()
	svc := NewArchiveService(sessionRepo, saleRepo, registerRepo)

	companyID := uuid.New()
	old := closedSession(companyID)
	old.Archived = true
	oldAt := time.Now().UTC().Add(-72 * time.Hour)
	old.ArchivedAt = &oldAt
	sessionRepo.sessions[old.ID] = old

	recent := closedSession(companyID)
	recent.Archived = true
	recentAt := time.Now().UTC().Add(-1 * time.Hour)
	recent.ArchivedAt = &recentAt
	sessionRepo.sessions[recent.ID] = recent

	from := time.Now().UTC().Add(-24 * time.Hour)
	resp, err := svc.RetrieveArchived(context.Background(), companyID, &from, nil)
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, recent.ID.String(), resp.Sessions[0].ID)

	resp, err = svc.RetrieveArchived(context.Background(), companyID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 2)
}
