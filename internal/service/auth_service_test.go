package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulartear/posventa/internal/config"
	"github.com/modulartear/posventa/internal/dto"
)

func authFixture(t *testing.T) (AuthService, *fakeCompanyRepo, *fakeSettingsRepo) {
	t.Helper()
	companyRepo := newFakeCompanyRepo()
	settingsRepo := newFakeSettingsRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return NewAuthService(companyRepo, settingsRepo, cfg), companyRepo, settingsRepo
}

func signUp(t *testing.T, svc AuthService) *dto.CompanyResponse {
	t.Helper()
	resp, err := svc.RegisterCompany(context.Background(), dto.RegisterCompanyRequest{
		Name:          "Test Co",
		Subdomain:     "testco",
		AdminUsername: "admin",
		AdminPassword: "hunter2hunter2",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterCompany(t *testing.T) {
	svc, _, settingsRepo := authFixture(t)

	resp := signUp(t, svc)
	assert.Equal(t, "free", resp.Plan)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z2-9]{8}$`), resp.Code)

	// The credential is stored hashed, never in plaintext.
	for _, s := range settingsRepo.company {
		assert.NotEqual(t, "hunter2hunter2", s.AdminPasswordHash)
		assert.Contains(t, s.AdminPasswordHash, "$2a$")
	}
}

func TestRegisterCompanySubdomainTaken(t *testing.T) {
	svc, _, _ := authFixture(t)
	signUp(t, svc)

	_, err := svc.RegisterCompany(context.Background(), dto.RegisterCompanyRequest{
		Name:          "Other Co",
		Subdomain:     "testco",
		AdminUsername: "admin",
		AdminPassword: "hunter2hunter2",
	})
	assert.ErrorContains(t, err, "subdomain already taken")
}

func TestLogin(t *testing.T) {
	svc, _, _ := authFixture(t)
	company := signUp(t, svc)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		CompanyCode: company.Code,
		Username:    "admin",
		Password:    "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, company.ID, resp.CompanyID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := authFixture(t)
	company := signUp(t, svc)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		CompanyCode: company.Code,
		Username:    "admin",
		Password:    "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownCompanyCode(t *testing.T) {
	svc, _, _ := authFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		CompanyCode: "NOPE1234",
		Username:    "admin",
		Password:    "hunter2hunter2",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveCompany(t *testing.T) {
	svc, companyRepo, _ := authFixture(t)
	company := signUp(t, svc)

	for _, c := range companyRepo.companies {
		c.IsActive = false
	}

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		CompanyCode: company.Code,
		Username:    "admin",
		Password:    "hunter2hunter2",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, _, _ := authFixture(t)
	company := signUp(t, svc)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		CompanyCode: company.Code,
		Username:    "admin",
		Password:    "hunter2hunter2",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, company.ID, refreshed.CompanyID)
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _, _ := authFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}
