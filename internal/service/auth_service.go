package service

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/modulartear/posventa/internal/config"
	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	RegisterCompany(ctx context.Context, req dto.RegisterCompanyRequest) (*dto.CompanyResponse, error)
}

type authService struct {
	companyRepo  repository.CompanyRepository
	settingsRepo repository.SettingsRepository
	cfg          *config.Config
}

func NewAuthService(companyRepo repository.CompanyRepository, settingsRepo repository.SettingsRepository, cfg *config.Config) AuthService {
	return &authService{companyRepo: companyRepo, settingsRepo: settingsRepo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	company, err := s.companyRepo.FindByCode(ctx, req.CompanyCode)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	settings, err := s.settingsRepo.FindCompanySettings(ctx, company.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if settings.AdminUsername != req.Username {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(settings.AdminPasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.buildLoginResponse(company, settings.AdminUsername)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("malformed token")
	}
	companyIDStr, ok := claims["company_id"].(string)
	if !ok {
		return nil, errors.New("malformed token")
	}
	username, _ := claims["username"].(string)
	cid, err := uuid.Parse(companyIDStr)
	if err != nil {
		return nil, errors.New("malformed token")
	}

	company, err := s.companyRepo.FindByID(ctx, cid)
	if err != nil || !company.IsActive {
		return nil, errors.New("company not found or inactive")
	}
	return s.buildLoginResponse(company, username)
}

// RegisterCompany provisions a tenant: the company row, its settings with the
// bcrypt-hashed admin credential, and a short login code.
func (s *authService) RegisterCompany(ctx context.Context, req dto.RegisterCompanyRequest) (*dto.CompanyResponse, error) {
	if existing, err := s.companyRepo.FindBySubdomain(ctx, req.Subdomain); err == nil && existing != nil {
		return nil, errors.New("subdomain already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), 12)
	if err != nil {
		return nil, err
	}

	company := &model.Company{
		ID:               uuid.New(),
		Name:             req.Name,
		Subdomain:        req.Subdomain,
		Code:             generateCompanyCode(),
		Plan:             "free",
		IsActive:         true,
		MaxCashRegisters: 3,
		MaxProducts:      100,
		MaxEmployees:     10,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	settings := &model.CompanySettings{
		CompanyID:         company.ID,
		CompanyName:       req.Name,
		AdminUsername:     req.AdminUsername,
		AdminPasswordHash: string(hash),
	}
	if req.CompanyEmail != "" {
		email := req.CompanyEmail
		settings.CompanyEmail = &email
	}
	if err := s.settingsRepo.CreateCompanySettings(ctx, settings); err != nil {
		return nil, err
	}

	return &dto.CompanyResponse{
		ID:        company.ID.String(),
		Name:      company.Name,
		Subdomain: company.Subdomain,
		Code:      company.Code,
		Plan:      company.Plan,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *authService) buildLoginResponse(company *model.Company, username string) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(company, username, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(company, username, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		CompanyID:    company.ID.String(),
		CompanyName:  company.Name,
		Username:     username,
	}, nil
}

func (s *authService) generateToken(company *model.Company, username string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"company_id": company.ID.String(),
		"username":   username,
		"role":       "admin",
		"exp":        time.Now().Add(duration).Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// generateCompanyCode returns an 8-char uppercase login code, e.g. "K7P2XQ4M".
func generateCompanyCode() string {
	const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
