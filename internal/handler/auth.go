package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modulartear/posventa/internal/apierror"
	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Authenticates a company admin
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Exchanges a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid refresh token"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterCompany godoc
// @Summary Provisions a new company tenant
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterCompanyRequest true "Company data"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/auth/signup [post]
func (h *AuthHandler) RegisterCompany(c *gin.Context) {
	var req dto.RegisterCompanyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterCompany(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
