package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/service"
)

type LoyaltyHandler struct{ svc service.LoyaltyService }

func NewLoyaltyHandler(svc service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{svc: svc}
}

// GetProgram godoc
// @Summary Returns the company's loyalty program
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LoyaltyProgramResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/loyalty/program [get]
func (h *LoyaltyHandler) GetProgram(c *gin.Context) {
	resp, err := h.svc.GetProgram(c.Request.Context(), companyID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveProgram godoc
// @Summary Creates or replaces the company's loyalty program
// @Tags loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateLoyaltyProgramRequest true "Program data"
// @Success 200 {object} dto.LoyaltyProgramResponse
// @Router /v1/loyalty/program [put]
func (h *LoyaltyHandler) SaveProgram(c *gin.Context) {
	var req dto.CreateLoyaltyProgramRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SaveProgram(c.Request.Context(), companyID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PatchProgram godoc
// @Summary Partially updates the company's loyalty program
// @Tags loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.LoyaltyProgramPatch true "Fields to update"
// @Success 200 {object} dto.LoyaltyProgramResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/loyalty/program [patch]
func (h *LoyaltyHandler) PatchProgram(c *gin.Context) {
	var req dto.LoyaltyProgramPatch
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PatchProgram(c.Request.Context(), companyID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCustomer godoc
// @Summary Registers a loyalty customer and issues their QR code
// @Tags loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCustomerRequest true "Customer data"
// @Success 201 {object} dto.CustomerResponse
// @Router /v1/customers [post]
func (h *LoyaltyHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCustomer(c.Request.Context(), companyID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCustomers godoc
// @Summary Lists loyalty customers with their point balances
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CustomerResponse
// @Router /v1/customers [get]
func (h *LoyaltyHandler) ListCustomers(c *gin.Context) {
	resp, err := h.svc.ListCustomers(c.Request.Context(), companyID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCustomer godoc
// @Summary Retrieves one loyalty customer with their point balance
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/customers/{id} [get]
func (h *LoyaltyHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetCustomer(c.Request.Context(), companyID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
