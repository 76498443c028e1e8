package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/service"
)

type EmployeeHandler struct{ svc service.EmployeeService }

func NewEmployeeHandler(svc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// Create godoc
// @Summary Creates an employee
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateEmployeeRequest true "Employee data"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), companyID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary Lists employees; ?role=cashier narrows to assignable cashiers
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EmployeeResponse
// @Router /v1/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	var (
		resp []dto.EmployeeResponse
		err  error
	)
	if c.Query("role") == "cashier" {
		resp, err = h.svc.ListActiveCashiers(c.Request.Context(), companyID(c))
	} else {
		resp, err = h.svc.List(c.Request.Context(), companyID(c))
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Retrieves one employee
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), companyID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Patch godoc
// @Summary Partially updates an employee
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param body body dto.EmployeePatch true "Fields to update"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/employees/{id} [patch]
func (h *EmployeeHandler) Patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.EmployeePatch
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Patch(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary Deactivates an employee
// @Tags employees
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/employees/{id} [delete]
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), companyID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
