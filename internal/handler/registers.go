package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/service"
)

type RegisterHandler struct{ svc service.RegisterService }

func NewRegisterHandler(svc service.RegisterService) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

// Create godoc
// @Summary Creates a cash register
// @Tags registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateRegisterRequest true "Register data"
// @Success 201 {object} dto.RegisterResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/registers [post]
func (h *RegisterHandler) Create(c *gin.Context) {
	var req dto.CreateRegisterRequest
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
// @Summary Lists the company's cash registers
// @Tags registers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RegisterResponse
// @Router /v1/registers [get]
func (h *RegisterHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), companyID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Retrieves one cash register
// @Tags registers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Success 200 {object} dto.RegisterResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/registers/{id} [get]
func (h *RegisterHandler) Get(c *gin.Context) {
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
// @Summary Partially updates a cash register
// @Tags registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Param body body dto.RegisterPatch true "Fields to update"
// @Success 200 {object} dto.RegisterResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/registers/{id} [patch]
func (h *RegisterHandler) Patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RegisterPatch
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

// Delete godoc
// @Summary Deletes a closed cash register
// @Tags registers
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/registers/{id} [delete]
func (h *RegisterHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), companyID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Open godoc
// @Summary Opens the register and starts a session
// @Tags registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Param body body dto.OpenRegisterRequest true "Opening balance; force=true closes a stale session first"
// @Success 201 {object} dto.SessionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/registers/{id}/open [post]
func (h *RegisterHandler) Open(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Closes the register, reconciling its open session
// @Tags registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Param body body dto.CloseRegisterRequest true "Counted drawer amount"
// @Success 200 {object} dto.CloseSessionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/registers/{id}/close [post]
func (h *RegisterHandler) Close(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CloseRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Repair godoc
// @Summary Resets a register stuck active without an open session
// @Tags registers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Success 200 {object} dto.RegisterResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/registers/{id}/repair [post]
func (h *RegisterHandler) Repair(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Repair(c.Request.Context(), companyID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RotateToken godoc
// @Summary Rotates the register's terminal access token
// @Tags registers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Success 200 {object} dto.RegisterResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/registers/{id}/rotate-token [post]
func (h *RegisterHandler) RotateToken(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RotateAccessToken(c.Request.Context(), companyID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
