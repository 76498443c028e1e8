package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/service"
)

type SaleHandler struct {
	svc       service.SaleService
	exportSvc service.ExportService
}

func NewSaleHandler(svc service.SaleService, exportSvc service.ExportService) *SaleHandler {
	return &SaleHandler{svc: svc, exportSvc: exportSvc}
}

// List godoc
// @Summary Lists sales, filterable by register, session, and date range
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param register_id query string false "Register filter"
// @Param session_id query string false "Session filter"
// @Param from query string false "Start of date range (RFC3339)"
// @Param to query string false "End of date range (RFC3339)"
// @Success 200 {object} dto.SaleListResponse
// @Router /v1/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter := dto.SaleFilter{
		RegisterID: c.Query("register_id"),
		SessionID:  c.Query("session_id"),
		From:       c.Query("from"),
		To:         c.Query("to"),
		Page:       page,
		Limit:      limit,
	}
	resp, err := h.svc.List(c.Request.Context(), companyID(c), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Retrieves one sale with its items
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
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

// Import godoc
// @Summary Imports a previously exported session with its sales
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SessionExport true "Export artifact"
// @Success 201 {object} dto.ImportResultResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/sales/import [post]
func (h *SaleHandler) Import(c *gin.Context) {
	var req dto.SessionExport
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid JSON: " + err.Error()})
		return
	}
	resp, err := h.exportSvc.Import(c.Request.Context(), companyID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
