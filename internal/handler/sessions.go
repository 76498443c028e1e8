package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modulartear/posventa/internal/service"
)

type SessionHandler struct {
	svc       service.SessionService
	exportSvc service.ExportService
}

func NewSessionHandler(svc service.SessionService, exportSvc service.ExportService) *SessionHandler {
	return &SessionHandler{svc: svc, exportSvc: exportSvc}
}

// History godoc
// @Summary Lists the company's sessions, newest first
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.SessionListResponse
// @Router /v1/sessions [get]
func (h *SessionHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.History(c.Request.Context(), companyID(c), page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Retrieves one session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
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

// Export godoc
// @Summary Exports a closed session with its sales as a portable JSON artifact
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionExport
// @Failure 409 {object} apierror.APIError
// @Router /v1/sessions/{id}/export [get]
func (h *SessionHandler) Export(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	export, err := h.exportSvc.Export(c.Request.Context(), companyID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=session_"+id.String()+".json")
	c.JSON(http.StatusOK, export)
}
