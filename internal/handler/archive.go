package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/modulartear/posventa/internal/apierror"
	"github.com/modulartear/posventa/internal/service"
)

type ArchiveHandler struct{ svc service.ArchiveService }

func NewArchiveHandler(svc service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{svc: svc}
}

// Run godoc
// @Summary Archives all closed sessions and sales for the company
// @Tags archive
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ArchiveResultResponse
// @Router /v1/archive [post]
func (h *ArchiveHandler) Run(c *gin.Context) {
	resp, err := h.svc.Archive(c.Request.Context(), companyID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Retrieve godoc
// @Summary Retrieves archived sessions and sales, filterable by archival date
// @Tags archive
// @Produce json
// @Security BearerAuth
// @Param from query string false "Archived after (RFC3339)"
// @Param to query string false "Archived before (RFC3339)"
// @Success 200 {object} dto.ArchivedDataResponse
// @Router /v1/archive [get]
func (h *ArchiveHandler) Retrieve(c *gin.Context) {
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return
	}
	resp, err := h.svc.RetrieveArchived(c.Request.Context(), companyID(c), from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+name+" date; expected RFC3339"))
		return nil, false
	}
	return &t, true
}
