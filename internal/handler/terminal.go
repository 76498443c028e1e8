package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modulartear/posventa/internal/apierror"
	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/service"
)

// TerminalHandler serves the point-of-sale terminal surface. Routes here are
// addressed by the register's access token instead of a JWT: the token is the
// capability that scopes every operation to its register and company.
type TerminalHandler struct {
	registers service.RegisterService
	products  service.ProductService
	sales     service.SaleService
}

func NewTerminalHandler(
	registers service.RegisterService,
	products service.ProductService,
	sales service.SaleService,
) *TerminalHandler {
	return &TerminalHandler{registers: registers, products: products, sales: sales}
}

// Bootstrap godoc
// @Summary Loads the register and its company's catalog for a terminal
// @Tags terminal
// @Produce json
// @Param token path string true "Register access token"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apierror.APIError
// @Router /terminal/{token} [get]
func (h *TerminalHandler) Bootstrap(c *gin.Context) {
	reg, err := h.registers.FindByAccessToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Register not found"))
		return
	}
	regResp, err := h.registers.Get(c.Request.Context(), reg.CompanyID, reg.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	products, total, err := h.products.List(c.Request.Context(), reg.CompanyID, dto.ProductFilter{Page: 1, Limit: 1000})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"register": regResp,
		"products": products,
		"total":    total,
	})
}

// RecordSale godoc
// @Summary Records a sale against the register's open session
// @Tags terminal
// @Accept json
// @Produce json
// @Param token path string true "Register access token"
// @Param body body dto.RegisterSaleRequest true "Sale data"
// @Success 201 {object} dto.SaleResponse
// @Failure 409 {object} apierror.APIError
// @Router /terminal/{token}/sales [post]
func (h *TerminalHandler) RecordSale(c *gin.Context) {
	reg, err := h.registers.FindByAccessToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Register not found"))
		return
	}
	var req dto.RegisterSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.sales.RegisterAtTerminal(c.Request.Context(), reg, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
