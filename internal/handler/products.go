package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/service"
)

type ProductHandler struct{ svc service.ProductService }

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create godoc
// @Summary Creates a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateProductRequest true "Product data"
// @Success 201 {object} dto.ProductResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
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
// @Summary Lists products with optional name/category filters
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name search"
// @Param category query string false "Category filter"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {array} dto.ProductResponse
// @Router /v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := dto.ProductFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	}
	products, total, err := h.svc.List(c.Request.Context(), companyID(c), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products, "total": total, "page": page, "limit": limit})
}

// Get godoc
// @Summary Retrieves one product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
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
// @Summary Partially updates a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param body body dto.ProductPatch true "Fields to update"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/{id} [patch]
func (h *ProductHandler) Patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ProductPatch
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
// @Summary Deletes a product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
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
