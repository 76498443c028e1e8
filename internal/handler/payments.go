package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/modulartear/posventa/internal/apierror"
	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/service"
)

type PaymentHandler struct{ svc service.PaymentService }

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// CreateCharge godoc
// @Summary Creates a QR charge on the payment gateway
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateChargeRequest true "Charge data"
// @Success 201 {object} dto.ChargeResponse
// @Failure 412 {object} apierror.APIError
// @Router /v1/payments/charges [post]
func (h *PaymentHandler) CreateCharge(c *gin.Context) {
	var req dto.CreateChargeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCharge(c.Request.Context(), companyID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetStatus godoc
// @Summary Returns the current status of a charge by its external reference
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param reference path string true "External reference"
// @Success 200 {object} dto.PaymentStatusResponse
// @Router /v1/payments/charges/{reference} [get]
func (h *PaymentHandler) GetStatus(c *gin.Context) {
	resp, err := h.svc.GetStatus(c.Request.Context(), companyID(c), c.Param("reference"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Webhook godoc
// @Summary Receives MercadoPago payment notifications
// @Description Signature is validated from the x-signature header before the
// @Description notification is trusted. The company is identified by the
// @Description company_id query parameter embedded in the notification URL.
// @Tags payments
// @Accept json
// @Produce json
// @Param company_id query string true "Company ID"
// @Param data.id query string true "Payment ID"
// @Success 200
// @Failure 401 {object} apierror.APIError
// @Router /api/webhooks/mercadopago [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	cid, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Missing company_id"))
		return
	}
	dataID := c.Query("data.id")
	if dataID == "" {
		// Some notification types carry the ID in the body instead.
		var body struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			dataID = body.Data.ID
		}
	}
	if dataID == "" {
		c.Status(http.StatusOK)
		return
	}

	err = h.svc.HandleWebhook(
		c.Request.Context(),
		cid,
		c.GetHeader("x-signature"),
		c.GetHeader("x-request-id"),
		dataID,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Webhook rejected"))
		return
	}
	c.Status(http.StatusOK)
}

// GetAPISettings godoc
// @Summary Returns the company's payment gateway settings
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APISettingsResponse
// @Router /v1/settings/api [get]
func (h *PaymentHandler) GetAPISettings(c *gin.Context) {
	resp, err := h.svc.GetAPISettings(c.Request.Context(), companyID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PatchAPISettings godoc
// @Summary Updates the company's payment gateway settings
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.APISettingsPatch true "Fields to update"
// @Success 200 {object} dto.APISettingsResponse
// @Router /v1/settings/api [patch]
func (h *PaymentHandler) PatchAPISettings(c *gin.Context) {
	var req dto.APISettingsPatch
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PatchAPISettings(c.Request.Context(), companyID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
