package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/service"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// AdminHandler handles the staff curation endpoints.
type AdminHandler struct {
	curationService *service.CurationService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(curationService *service.CurationService) *AdminHandler {
	return &AdminHandler{curationService: curationService}
}

// ListRequests handles GET /v1/admin/requests
func (h *AdminHandler) ListRequests(c *gin.Context) {
	requests, err := h.curationService.ListRequests()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load product requests")
		return
	}

	utils.Success(c, 200, "Product requests retrieved", gin.H{"requests": requests})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus handles PATCH /v1/admin/requests/:id/status
func (h *AdminHandler) SetStatus(c *gin.Context) {
	id := c.Param("id")

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Status is required")
		return
	}

	updated, err := h.curationService.SetStatus(id, models.ProductStatus(req.Status))
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Status updated", updated)
}

type setPriceRequest struct {
	Price string `json:"price" binding:"required"`
}

// SetPrice handles PATCH /v1/admin/requests/:id/price
func (h *AdminHandler) SetPrice(c *gin.Context) {
	id := c.Param("id")

	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Price is required")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		utils.Error(c, 400, "INVALID_PRICE", "Price must be a decimal number")
		return
	}

	updated, err := h.curationService.SetPrice(id, price)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Price updated", updated)
}

// ListPayments handles GET /v1/admin/payments
func (h *AdminHandler) ListPayments(c *gin.Context) {
	records, err := h.curationService.ListPayments()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load payments")
		return
	}

	utils.Success(c, 200, "Payments retrieved", gin.H{"payments": records})
}

// SetPaymentStatus handles PATCH /v1/admin/payments/:id/status
func (h *AdminHandler) SetPaymentStatus(c *gin.Context) {
	id := c.Param("id")

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Status is required")
		return
	}

	updated, err := h.curationService.SetPaymentStatus(id, models.PaymentStatus(req.Status))
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Payment status updated", updated)
}

// ListPurchases handles GET /v1/admin/purchases
func (h *AdminHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.curationService.ListPurchases()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load purchases")
		return
	}

	utils.Success(c, 200, "Purchases retrieved", gin.H{"purchases": purchases})
}

func (h *AdminHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrInvalidStatus:
		utils.Error(c, 400, "INVALID_STATUS", "Unknown status value")
	case utils.ErrInvalidPrice:
		utils.Error(c, 400, "INVALID_PRICE", "Price must not be negative")
	case utils.ErrRequestNotFound:
		utils.Error(c, 404, "REQUEST_NOT_FOUND", "Product request not found")
	case utils.ErrPaymentNotFound:
		utils.Error(c, 404, "PAYMENT_NOT_FOUND", "Payment record not found")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
