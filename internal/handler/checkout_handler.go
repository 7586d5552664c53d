package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/chinaboxmv/chinabox_api/internal/middleware"
	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/service"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// CheckoutHandler handles checkout, payment slip upload, and purchase history.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

type checkoutRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postalCode"`
	Phone          string `json:"phone"`
	DeliveryMethod string `json:"deliveryMethod" binding:"required"`
}

// Checkout handles POST /v1/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	ownerID := middleware.UserID(c)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Delivery method is required")
		return
	}

	info := &models.DeliveryInfo{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
	}

	purchase, err := h.checkoutService.Checkout(c.Request.Context(), ownerID, info, models.DeliveryMethod(req.DeliveryMethod))
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Purchase created", purchase)
}

// UploadSlip handles POST /v1/purchases/:id/slip (multipart form).
func (h *CheckoutHandler) UploadSlip(c *gin.Context) {
	ownerID := middleware.UserID(c)
	purchaseID := c.Param("id")
	method := c.PostForm("method")

	name, data, contentType, err := readFormFile(c, "slip")
	if err != nil {
		utils.Error(c, 400, "INVALID_FILE", "Failed to read slip upload")
		return
	}

	rec, err := h.checkoutService.UploadSlip(c.Request.Context(), ownerID, purchaseID, method, name, data, contentType)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Payment slip received", rec)
}

// ListDeliveryInfo handles GET /v1/delivery
func (h *CheckoutHandler) ListDeliveryInfo(c *gin.Context) {
	ownerID := middleware.UserID(c)

	infos, err := h.checkoutService.ListDeliveryInfo(ownerID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load delivery addresses")
		return
	}

	utils.Success(c, 200, "Delivery addresses retrieved", gin.H{"addresses": infos})
}

// ListPurchases handles GET /v1/purchases
func (h *CheckoutHandler) ListPurchases(c *gin.Context) {
	ownerID := middleware.UserID(c)

	purchases, err := h.checkoutService.ListPurchases(ownerID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load purchases")
		return
	}

	utils.Success(c, 200, "Purchases retrieved", gin.H{"purchases": purchases})
}

func (h *CheckoutHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrInvalidDelivery:
		utils.Error(c, 400, "INVALID_DELIVERY", "Unknown delivery method")
	case utils.ErrMissingField:
		utils.Error(c, 400, "MISSING_FIELD", "All delivery fields and the slip file are required")
	case utils.ErrEmptyBox:
		utils.Error(c, 400, "EMPTY_BOX", "Box is empty")
	case utils.ErrPurchaseNotFound:
		utils.Error(c, 404, "PURCHASE_NOT_FOUND", "Purchase not found")
	case utils.ErrForbidden:
		utils.Error(c, 403, "FORBIDDEN", "Not your purchase")
	case utils.ErrSlipAlreadyUploaded:
		utils.Error(c, 409, "SLIP_ALREADY_UPLOADED", "A slip was already uploaded for this purchase")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
