package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/chinaboxmv/chinabox_api/internal/middleware"
	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/service"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// BoxHandler handles the customer's box endpoints.
type BoxHandler struct {
	boxService      *service.BoxService
	checkoutService *service.CheckoutService
}

// NewBoxHandler constructs a BoxHandler.
func NewBoxHandler(boxService *service.BoxService, checkoutService *service.CheckoutService) *BoxHandler {
	return &BoxHandler{boxService: boxService, checkoutService: checkoutService}
}

// List handles GET /v1/box
func (h *BoxHandler) List(c *gin.Context) {
	ownerID := middleware.UserID(c)

	items, err := h.boxService.List(ownerID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load box")
		return
	}

	utils.Success(c, 200, "Box retrieved", gin.H{"items": items})
}

type promoteRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// Promote handles POST /v1/box/items
func (h *BoxHandler) Promote(c *gin.Context) {
	ownerID := middleware.UserID(c)

	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Product ID is required")
		return
	}

	item, err := h.boxService.Promote(ownerID, req.ProductID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Product added to box", item)
}

// RequestRemoval handles POST /v1/box/items/:id/remove-request
func (h *BoxHandler) RequestRemoval(c *gin.Context) {
	ownerID := middleware.UserID(c)
	itemID := c.Param("id")

	token, err := h.boxService.RequestRemoval(c.Request.Context(), ownerID, itemID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Removal pending confirmation", gin.H{"confirmToken": token})
}

type removeRequest struct {
	ConfirmToken string `json:"confirmToken"`
}

// Remove handles DELETE /v1/box/items/:id
func (h *BoxHandler) Remove(c *gin.Context) {
	ownerID := middleware.UserID(c)
	itemID := c.Param("id")

	var req removeRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.boxService.Remove(c.Request.Context(), ownerID, itemID, req.ConfirmToken); err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Item removed from box", nil)
}

// CancelRemoval handles POST /v1/box/items/:id/cancel-removal
func (h *BoxHandler) CancelRemoval(c *gin.Context) {
	ownerID := middleware.UserID(c)
	itemID := c.Param("id")

	if err := h.boxService.CancelRemoval(c.Request.Context(), ownerID, itemID); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to cancel removal")
		return
	}

	utils.Success(c, 200, "Removal cancelled", nil)
}

// Quote handles GET /v1/box/quote?delivery=Atolls
func (h *BoxHandler) Quote(c *gin.Context) {
	ownerID := middleware.UserID(c)
	method := models.DeliveryMethod(c.Query("delivery"))

	quote, err := h.checkoutService.Quote(c.Request.Context(), ownerID, method)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Quote computed", quote)
}

func (h *BoxHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrRequestNotFound:
		utils.Error(c, 404, "REQUEST_NOT_FOUND", "Product request not found")
	case utils.ErrBoxItemNotFound:
		utils.Error(c, 404, "BOX_ITEM_NOT_FOUND", "Box item not found")
	case utils.ErrPriceNotSet:
		utils.Error(c, 400, "PRICE_NOT_SET", "Product has no price yet")
	case utils.ErrNotAvailable:
		utils.Error(c, 400, "NOT_AVAILABLE", "Product is not available")
	case utils.ErrForbidden:
		utils.Error(c, 403, "FORBIDDEN", "Not your box item")
	case utils.ErrConfirmRequired:
		utils.Error(c, 409, "CONFIRM_REQUIRED", "Removal must be confirmed first")
	case utils.ErrInvalidDelivery:
		utils.Error(c, 400, "INVALID_DELIVERY", "Unknown delivery method")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
