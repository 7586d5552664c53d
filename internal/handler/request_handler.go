package handler

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chinaboxmv/chinabox_api/internal/middleware"
	"github.com/chinaboxmv/chinabox_api/internal/service"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// RequestHandler handles customer product request endpoints.
type RequestHandler struct {
	intakeService *service.IntakeService
}

// NewRequestHandler constructs a RequestHandler.
func NewRequestHandler(intakeService *service.IntakeService) *RequestHandler {
	return &RequestHandler{intakeService: intakeService}
}

// Create handles POST /v1/requests (multipart form with optional image).
func (h *RequestHandler) Create(c *gin.Context) {
	ownerID := middleware.UserID(c)

	fields := intakeFieldsFromForm(c)
	name, data, contentType, err := readFormFile(c, "image")
	if err != nil {
		utils.Error(c, 400, "INVALID_FILE", "Failed to read image upload")
		return
	}

	req, err := h.intakeService.Create(c.Request.Context(), ownerID, fields, name, data, contentType)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Product request submitted", req)
}

// List handles GET /v1/requests
func (h *RequestHandler) List(c *gin.Context) {
	ownerID := middleware.UserID(c)

	requests, err := h.intakeService.ListByOwner(ownerID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load product requests")
		return
	}

	utils.Success(c, 200, "Product requests retrieved", gin.H{"requests": requests})
}

// Update handles PUT /v1/requests/:id (multipart form with optional image).
func (h *RequestHandler) Update(c *gin.Context) {
	ownerID := middleware.UserID(c)
	id := c.Param("id")

	fields := intakeFieldsFromForm(c)
	name, data, contentType, err := readFormFile(c, "image")
	if err != nil {
		utils.Error(c, 400, "INVALID_FILE", "Failed to read image upload")
		return
	}

	req, err := h.intakeService.Update(c.Request.Context(), ownerID, id, fields, name, data, contentType)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Product request updated", req)
}

// Delete handles DELETE /v1/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	ownerID := middleware.UserID(c)
	id := c.Param("id")

	if err := h.intakeService.Delete(ownerID, id); err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Product request removed", nil)
}

func (h *RequestHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrMissingField:
		utils.Error(c, 400, "MISSING_FIELD", "URL and name are required")
	case utils.ErrRequestNotFound:
		utils.Error(c, 404, "REQUEST_NOT_FOUND", "Product request not found")
	case utils.ErrForbidden:
		utils.Error(c, 403, "FORBIDDEN", "Not your product request")
	case utils.ErrNotEditable:
		utils.Error(c, 400, "NOT_EDITABLE", "Request can no longer be edited")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}

func intakeFieldsFromForm(c *gin.Context) *service.IntakeFields {
	quantity, _ := strconv.Atoi(c.PostForm("quantity"))
	return &service.IntakeFields{
		URL:        c.PostForm("url"),
		Name:       c.PostForm("name"),
		Quantity:   quantity,
		Size:       c.PostForm("size"),
		Colour:     c.PostForm("colour"),
		Additional: c.PostForm("additional"),
		Note:       c.PostForm("note"),
	}
}

// readFormFile reads an optional multipart file field. A missing file is not
// an error; it returns empty data.
func readFormFile(c *gin.Context, field string) (string, []byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil, "", nil
	}
	return openFormFile(fileHeader)
}

func openFormFile(fileHeader *multipart.FileHeader) (string, []byte, string, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return "", nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return fileHeader.Filename, data, contentType, nil
}
