package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/chinaboxmv/chinabox_api/internal/middleware"
	"github.com/chinaboxmv/chinabox_api/internal/service"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// AuthHandler handles customer and staff authentication endpoints.
type AuthHandler struct {
	authService      *service.AuthService
	adminAuthService *service.AdminAuthService
	rateLimiter      *middleware.InvalidAuthRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, adminAuthService *service.AdminAuthService) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		adminAuthService: adminAuthService,
		rateLimiter:      middleware.NewInvalidAuthRateLimiter(),
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Email and password are required")
		return
	}

	token, customer, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if err == utils.ErrDuplicateEmail {
			utils.Error(c, 400, "DUPLICATE_EMAIL", "Email is already registered")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to register")
		return
	}

	utils.Success(c, 201, "Registered successfully", gin.H{
		"token":    token,
		"customer": customer,
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Email and password are required")
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.handleLoginError(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{"token": token})
}

// AdminLogin handles POST /v1/admin/auth/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Email and password are required")
		return
	}

	token, err := h.adminAuthService.Login(req.Email, req.Password)
	if err != nil {
		h.handleLoginError(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{"token": token})
}

// CreateAdmin handles POST /v1/admin/users
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Email and password are required")
		return
	}

	if err := h.adminAuthService.CreateAdmin(req.Email, req.Password, req.Name); err != nil {
		if err == utils.ErrDuplicateEmail {
			utils.Error(c, 400, "DUPLICATE_EMAIL", "Email is already registered")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create admin account")
		return
	}

	utils.Success(c, 201, "Admin account created", nil)
}

func (h *AuthHandler) handleLoginError(c *gin.Context, err error) {
	if err == utils.ErrInvalidCredentials {
		// Throttle repeated invalid attempts per IP.
		if !h.rateLimiter.Allow(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid login attempts")
			return
		}
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	utils.Error(c, 500, "INTERNAL_ERROR", "Login failed")
}
