package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// JWTMiddleware enforces bearer-token authentication and optional role
// checks. Mutating actions are rejected before any store call when no
// authenticated identity is present.
type JWTMiddleware struct{}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

// Handle validates the bearer token and stores the identity in context.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.authenticate(c)
		if !ok {
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireAdmin validates the bearer token and additionally requires the
// admin role.
func (m *JWTMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.authenticate(c)
		if !ok {
			return
		}
		if claims.Role != utils.RoleAdmin {
			utils.Error(c, 403, "FORBIDDEN", "Admin access required")
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func (m *JWTMiddleware) authenticate(c *gin.Context) (*utils.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.Error(c, 401, "AUTH_REQUIRED", "Missing authorization header")
		c.Abort()
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		utils.Error(c, 401, "AUTH_REQUIRED", "Invalid authorization header")
		c.Abort()
		return nil, false
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
		c.Abort()
		return nil, false
	}
	return claims, true
}

// UserID returns the authenticated user's id from context, or 0.
func UserID(c *gin.Context) int {
	return c.GetInt("user_id")
}
