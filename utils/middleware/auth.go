package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/auth"
	"github.com/muallimisoniy/api/utils/response"
	"gorm.io/gorm"
)

// AuthMiddleware guards the admin API with JWT validation
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// Required rejects requests without a valid admin token and loads the
// admin row into c.Locals("admin")
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		// The admin row must still exist; deleted accounts lose access
		// even with an unexpired token
		var admin model.AdminUser
		if err := m.db.First(&admin, claims.AdminID).Error; err != nil {
			return response.Unauthorized(c, "Admin account not found")
		}

		c.Locals("admin", admin)
		c.Locals("adminID", admin.ID)

		return c.Next()
	}
}

// AdminFromContext returns the admin loaded by Required
func AdminFromContext(c *fiber.Ctx) (model.AdminUser, bool) {
	admin, ok := c.Locals("admin").(model.AdminUser)
	return admin, ok
}
