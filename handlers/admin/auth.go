package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/auth"
	"github.com/muallimisoniy/api/utils/middleware"
	"github.com/muallimisoniy/api/utils/response"
)

// LoginRequest represents an admin login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful admin login
type LoginResponse struct {
	Admin       model.AdminUser `json:"admin"`
	AccessToken string          `json:"access_token"`
	ExpiresIn   int             `json:"expires_in"` // in seconds
}

// Login handles admin login
// POST /admin/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	ip := c.IP()

	var admin model.AdminUser
	if err := h.db.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		// Record failed attempt even if the account does not exist
		if h.bruteForce != nil {
			h.bruteForce.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid username or password")
	}

	if err := auth.VerifyPassword(admin.PasswordHash, req.Password); err != nil {
		if h.bruteForce != nil {
			h.bruteForce.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid username or password")
	}

	if h.bruteForce != nil {
		h.bruteForce.RecordSuccessfulAttempt(c, ip)
	}

	token, _, err := h.jwtManager.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	now := time.Now()
	h.db.Model(&admin).Update("last_login", now)
	admin.LastLogin = &now

	return response.Success(c, LoginResponse{
		Admin:       admin,
		AccessToken: token,
		ExpiresIn:   int(h.jwtManager.Expiry().Seconds()),
	})
}

// Me returns the authenticated admin's own account
// GET /admin/me
func (h *Handler) Me(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, admin)
}
