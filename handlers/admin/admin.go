// Package admin implements the authenticated content-management API:
// login, page review and publishing, sectioning, settings and audit.
package admin

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/handlers/manifest"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/services/telegram"
	"github.com/muallimisoniy/api/utils/auth"
	"github.com/muallimisoniy/api/utils/middleware"
	"github.com/muallimisoniy/api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Handler carries the shared dependencies of all admin endpoints
type Handler struct {
	db         *gorm.DB
	jwtManager *auth.JWTManager
	bruteForce *middleware.BruteForceProtection
	telegram   *telegram.Service
	validator  *validation.Validator
	manifest   *manifest.ManifestHandler
}

// NewHandler creates the admin handler; bruteForce may be nil when Redis
// is unavailable
func NewHandler(
	db *gorm.DB,
	jwtManager *auth.JWTManager,
	bruteForce *middleware.BruteForceProtection,
	tg *telegram.Service,
	manifestHandler *manifest.ManifestHandler,
) *Handler {
	return &Handler{
		db:         db,
		jwtManager: jwtManager,
		bruteForce: bruteForce,
		telegram:   tg,
		validator:  validation.NewValidator(),
		manifest:   manifestHandler,
	}
}

// audit records a mutating admin action. Audit failures are logged but
// never fail the request that caused them.
func (h *Handler) audit(c *fiber.Ctx, action, entityType string, entityID *uint, details interface{}) {
	var adminID *uint
	if admin, ok := middleware.AdminFromContext(c); ok {
		adminID = &admin.ID
	}

	var raw datatypes.JSON
	if details != nil {
		if encoded, err := json.Marshal(details); err == nil {
			raw = datatypes.JSON(encoded)
		}
	}

	entry := model.AuditLog{
		AdminID:    adminID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    raw,
		IPAddress:  c.IP(),
	}
	if err := h.db.Create(&entry).Error; err != nil {
		log.Printf("Warning: failed to write audit log for %s: %v", action, err)
	}
}
