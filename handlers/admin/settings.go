package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/middleware"
	"github.com/muallimisoniy/api/utils/response"
	"gorm.io/gorm"
)

// ListSettings retrieves all system settings
// GET /admin/settings
func (h *Handler) ListSettings(c *fiber.Ctx) error {
	var settings []model.SystemSetting
	if err := h.db.Order("key ASC").Find(&settings).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch settings")
	}

	return response.Success(c, settings)
}

// UpdateSettingRequest is the setting update payload
type UpdateSettingRequest struct {
	Value string `json:"value"`
}

// UpdateSetting upserts a setting by key
// PUT /admin/settings/:key
func (h *Handler) UpdateSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return response.BadRequest(c, "Setting key is required")
	}

	var req UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var adminID *uint
	if admin, ok := middleware.AdminFromContext(c); ok {
		adminID = &admin.ID
	}

	var setting model.SystemSetting
	err := h.db.Where("key = ?", key).First(&setting).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		setting = model.SystemSetting{Key: key, Value: req.Value, UpdatedBy: adminID}
		if err := h.db.Create(&setting).Error; err != nil {
			return response.InternalServerError(c, "Failed to create setting")
		}
	case err != nil:
		return response.InternalServerError(c, "Failed to fetch setting")
	default:
		if err := h.db.Model(&setting).Updates(map[string]interface{}{
			"value":      req.Value,
			"updated_by": adminID,
		}).Error; err != nil {
			return response.InternalServerError(c, "Failed to update setting")
		}
	}

	// Token values never go into the audit trail
	h.audit(c, "setting.update", "system_setting", &setting.ID, fiber.Map{"key": key})

	return response.SuccessWithMessage(c, "Setting updated", setting)
}

// TestTelegram sends a test message through the configured bot
// POST /admin/settings/telegram/test
func (h *Handler) TestTelegram(c *fiber.Ctx) error {
	ok, message := h.telegram.TestConnection(c.Context())
	return response.Success(c, fiber.Map{
		"ok":      ok,
		"message": message,
	})
}

// ListFeedback lists feedback submissions, newest first
// GET /admin/feedback?type=xatolik&page=1&limit=50
func (h *Handler) ListFeedback(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	feedbackType := c.Query("type")

	query := h.db.Model(&model.FeedbackSubmission{})
	if feedbackType != "" {
		query = query.Where("feedback_type = ?", feedbackType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count feedback")
	}

	meta := response.CalculatePagination(page, limit, total)

	var submissions []model.FeedbackSubmission
	if err := query.Order("created_at DESC").
		Offset((meta.CurrentPage - 1) * meta.PerPage).
		Limit(meta.PerPage).
		Find(&submissions).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch feedback")
	}

	return response.Paginated(c, submissions, meta)
}

// ListAuditLogs lists the audit trail, newest first
// GET /admin/audit?action=page.publish&page=1&limit=50
func (h *Handler) ListAuditLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	action := c.Query("action")

	query := h.db.Model(&model.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count audit logs")
	}

	meta := response.CalculatePagination(page, limit, total)

	var logs []model.AuditLog
	if err := query.Order("created_at DESC").
		Offset((meta.CurrentPage - 1) * meta.PerPage).
		Limit(meta.PerPage).
		Find(&logs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch audit logs")
	}

	return response.Paginated(c, logs, meta)
}

// ListCronLogs lists recent cron job executions
// GET /admin/cron-logs
func (h *Handler) ListCronLogs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var logs []model.CronJobLog
	if err := h.db.Order("started_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch cron logs")
	}

	return response.Success(c, logs)
}
