package feedback

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/services/telegram"
	"github.com/muallimisoniy/api/utils/response"
	"github.com/muallimisoniy/api/utils/validation"
	"gorm.io/gorm"
)

// SubmitFeedbackRequest is the public feedback payload
type SubmitFeedbackRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=200"`
	Phone        string `json:"phone" validate:"required,uzphone"`
	FeedbackType string `json:"feedback_type" validate:"required,oneof=taklif xatolik"`
	Details      string `json:"details" validate:"required,min=10,max=2000"`
}

// FeedbackHandler accepts user feedback and fans it out to Telegram
type FeedbackHandler struct {
	db        *gorm.DB
	telegram  *telegram.Service
	validator *validation.Validator
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(db *gorm.DB, tg *telegram.Service) *FeedbackHandler {
	return &FeedbackHandler{db: db, telegram: tg, validator: validation.NewValidator()}
}

// SubmitFeedback handles POST /api/v1/feedback. The submission is
// persisted first; Telegram delivery is best-effort and its outcome is
// recorded on the row, never surfaced to the caller.
func (h *FeedbackHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Phone = validation.CleanPhone(req.Phone)

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	userAgent := c.Get("User-Agent")
	if len(userAgent) > 500 {
		userAgent = userAgent[:500]
	}

	submission := model.FeedbackSubmission{
		Name:         req.Name,
		Phone:        req.Phone,
		FeedbackType: model.FeedbackType(req.FeedbackType),
		Details:      req.Details,
		IPAddress:    c.IP(),
		UserAgent:    userAgent,
	}

	if err := h.db.Create(&submission).Error; err != nil {
		return response.InternalServerError(c, "Failed to save feedback")
	}

	sent := h.telegram.SendFeedback(c.Context(), &submission)
	updates := map[string]interface{}{"telegram_sent": sent}
	if !sent {
		updates["telegram_error"] = "delivery failed or not configured"
	}
	if err := h.db.Model(&submission).Updates(updates).Error; err != nil {
		log.Printf("Warning: failed to record telegram delivery for feedback %d: %v", submission.ID, err)
	}

	return response.Created(c, fiber.Map{
		"id":      submission.ID,
		"message": "Fikringiz uchun rahmat!",
	})
}
