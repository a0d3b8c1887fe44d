package admin

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/services/sectioning"
	"github.com/muallimisoniy/api/utils/response"
	"github.com/muallimisoniy/api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListSections lists a page's sections in order
// GET /admin/pages/:id/sections
func (h *Handler) ListSections(c *fiber.Ctx) error {
	pageID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}

	var sections []model.Section
	if err := h.db.Where("page_id = ?", pageID).
		Order("sort_order ASC").
		Find(&sections).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch sections")
	}

	return response.Success(c, sections)
}

// AutoSectionRequest tunes the Y-gap segmentation threshold
type AutoSectionRequest struct {
	GapThreshold float64 `json:"gap_threshold"`
}

// AutoSection regenerates a page's sections from its units. Sections an
// admin created or edited by hand survive; only auto-generated ones are
// replaced.
// POST /admin/pages/:id/sections/auto
func (h *Handler) AutoSection(c *fiber.Ctx) error {
	pageID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}

	var req AutoSectionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	var page model.Page
	if err := h.db.First(&page, pageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Page not found")
		}
		return response.InternalServerError(c, "Failed to fetch page")
	}

	var units []model.TextUnit
	if err := h.db.Where("page_id = ?", page.ID).
		Order("sort_order ASC").
		Find(&units).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch units")
	}

	secUnits := make([]sectioning.Unit, 0, len(units))
	for _, u := range units {
		secUnits = append(secUnits, sectioning.Unit{
			ID:          u.ID,
			UnitType:    u.UnitType,
			TextContent: u.TextContent,
			BboxX:       u.BboxX,
			BboxY:       u.BboxY,
			BboxW:       u.BboxW,
			BboxH:       u.BboxH,
			SortOrder:   u.SortOrder,
		})
	}

	plans, err := sectioning.AutoSection(secUnits, req.GapThreshold)
	if err != nil {
		return response.InternalServerError(c, "Sectioning failed: "+err.Error())
	}

	var sections []model.Section
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ? AND is_manual = ?", page.ID, false).
			Delete(&model.Section{}).Error; err != nil {
			return err
		}

		for _, plan := range plans {
			unitIDs, err := json.Marshal(plan.UnitIDs)
			if err != nil {
				return err
			}

			yStart, yEnd := plan.BboxYStart, plan.BboxYEnd
			section := model.Section{
				PageID:       page.ID,
				SectionType:  plan.SectionType,
				TargetLetter: plan.TargetLetter,
				TitleAr:      plan.TitleAr,
				TitleUz:      plan.TitleUz,
				SortOrder:    plan.SortOrder,
				UnitIDs:      datatypes.JSON(unitIDs),
				BboxYStart:   &yStart,
				BboxYEnd:     &yEnd,
			}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}
			sections = append(sections, section)
		}

		return nil
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to save sections")
	}

	h.audit(c, "sections.auto", "page", &page.ID, fiber.Map{"count": len(sections)})

	return response.SuccessWithMessage(c, "Sections regenerated", sections)
}

// SectionRequest is the update payload for a section
type SectionRequest struct {
	SectionType  string         `json:"section_type" validate:"required,oneof=opening_sentence alphabet_grid letter_introduction letter_drill word_drill divider generic"`
	TargetLetter string         `json:"target_letter" validate:"max=10"`
	TitleAr      string         `json:"title_ar" validate:"max=300"`
	TitleUz      string         `json:"title_uz" validate:"max=300"`
	SortOrder    int            `json:"sort_order"`
	UnitIDs      datatypes.JSON `json:"unit_ids"`
}

// UpdateSection edits a section and marks it manual so auto-sectioning
// leaves it alone
// PUT /admin/sections/:id
func (h *Handler) UpdateSection(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid section ID")
	}

	var req SectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var section model.Section
	if err := h.db.First(&section, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Section not found")
		}
		return response.InternalServerError(c, "Failed to fetch section")
	}

	updates := map[string]interface{}{
		"section_type":  req.SectionType,
		"target_letter": req.TargetLetter,
		"title_ar":      req.TitleAr,
		"title_uz":      req.TitleUz,
		"sort_order":    req.SortOrder,
		"is_manual":     true,
	}
	if len(req.UnitIDs) > 0 {
		updates["unit_ids"] = req.UnitIDs
	}

	if err := h.db.Model(&section).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update section")
	}

	h.audit(c, "section.update", "section", &section.ID, nil)

	return response.SuccessWithMessage(c, "Section updated", section)
}

// DeleteSection removes a section
// DELETE /admin/sections/:id
func (h *Handler) DeleteSection(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid section ID")
	}

	var section model.Section
	if err := h.db.First(&section, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Section not found")
		}
		return response.InternalServerError(c, "Failed to fetch section")
	}

	if err := h.db.Delete(&section).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete section")
	}

	h.audit(c, "section.delete", "section", &section.ID, nil)

	return response.NoContent(c)
}
