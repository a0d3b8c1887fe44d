package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/response"
	"github.com/muallimisoniy/api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UnitRequest is one text unit in create/update/replace payloads
type UnitRequest struct {
	UnitType    string         `json:"unit_type" validate:"required,oneof=letter word sentence drill_group divider"`
	TextContent string         `json:"text_content" validate:"required"`
	BboxX       float64        `json:"bbox_x"`
	BboxY       float64        `json:"bbox_y"`
	BboxW       float64        `json:"bbox_w"`
	BboxH       float64        `json:"bbox_h"`
	SortOrder   int            `json:"sort_order"`
	Metadata    datatypes.JSON `json:"metadata"`
}

// ReplaceUnitsRequest replaces a page's full unit list in one shot,
// the way the annotation editor saves
type ReplaceUnitsRequest struct {
	Units []UnitRequest `json:"units" validate:"required,dive"`
}

// ReplaceUnits swaps out all units of a page atomically
// PUT /admin/pages/:id/units
func (h *Handler) ReplaceUnits(c *fiber.Ctx) error {
	pageID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}

	var req ReplaceUnitsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var page model.Page
	if err := h.db.First(&page, pageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Page not found")
		}
		return response.InternalServerError(c, "Failed to fetch page")
	}

	units := make([]model.TextUnit, 0, len(req.Units))
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", page.ID).Delete(&model.TextUnit{}).Error; err != nil {
			return err
		}

		for _, u := range req.Units {
			unit := model.TextUnit{
				PageID:      page.ID,
				UnitType:    model.UnitType(u.UnitType),
				TextContent: u.TextContent,
				BboxX:       u.BboxX,
				BboxY:       u.BboxY,
				BboxW:       u.BboxW,
				BboxH:       u.BboxH,
				SortOrder:   u.SortOrder,
				IsManual:    true,
				Metadata:    u.Metadata,
			}
			if err := tx.Create(&unit).Error; err != nil {
				return err
			}
			units = append(units, unit)
		}

		return tx.Model(&page).Updates(map[string]interface{}{
			"has_text_data": len(units) > 0,
			"is_annotated":  true,
		}).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to replace units")
	}

	h.audit(c, "units.replace", "page", &page.ID, fiber.Map{"count": len(units)})

	return response.SuccessWithMessage(c, "Units replaced", units)
}

// CreateUnit adds a single unit to a page
// POST /admin/pages/:id/units
func (h *Handler) CreateUnit(c *fiber.Ctx) error {
	pageID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}

	var req UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var page model.Page
	if err := h.db.First(&page, pageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Page not found")
		}
		return response.InternalServerError(c, "Failed to fetch page")
	}

	unit := model.TextUnit{
		PageID:      page.ID,
		UnitType:    model.UnitType(req.UnitType),
		TextContent: req.TextContent,
		BboxX:       req.BboxX,
		BboxY:       req.BboxY,
		BboxW:       req.BboxW,
		BboxH:       req.BboxH,
		SortOrder:   req.SortOrder,
		IsManual:    true,
		Metadata:    req.Metadata,
	}
	if err := h.db.Create(&unit).Error; err != nil {
		return response.InternalServerError(c, "Failed to create unit")
	}

	h.db.Model(&page).Update("has_text_data", true)

	h.audit(c, "unit.create", "text_unit", &unit.ID, nil)

	return response.Created(c, unit)
}

// UpdateUnit updates a single unit
// PUT /admin/units/:id
func (h *Handler) UpdateUnit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid unit ID")
	}

	var req UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var unit model.TextUnit
	if err := h.db.First(&unit, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Unit not found")
		}
		return response.InternalServerError(c, "Failed to fetch unit")
	}

	if err := h.db.Model(&unit).Updates(map[string]interface{}{
		"unit_type":    req.UnitType,
		"text_content": req.TextContent,
		"bbox_x":       req.BboxX,
		"bbox_y":       req.BboxY,
		"bbox_w":       req.BboxW,
		"bbox_h":       req.BboxH,
		"sort_order":   req.SortOrder,
		"is_manual":    true,
		"metadata":     req.Metadata,
	}).Error; err != nil {
		return response.InternalServerError(c, "Failed to update unit")
	}

	h.audit(c, "unit.update", "text_unit", &unit.ID, nil)

	return response.SuccessWithMessage(c, "Unit updated", unit)
}

// DeleteUnit removes a single unit
// DELETE /admin/units/:id
func (h *Handler) DeleteUnit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid unit ID")
	}

	var unit model.TextUnit
	if err := h.db.First(&unit, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Unit not found")
		}
		return response.InternalServerError(c, "Failed to fetch unit")
	}

	if err := h.db.Delete(&unit).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete unit")
	}

	h.audit(c, "unit.delete", "text_unit", &unit.ID, nil)

	return response.NoContent(c)
}
