package admin

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/services/qa"
	"github.com/muallimisoniy/api/utils/middleware"
	"github.com/muallimisoniy/api/utils/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListPages lists pages with an optional status filter
// GET /admin/pages?status=draft&page=1&limit=50
func (h *Handler) ListPages(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	status := c.Query("status")

	query := h.db.Model(&model.Page{})
	if status != "" {
		query = query.Where("analysis_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count pages")
	}

	meta := response.CalculatePagination(page, limit, total)

	var pages []model.Page
	if err := query.Order("page_number ASC").
		Offset((meta.CurrentPage - 1) * meta.PerPage).
		Limit(meta.PerPage).
		Find(&pages).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch pages")
	}

	return response.Paginated(c, pages, meta)
}

// GetPage returns one page with its units and sections regardless of status
// GET /admin/pages/:id
func (h *Handler) GetPage(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}

	var page model.Page
	err = h.db.Preload("TextUnits", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&page, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Page not found")
		}
		return response.InternalServerError(c, "Failed to fetch page")
	}

	return response.Success(c, page)
}

// RunQA runs the quality checks without publishing
// POST /admin/pages/:id/qa
func (h *Handler) RunQA(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}

	result, _, err := h.runPageQA(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Page not found")
		}
		return response.InternalServerError(c, "Failed to run QA checks")
	}

	return response.Success(c, result)
}

// PublishPage publishes a single page. Publishing is gated on the QA
// checks; a failing page comes back as 422 with the full report so the
// admin can see what to fix.
// PUT /admin/pages/:id/publish
func (h *Handler) PublishPage(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}

	result, units, err := h.runPageQA(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Page not found")
		}
		return response.InternalServerError(c, "Failed to run QA checks")
	}

	report, err := json.Marshal(result)
	if err != nil {
		return response.InternalServerError(c, "Failed to encode QA report")
	}

	if !result.Passed {
		// Persist the failing report so the dashboard can show it later
		h.db.Model(&model.Page{}).Where("id = ?", id).
			Update("qa_report", datatypes.JSON(report))
		return response.ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
			"Sahifa sifat tekshiruvidan o'tmadi", "QA_FAILED", result)
	}

	snapshot, err := json.Marshal(units)
	if err != nil {
		return response.InternalServerError(c, "Failed to snapshot page")
	}

	var adminID *uint
	if admin, ok := middleware.AdminFromContext(c); ok {
		adminID = &admin.ID
	}

	now := time.Now()
	var version int
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var latest int64
		if err := tx.Model(&model.PageVersion{}).
			Where("page_id = ?", id).
			Count(&latest).Error; err != nil {
			return err
		}
		version = int(latest) + 1

		if err := tx.Create(&model.PageVersion{
			PageID:      uint(id),
			Version:     version,
			Snapshot:    datatypes.JSON(snapshot),
			QAReport:    datatypes.JSON(report),
			PublishedBy: adminID,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&model.Page{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"analysis_status": model.PageStatusPublished,
				"qa_report":       datatypes.JSON(report),
				"published_at":    now,
			}).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to publish page")
	}

	pageID := uint(id)
	h.manifest.Invalidate(c)
	h.audit(c, "page.publish", "page", &pageID, fiber.Map{
		"version":  version,
		"qa_score": result.Score,
	})

	return response.SuccessWithMessage(c, "Page published", fiber.Map{
		"version":   version,
		"qa_report": result,
	})
}

// UnpublishPage sends a published page back to draft
// PUT /admin/pages/:id/unpublish
func (h *Handler) UnpublishPage(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}

	res := h.db.Model(&model.Page{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"analysis_status": model.PageStatusDraft,
			"published_at":    nil,
		})
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to unpublish page")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "Page not found")
	}

	pageID := uint(id)
	h.manifest.Invalidate(c)
	h.audit(c, "page.unpublish", "page", &pageID, nil)

	return response.SuccessWithMessage(c, "Page unpublished", nil)
}

// ListVersions lists the publish history of a page
// GET /admin/pages/:id/versions
func (h *Handler) ListVersions(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}

	var versions []model.PageVersion
	if err := h.db.Where("page_id = ?", id).
		Order("version DESC").
		Find(&versions).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch versions")
	}

	return response.Success(c, versions)
}

// RollbackPage restores a page's units from a version snapshot. The page
// drops back to draft so the restored state is reviewed before it goes
// live again.
// PUT /admin/pages/:id/rollback/:version
func (h *Handler) RollbackPage(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid page ID")
	}
	versionNum, err := strconv.Atoi(c.Params("version"))
	if err != nil {
		return response.BadRequest(c, "Invalid version number")
	}

	var version model.PageVersion
	if err := h.db.Where("page_id = ? AND version = ?", id, versionNum).
		First(&version).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Version not found")
		}
		return response.InternalServerError(c, "Failed to fetch version")
	}

	var units []model.TextUnit
	if err := json.Unmarshal(version.Snapshot, &units); err != nil {
		return response.InternalServerError(c, "Snapshot is corrupted")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", id).Delete(&model.TextUnit{}).Error; err != nil {
			return err
		}

		for i := range units {
			units[i].ID = 0
			units[i].PageID = uint(id)
			if err := tx.Create(&units[i]).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Page{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"analysis_status": model.PageStatusDraft,
				"published_at":    nil,
			}).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to roll back page")
	}

	pageID := uint(id)
	h.manifest.Invalidate(c)
	h.audit(c, "page.rollback", "page", &pageID, fiber.Map{"version": versionNum})

	return response.SuccessWithMessage(c, "Page rolled back", fiber.Map{
		"version":        versionNum,
		"restored_units": len(units),
	})
}

// runPageQA loads a page's units and runs the quality checks over them
func (h *Handler) runPageQA(pageID uint) (qa.Result, []model.TextUnit, error) {
	var page model.Page
	if err := h.db.First(&page, pageID).Error; err != nil {
		return qa.Result{}, nil, err
	}

	var units []model.TextUnit
	if err := h.db.Where("page_id = ?", pageID).
		Order("sort_order ASC").
		Find(&units).Error; err != nil {
		return qa.Result{}, nil, err
	}

	qaUnits := make([]qa.Unit, 0, len(units))
	for _, u := range units {
		qaUnit := qa.Unit{
			TextContent: u.TextContent,
			BboxX:       u.BboxX,
			BboxY:       u.BboxY,
			BboxW:       u.BboxW,
			BboxH:       u.BboxH,
			SortOrder:   u.SortOrder,
		}

		// Audio coverage looks at mapped, published segments only
		var mapping model.UnitSegmentMapping
		if err := h.db.Where("text_unit_id = ?", u.ID).First(&mapping).Error; err == nil {
			var segment model.AudioSegment
			if err := h.db.First(&segment, mapping.AudioSegmentID).Error; err == nil && segment.FilePath != "" {
				qaUnit.AudioSegmentURL = segment.FilePath
			}
		}

		qaUnits = append(qaUnits, qaUnit)
	}

	return qa.Run(qaUnits), units, nil
}
