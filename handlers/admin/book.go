package admin

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/middleware"
	"github.com/muallimisoniy/api/utils/response"
	"github.com/muallimisoniy/api/utils/validation"
	"gorm.io/gorm"
)

// GetBook returns the book with draft-state counts for the dashboard
// GET /admin/book
func (h *Handler) GetBook(c *fiber.Ctx) error {
	var book model.Book
	if err := h.db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&book).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to fetch book")
	}

	var draftCount, publishedCount int64
	h.db.Model(&model.Page{}).Where("book_id = ? AND analysis_status = ?", book.ID, model.PageStatusDraft).Count(&draftCount)
	h.db.Model(&model.Page{}).Where("book_id = ? AND analysis_status = ?", book.ID, model.PageStatusPublished).Count(&publishedCount)

	return response.Success(c, fiber.Map{
		"book":            book,
		"draft_pages":     draftCount,
		"published_pages": publishedCount,
	})
}

// PublishBookRequest carries the changelog for a new manifest version
type PublishBookRequest struct {
	Changelog string `json:"changelog"`
}

// PublishBook bumps the manifest version so clients re-sync
// PUT /admin/book/publish
func (h *Handler) PublishBook(c *fiber.Ctx) error {
	var req PublishBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var book model.Book
	if err := h.db.First(&book).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to fetch book")
	}

	var adminID *uint
	if admin, ok := middleware.AdminFromContext(c); ok {
		adminID = &admin.ID
	}

	newVersion := book.ManifestVersion + 1
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&book).Updates(map[string]interface{}{
			"manifest_version": newVersion,
			"is_published":     true,
		}).Error; err != nil {
			return err
		}

		return tx.Create(&model.ManifestVersion{
			Version:     newVersion,
			Changelog:   req.Changelog,
			PublishedBy: adminID,
			PublishedAt: time.Now(),
		}).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to publish book")
	}

	book.ManifestVersion = newVersion
	book.IsPublished = true

	h.manifest.Invalidate(c)
	h.audit(c, "book.publish", "book", &book.ID, fiber.Map{
		"manifest_version": newVersion,
		"changelog":        req.Changelog,
	})

	return response.SuccessWithMessage(c, "Book published", book)
}

// ChapterRequest is the create/update chapter payload
type ChapterRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=500"`
	TitleAr   string `json:"title_ar" validate:"max=500"`
	SortOrder int    `json:"sort_order"`
	StartPage *int   `json:"start_page"`
	EndPage   *int   `json:"end_page"`
}

// CreateChapter adds a chapter to the book
// POST /admin/book/chapters
func (h *Handler) CreateChapter(c *fiber.Ctx) error {
	var req ChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var book model.Book
	if err := h.db.First(&book).Error; err != nil {
		return response.NotFound(c, "Book not found")
	}

	chapter := model.Chapter{
		BookID:    book.ID,
		Title:     req.Title,
		TitleAr:   req.TitleAr,
		SortOrder: req.SortOrder,
		StartPage: req.StartPage,
		EndPage:   req.EndPage,
	}
	if err := h.db.Create(&chapter).Error; err != nil {
		return response.InternalServerError(c, "Failed to create chapter")
	}

	h.audit(c, "chapter.create", "chapter", &chapter.ID, req)

	return response.Created(c, chapter)
}

// UpdateChapter updates a chapter
// PUT /admin/book/chapters/:id
func (h *Handler) UpdateChapter(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid chapter ID")
	}

	var req ChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var chapter model.Chapter
	if err := h.db.First(&chapter, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Chapter not found")
		}
		return response.InternalServerError(c, "Failed to fetch chapter")
	}

	if err := h.db.Model(&chapter).Updates(map[string]interface{}{
		"title":      req.Title,
		"title_ar":   req.TitleAr,
		"sort_order": req.SortOrder,
		"start_page": req.StartPage,
		"end_page":   req.EndPage,
	}).Error; err != nil {
		return response.InternalServerError(c, "Failed to update chapter")
	}

	h.audit(c, "chapter.update", "chapter", &chapter.ID, req)

	return response.SuccessWithMessage(c, "Chapter updated", chapter)
}

// DeleteChapter removes a chapter; its pages stay but lose the link
// DELETE /admin/book/chapters/:id
func (h *Handler) DeleteChapter(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid chapter ID")
	}

	var chapter model.Chapter
	if err := h.db.First(&chapter, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Chapter not found")
		}
		return response.InternalServerError(c, "Failed to fetch chapter")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Page{}).
			Where("chapter_id = ?", chapter.ID).
			Update("chapter_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&chapter).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete chapter")
	}

	h.audit(c, "chapter.delete", "chapter", &chapter.ID, nil)

	return response.NoContent(c)
}
