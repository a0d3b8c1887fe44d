package book

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/response"
	"gorm.io/gorm"
)

// BookHandler serves the public, read-only content endpoints. Only
// published pages are ever visible here.
type BookHandler struct {
	db *gorm.DB
}

// NewBookHandler creates a new public book handler
func NewBookHandler(db *gorm.DB) *BookHandler {
	return &BookHandler{db: db}
}

// GetBook handles GET /api/v1/book
func (h *BookHandler) GetBook(c *fiber.Ctx) error {
	var book model.Book
	if err := h.db.First(&book).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Kitob topilmadi")
		}
		return response.InternalServerError(c, "Failed to fetch book")
	}

	return response.Success(c, book)
}

// ListChapters handles GET /api/v1/book/chapters
func (h *BookHandler) ListChapters(c *fiber.Ctx) error {
	var book model.Book
	if err := h.db.First(&book).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.Success(c, []model.Chapter{})
		}
		return response.InternalServerError(c, "Failed to fetch book")
	}

	var chapters []model.Chapter
	if err := h.db.Where("book_id = ?", book.ID).
		Order("sort_order ASC").
		Find(&chapters).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch chapters")
	}

	return response.Success(c, chapters)
}

// PageSummary is the list view of a published page
type PageSummary struct {
	ID         uint   `json:"id"`
	PageNumber int    `json:"page_number"`
	ChapterID  *uint  `json:"chapter_id"`
	LayoutType string `json:"layout_type"`
	ImagePath  string `json:"image_path,omitempty"`
	UnitCount  int64  `json:"unit_count"`
}

// ListPages handles GET /api/v1/book/pages?limit=100
func (h *BookHandler) ListPages(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit < 1 {
		limit = 100
	}
	if limit > 200 {
		limit = 200
	}

	var pages []model.Page
	if err := h.db.Where("analysis_status = ?", model.PageStatusPublished).
		Order("page_number ASC").
		Limit(limit).
		Find(&pages).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch pages")
	}

	summaries := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		var unitCount int64
		h.db.Model(&model.TextUnit{}).Where("page_id = ?", p.ID).Count(&unitCount)

		summaries = append(summaries, PageSummary{
			ID:         p.ID,
			PageNumber: p.PageNumber,
			ChapterID:  p.ChapterID,
			LayoutType: p.LayoutType,
			ImagePath:  p.ImagePath,
			UnitCount:  unitCount,
		})
	}

	return response.Success(c, summaries)
}

// GetPage handles GET /api/v1/book/pages/:number with the page's ordered
// units and sections
func (h *BookHandler) GetPage(c *fiber.Ctx) error {
	number, err := strconv.Atoi(c.Params("number"))
	if err != nil || number < 1 {
		return response.BadRequest(c, "Invalid page number")
	}

	var page model.Page
	err = h.db.Preload("TextUnits", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Where("page_number = ? AND analysis_status = ?", number, model.PageStatusPublished).
		First(&page).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Sahifa topilmadi")
		}
		return response.InternalServerError(c, "Failed to fetch page")
	}

	return response.Success(c, page)
}
