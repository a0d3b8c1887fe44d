package admin

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/services/pdfimport"
	"github.com/muallimisoniy/api/utils/response"
)

const maxPDFSize = 50 * 1024 * 1024 // 50 MB

// ImportPDF creates draft pages from an uploaded PDF
// POST /admin/import/pdf (multipart, field "file", optional "start_page")
func (h *Handler) ImportPDF(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "PDF file is required")
	}

	if fileHeader.Size > maxPDFSize {
		return response.BadRequest(c, "PDF exceeds the 50 MB limit")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return response.BadRequest(c, "Only PDF files are accepted")
	}

	startPage := 1
	if v := c.FormValue("start_page"); v != "" {
		startPage, err = strconv.Atoi(v)
		if err != nil || startPage < 1 {
			return response.BadRequest(c, "Invalid start_page")
		}
	}

	var book model.Book
	if err := h.db.First(&book).Error; err != nil {
		return response.NotFound(c, "Book not found")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to open uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}

	importer := pdfimport.NewImporter(h.db)
	result, err := importer.Import(&book, content, startPage)
	if err != nil {
		return response.BadRequest(c, "PDF import failed: "+err.Error())
	}

	h.audit(c, "pdf.import", "book", &book.ID, fiber.Map{
		"filename":      fileHeader.Filename,
		"pages_created": result.PagesCreated,
		"units_created": result.UnitsCreated,
		"pages_skipped": result.PagesSkipped,
	})

	return response.Created(c, result)
}
