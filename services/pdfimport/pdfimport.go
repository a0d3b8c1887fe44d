// Package pdfimport creates draft pages from an uploaded source PDF.
// Each PDF page becomes one draft book page; extracted text lines become
// text units classified by the arabic package. Admins review and publish
// the drafts afterwards.
package pdfimport

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/arabic"
	"gorm.io/gorm"
)

// Importer extracts PDF text and writes draft pages
type Importer struct {
	db *gorm.DB
}

// NewImporter creates a PDF importer
func NewImporter(db *gorm.DB) *Importer {
	return &Importer{db: db}
}

// Result summarizes one import run
type Result struct {
	PagesCreated int `json:"pages_created"`
	UnitsCreated int `json:"units_created"`
	PagesSkipped int `json:"pages_skipped"`
}

// Import parses the PDF and creates a draft page for every PDF page
// whose number is not already present on the book. Pages with no
// extractable text become empty drafts for manual annotation.
func (i *Importer) Import(book *model.Book, content []byte, startPageNumber int) (*Result, error) {
	content = sanitizePDF(content)

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	result := &Result{}

	err = i.db.Transaction(func(tx *gorm.DB) error {
		for p := 1; p <= numPages; p++ {
			pageNumber := startPageNumber + p - 1

			var existing int64
			if err := tx.Model(&model.Page{}).
				Where("book_id = ? AND page_number = ?", book.ID, pageNumber).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				result.PagesSkipped++
				continue
			}

			lines := extractLines(reader, p)

			page := model.Page{
				BookID:         book.ID,
				PageNumber:     pageNumber,
				LayoutType:     "pdf",
				HasTextData:    len(lines) > 0,
				AnalysisStatus: model.PageStatusDraft,
			}
			if err := tx.Create(&page).Error; err != nil {
				return err
			}
			result.PagesCreated++

			for order, line := range lines {
				unit := model.TextUnit{
					PageID:      page.ID,
					UnitType:    model.UnitType(arabic.ClassifyUnitType(line)),
					TextContent: line,
					SortOrder:   order,
				}
				if err := tx.Create(&unit).Error; err != nil {
					return err
				}
				result.UnitsCreated++
			}
		}

		// Keep the book page count in sync with the highest page
		var maxPage int
		if err := tx.Model(&model.Page{}).
			Where("book_id = ?", book.ID).
			Select("COALESCE(MAX(page_number), 0)").
			Scan(&maxPage).Error; err != nil {
			return err
		}
		return tx.Model(book).Update("total_pages", maxPage).Error
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// extractLines pulls non-empty text lines from one PDF page. Extraction
// failures degrade to an empty draft rather than failing the import.
func extractLines(reader *pdf.Reader, pageNum int) []string {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PDF import: panic extracting page %d: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		log.Printf("PDF import: failed to extract page %d: %v", pageNum, err)
		return nil
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// sanitizePDF truncates trailing garbage after the last %%EOF marker;
// PDFs pulled off the web often carry appended HTML
func sanitizePDF(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)
	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}

	if len(content)-pdfEnd > 10 {
		log.Printf("PDF import: removing %d bytes of trailing garbage after %%EOF", len(content)-pdfEnd)
		return content[:pdfEnd]
	}

	return content
}
