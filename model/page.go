package model

import (
	"time"

	"gorm.io/datatypes"
)

// PageStatus tracks a page through the upload/analyze/publish lifecycle
type PageStatus string

const (
	PageStatusEmpty     PageStatus = "empty"     // nothing uploaded yet
	PageStatusPending   PageStatus = "pending"   // image uploaded, waiting for analysis
	PageStatusAnalyzing PageStatus = "analyzing" // OCR/CV in progress
	PageStatusDraft     PageStatus = "draft"     // analysis done, needs admin review
	PageStatusPublished PageStatus = "published" // visible to the public API
	PageStatusError     PageStatus = "error"
)

// Page represents one book page and its rendering assets
type Page struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BookID     uint   `gorm:"not null;index" json:"book_id"`
	ChapterID  *uint  `gorm:"index" json:"chapter_id"`
	PageNumber int    `gorm:"not null;index" json:"page_number"`
	LayoutType string `gorm:"type:varchar(20);not null;default:'native'" json:"layout_type"` // "pdf" | "native"

	// Images
	ImagePath       string `gorm:"type:varchar(500)" json:"image_path"`
	Image2xPath     string `gorm:"type:varchar(500)" json:"image_2x_path"`
	SourceImagePath string `gorm:"type:varchar(500)" json:"source_image_path"`
	ImageWidth      *int   `json:"image_width"`
	ImageHeight     *int   `json:"image_height"`

	// Status
	HasTextData    bool       `gorm:"default:false" json:"has_text_data"`
	IsAnnotated    bool       `gorm:"default:false" json:"is_annotated"`
	AnalysisStatus PageStatus `gorm:"type:varchar(20);not null;default:'empty'" json:"analysis_status"`
	AnalysisError  string     `gorm:"type:text" json:"analysis_error"`

	// QA
	QAReport    datatypes.JSON `gorm:"type:jsonb" json:"qa_report"`
	PublishedAt *time.Time     `json:"published_at"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	TextUnits []TextUnit    `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"text_units,omitempty"`
	Sections  []Section     `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	Versions  []PageVersion `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"versions,omitempty"`
}

// TableName specifies the table name for Page
func (Page) TableName() string {
	return "pages"
}

// PageVersion is a snapshot of a page's text units taken at publish time,
// kept so a bad publish can be rolled back
type PageVersion struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PageID      uint           `gorm:"not null;index" json:"page_id"`
	Version     int            `gorm:"not null" json:"version"`
	Snapshot    datatypes.JSON `gorm:"type:jsonb;not null" json:"snapshot"`
	QAReport    datatypes.JSON `gorm:"type:jsonb" json:"qa_report"`
	PublishedBy *uint          `json:"published_by"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TableName specifies the table name for PageVersion
func (PageVersion) TableName() string {
	return "page_versions"
}
