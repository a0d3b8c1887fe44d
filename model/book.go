package model

import (
	"time"
)

// Book represents the single Muallimi Soniy book served by the API
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"type:varchar(500);not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Author          string    `gorm:"type:varchar(300)" json:"author"`
	TotalPages      int       `gorm:"default:0" json:"total_pages"`
	ManifestVersion int       `gorm:"default:1" json:"manifest_version"`
	IsPublished     bool      `gorm:"default:false" json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Chapters   []Chapter   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
	Pages      []Page      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"pages,omitempty"`
	AudioFiles []AudioFile `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"audio_files,omitempty"`
}

// TableName specifies the table name for Book
func (Book) TableName() string {
	return "books"
}

// Chapter represents a lesson chapter (a contiguous page range)
type Chapter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"not null;index" json:"book_id"`
	Title     string    `gorm:"type:varchar(500);not null" json:"title"`
	TitleAr   string    `gorm:"type:varchar(500)" json:"title_ar"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	StartPage *int      `json:"start_page"`
	EndPage   *int      `json:"end_page"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Chapter
func (Chapter) TableName() string {
	return "chapters"
}
