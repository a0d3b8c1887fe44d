package model

import (
	"time"

	"gorm.io/datatypes"
)

// SectionType identifies the lesson structure a group of units belongs to
type SectionType string

const (
	SectionOpeningSentence    SectionType = "opening_sentence"
	SectionAlphabetGrid       SectionType = "alphabet_grid"
	SectionLetterIntroduction SectionType = "letter_introduction"
	SectionLetterDrill        SectionType = "letter_drill"
	SectionWordDrill          SectionType = "word_drill"
	SectionDivider            SectionType = "divider"
	SectionGeneric            SectionType = "generic"
)

// Section groups an ordered set of a page's text units into one lesson block
type Section struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PageID       uint           `gorm:"not null;index" json:"page_id"`
	SectionType  SectionType    `gorm:"type:varchar(30);not null;default:'generic'" json:"section_type"`
	TargetLetter string         `gorm:"type:varchar(10)" json:"target_letter"`
	TitleAr      string         `gorm:"type:varchar(300)" json:"title_ar"`
	TitleUz      string         `gorm:"type:varchar(300)" json:"title_uz"`
	SortOrder    int            `gorm:"default:0" json:"sort_order"`
	IsManual     bool           `gorm:"default:false" json:"is_manual"`
	UnitIDs      datatypes.JSON `gorm:"type:jsonb;not null" json:"unit_ids"` // ordered list of text_unit IDs
	BboxYStart   *float64       `json:"bbox_y_start"`                        // top boundary (% of page)
	BboxYEnd     *float64       `json:"bbox_y_end"`                          // bottom boundary (% of page)
	CreatedAt    time.Time      `json:"created_at"`
}

// TableName specifies the table name for Section
func (Section) TableName() string {
	return "sections"
}
