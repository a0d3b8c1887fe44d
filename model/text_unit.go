package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// UnitType classifies a text unit for rendering and drill behavior
type UnitType string

const (
	UnitTypeLetter     UnitType = "letter"
	UnitTypeWord       UnitType = "word"
	UnitTypeSentence   UnitType = "sentence"
	UnitTypeDrillGroup UnitType = "drill_group"
	UnitTypeDivider    UnitType = "divider"
)

// TextUnit is one tappable piece of page content (a letter form, a word
// or a full sentence) with its hitbox expressed as percentages of the page
type TextUnit struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	PageID      uint     `gorm:"not null;index" json:"page_id"`
	UnitType    UnitType `gorm:"type:varchar(20);not null;default:'letter'" json:"unit_type"`
	TextContent string   `gorm:"type:text;not null" json:"text_content"`

	// Bounding box (percentages 0-100 relative to the page image)
	BboxX float64 `gorm:"not null;default:0" json:"bbox_x"`
	BboxY float64 `gorm:"not null;default:0" json:"bbox_y"`
	BboxW float64 `gorm:"not null;default:0" json:"bbox_w"`
	BboxH float64 `gorm:"not null;default:0" json:"bbox_h"`

	SortOrder  int            `gorm:"default:0" json:"sort_order"`
	IsManual   bool           `gorm:"default:false" json:"is_manual"` // true once an admin touched it
	Confidence *float64       `json:"confidence"`                     // OCR confidence (0.0 - 1.0)
	Metadata   datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	SegmentMappings []UnitSegmentMapping `gorm:"foreignKey:TextUnitID;constraint:OnDelete:CASCADE" json:"segment_mappings,omitempty"`
}

// TableName specifies the table name for TextUnit
func (TextUnit) TableName() string {
	return "text_units"
}

// UnitMetadata is the decoded shape of TextUnit.Metadata
type UnitMetadata struct {
	Section string    `json:"section,omitempty"`
	Grid    *UnitGrid `json:"grid,omitempty"`
}

// UnitGrid places a unit inside an alphabet grid. Columns on header rows
// carry the positional form: 0=beginning, 1=middle, 2=end.
type UnitGrid struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// DecodeMetadata unmarshals the metadata column; a missing or broken
// column decodes to the zero value
func (u *TextUnit) DecodeMetadata() UnitMetadata {
	var meta UnitMetadata
	if len(u.Metadata) == 0 {
		return meta
	}
	_ = json.Unmarshal(u.Metadata, &meta)
	return meta
}

// EncodeMetadata marshals metadata into the JSON column format
func EncodeMetadata(meta UnitMetadata) (datatypes.JSON, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
