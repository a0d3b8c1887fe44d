package model

import (
	"time"

	"gorm.io/datatypes"
)

// AudioStatus tracks an uploaded audio file through segmentation
type AudioStatus string

const (
	AudioStatusUploaded   AudioStatus = "uploaded"
	AudioStatusProcessing AudioStatus = "processing"
	AudioStatusSegmented  AudioStatus = "segmented"
	AudioStatusReady      AudioStatus = "ready"
	AudioStatusError      AudioStatus = "error"
)

// AudioFile is a recorded recitation covering a range of pages
type AudioFile struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	BookID           uint           `gorm:"not null;index" json:"book_id"`
	OriginalFilename string         `gorm:"type:varchar(500);not null" json:"original_filename"`
	FilePath         string         `gorm:"type:varchar(500);not null" json:"file_path"`
	NormalizedPath   string         `gorm:"type:varchar(500)" json:"normalized_path"`
	DurationMs       *int           `json:"duration_ms"`
	FileSizeBytes    *int64         `json:"file_size_bytes"`
	Status           AudioStatus    `gorm:"type:varchar(20);not null;default:'uploaded'" json:"status"`
	ErrorMessage     string         `gorm:"type:text" json:"error_message"`
	PageStart        *int           `json:"page_start"`
	PageEnd          *int           `json:"page_end"`
	WaveformPeaks    datatypes.JSON `gorm:"type:jsonb" json:"waveform_peaks"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	// Relationships
	Segments []AudioSegment `gorm:"foreignKey:AudioFileID;constraint:OnDelete:CASCADE" json:"segments,omitempty"`
}

// TableName specifies the table name for AudioFile
func (AudioFile) TableName() string {
	return "audio_files"
}

// AudioSegment is one cut of an audio file, mapped onto text units
type AudioSegment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AudioFileID  uint      `gorm:"not null;index" json:"audio_file_id"`
	SegmentIndex int       `gorm:"not null" json:"segment_index"`
	FilePath     string    `gorm:"type:varchar(500)" json:"file_path"`
	StartMs      int       `gorm:"not null" json:"start_ms"`
	EndMs        int       `gorm:"not null" json:"end_ms"`
	DurationMs   int       `gorm:"not null" json:"duration_ms"`
	IsSilence    bool      `gorm:"default:false" json:"is_silence"`
	Label        string    `gorm:"type:varchar(200)" json:"label"`
	Version      int       `gorm:"default:1" json:"version"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	UnitMappings []UnitSegmentMapping `gorm:"foreignKey:AudioSegmentID;constraint:OnDelete:CASCADE" json:"unit_mappings,omitempty"`
}

// TableName specifies the table name for AudioSegment
func (AudioSegment) TableName() string {
	return "audio_segments"
}

// UnitSegmentMapping links a text unit to the audio segment that reads it
type UnitSegmentMapping struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TextUnitID     uint       `gorm:"not null;index" json:"text_unit_id"`
	AudioSegmentID uint       `gorm:"not null;index" json:"audio_segment_id"`
	Version        int        `gorm:"default:1" json:"version"`
	IsPublished    bool       `gorm:"default:false" json:"is_published"`
	PublishedAt    *time.Time `json:"published_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName specifies the table name for UnitSegmentMapping
func (UnitSegmentMapping) TableName() string {
	return "unit_segment_mappings"
}
