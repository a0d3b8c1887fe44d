package model

import (
	"time"
)

// FeedbackType is the submission category: "taklif" (suggestion) or
// "xatolik" (error report)
type FeedbackType string

const (
	FeedbackTaklif  FeedbackType = "taklif"
	FeedbackXatolik FeedbackType = "xatolik"
)

// FeedbackSubmission is a user feedback form entry
type FeedbackSubmission struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"type:varchar(200);not null" json:"name"`
	Phone         string       `gorm:"type:varchar(20);not null" json:"phone"`
	FeedbackType  FeedbackType `gorm:"type:varchar(20);not null" json:"feedback_type"`
	Details       string       `gorm:"type:text;not null" json:"details"`
	TelegramSent  bool         `gorm:"default:false" json:"telegram_sent"`
	TelegramError string       `gorm:"type:text" json:"-"`
	IPAddress     string       `gorm:"type:varchar(50)" json:"-"`
	UserAgent     string       `gorm:"type:varchar(500)" json:"-"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TableName specifies the table name for FeedbackSubmission
func (FeedbackSubmission) TableName() string {
	return "feedback_submissions"
}
