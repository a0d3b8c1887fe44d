package model

import (
	"time"

	"gorm.io/datatypes"
)

// SystemSetting is a key-value application setting editable by admins
// (Telegram bot token, chat IDs, feature toggles)
type SystemSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy *uint     `json:"updated_by"`
}

// TableName specifies the table name for SystemSetting
func (SystemSetting) TableName() string {
	return "system_settings"
}

// Well-known setting keys
const (
	SettingTelegramBotToken = "telegram_bot_token"
	SettingTelegramChatIDs  = "telegram_chat_ids"
)

// AuditLog records every mutating admin action
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AdminID    *uint          `gorm:"index" json:"admin_id"`
	Action     string         `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityType string         `gorm:"type:varchar(100)" json:"entity_type"`
	EntityID   *uint          `json:"entity_id"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress  string         `gorm:"type:varchar(50)" json:"ip_address"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// ManifestVersion records one published content revision
type ManifestVersion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Version     int       `gorm:"not null;uniqueIndex" json:"version"`
	Changelog   string    `gorm:"type:text" json:"changelog"`
	PublishedBy *uint     `json:"published_by"`
	PublishedAt time.Time `json:"published_at"`
}

// TableName specifies the table name for ManifestVersion
func (ManifestVersion) TableName() string {
	return "manifest_versions"
}

// CronJobLog represents execution logs for background cron jobs
type CronJobLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	JobName     string     `gorm:"type:varchar(100);not null;index" json:"job_name"`
	Status      string     `gorm:"type:varchar(20);not null" json:"status"` // running, completed, failed
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Duration    int        `json:"duration_ms"`
	Message     string     `gorm:"type:text" json:"message"`
	ErrorMsg    string     `gorm:"type:text" json:"error_msg"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName specifies the table name for CronJobLog
func (CronJobLog) TableName() string {
	return "cron_job_logs"
}
