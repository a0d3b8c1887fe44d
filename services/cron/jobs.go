package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/muallimisoniy/api/model"
)

// RunBackup dumps the database and media, prunes old archives and
// uploads the dump offsite when Spaces is configured
func (m *CronManager) RunBackup(logID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	jobName := "nightly_backup"

	result, err := m.backup.Run(ctx)
	if err != nil {
		m.logJobError(logID, jobName, err)
		return
	}

	msg := fmt.Sprintf("db=%s media=%s pruned=%d", result.DBArchive, result.MediaArchive, result.Pruned)
	if result.OffsiteURL != "" {
		msg += " offsite=yes"
	}
	m.logJobComplete(logID, jobName, msg)
}

// Retention windows for operational log tables
const (
	auditLogRetentionDays = 180
	cronLogRetentionDays  = 30
)

// CleanupOldLogs trims audit and cron job logs past their retention
func (m *CronManager) CleanupOldLogs(logID uint) {
	jobName := "cleanup_old_logs"

	auditCutoff := time.Now().AddDate(0, 0, -auditLogRetentionDays)
	auditResult := m.db.Where("created_at < ?", auditCutoff).Delete(&model.AuditLog{})
	if auditResult.Error != nil {
		m.logJobError(logID, jobName, fmt.Errorf("failed to clean audit logs: %w", auditResult.Error))
		return
	}

	cronCutoff := time.Now().AddDate(0, 0, -cronLogRetentionDays)
	cronResult := m.db.Where("created_at < ?", cronCutoff).Delete(&model.CronJobLog{})
	if cronResult.Error != nil {
		m.logJobError(logID, jobName, fmt.Errorf("failed to clean cron logs: %w", cronResult.Error))
		return
	}

	m.logJobComplete(logID, jobName, fmt.Sprintf(
		"Removed %d audit logs, %d cron logs",
		auditResult.RowsAffected, cronResult.RowsAffected,
	))
}
