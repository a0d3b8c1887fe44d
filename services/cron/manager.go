package cron

import (
	"log"
	"time"

	"github.com/muallimisoniy/api/config"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/services/backup"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager manages all scheduled background jobs
type CronManager struct {
	cron   *cron.Cron
	db     *gorm.DB
	backup *backup.Service
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, env *config.EnviornmentVariable) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:   c,
		db:     db,
		backup: backup.NewService(env),
	}
}

// Start registers and starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Daily at 2 AM: database + media backup with retention pruning
	_, err := m.cron.AddFunc("0 0 2 * * *", func() {
		logID := m.logJobStart("nightly_backup")
		m.RunBackup(logID)
	})
	if err != nil {
		return err
	}

	// 2. Daily at 3:30 AM: cleanup old logs
	_, err = m.cron.AddFunc("0 30 3 * * *", func() {
		logID := m.logJobStart("cleanup_old_logs")
		m.CleanupOldLogs(logID)
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart records the start of a cron job and returns the log row
// ID so completion updates hit exactly this run
func (m *CronManager) logJobStart(jobName string) uint {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
	}
	m.db.Create(&cronLog)
	return cronLog.ID
}

// logJobComplete records successful completion of a cron job
func (m *CronManager) logJobComplete(logID uint, jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	m.db.Model(&model.CronJobLog{}).
		Where("id = ?", logID).
		Updates(map[string]interface{}{
			"status":       "completed",
			"completed_at": time.Now(),
			"message":      message,
		})
}

// logJobError records a cron job failure
func (m *CronManager) logJobError(logID uint, jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	m.db.Model(&model.CronJobLog{}).
		Where("id = ?", logID).
		Updates(map[string]interface{}{
			"status":       "failed",
			"completed_at": time.Now(),
			"error_msg":    err.Error(),
		})
}
