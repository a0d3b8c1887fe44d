package cron

import (
	"os"
	"testing"

	"github.com/muallimisoniy/api/config"
	"github.com/muallimisoniy/api/database"
	"github.com/muallimisoniy/api/model"
	"gorm.io/gorm"
)

func TestJobLogCompletionTargetsOneRun(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}
	if err := config.LoadENV(); err != nil {
		t.Logf("No .env file, using system environment: %v", err)
	}

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		t.Fatal("Failed to get GORM DB instance")
	}
	if err := db.AutoMigrate(&model.CronJobLog{}); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	const jobName = "overlap_check"
	m := &CronManager{db: db}
	defer db.Where("job_name = ?", jobName).Delete(&model.CronJobLog{})

	// Two overlapping runs of the same job
	firstID := m.logJobStart(jobName)
	secondID := m.logJobStart(jobName)
	if firstID == 0 || secondID == 0 {
		t.Fatal("Expected log rows to be created")
	}

	m.logJobComplete(secondID, jobName, "done")

	var first model.CronJobLog
	if err := db.First(&first, firstID).Error; err != nil {
		t.Fatalf("First log row missing: %v", err)
	}
	if first.Status != "running" {
		t.Errorf("Completing one run must not touch the other, got status %q", first.Status)
	}

	var second model.CronJobLog
	if err := db.First(&second, secondID).Error; err != nil {
		t.Fatalf("Second log row missing: %v", err)
	}
	if second.Status != "completed" || second.CompletedAt == nil {
		t.Errorf("Expected the completed run to be recorded, got status %q", second.Status)
	}

	m.logJobError(firstID, jobName, os.ErrDeadlineExceeded)
	var failed model.CronJobLog
	if err := db.First(&failed, firstID).Error; err != nil {
		t.Fatalf("First log row missing after error: %v", err)
	}
	if failed.Status != "failed" || failed.ErrorMsg == "" {
		t.Errorf("Expected the failed run to be recorded, got %+v", failed)
	}
}
