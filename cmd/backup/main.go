// Command backup runs one full backup cycle: pg_dump, media archive,
// retention pruning and an optional offsite copy. The nightly cron job
// runs the same service; this command exists for manual runs.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/muallimisoniy/api/config"
	"github.com/muallimisoniy/api/services/backup"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	service := backup.NewService(env)
	result, err := service.Run(ctx)
	if err != nil {
		log.Fatalf("Backup failed: %v", err)
	}

	fmt.Printf("Database archive: %s\n", result.DBArchive)
	if result.MediaArchive != "" {
		fmt.Printf("Media archive:    %s\n", result.MediaArchive)
	}
	fmt.Printf("Pruned archives:  %d\n", result.Pruned)
	if result.OffsiteURL != "" {
		fmt.Printf("Offsite copy:     %s\n", result.OffsiteURL)
	}
}
