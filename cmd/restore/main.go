// Command restore loads a database dump (and optionally a media
// archive) produced by cmd/backup, then verifies the restored tables
// with direct SQL row counts.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/muallimisoniy/api/config"
	"github.com/muallimisoniy/api/services/backup"
)

func main() {
	dbArchive := flag.String("db", "", "path to the db_*.dump archive (required)")
	mediaArchive := flag.String("media", "", "path to the media_*.tar.gz archive (optional)")
	flag.Parse()

	if *dbArchive == "" {
		log.Fatal("Usage: restore -db <db archive> [-media <media archive>]")
	}

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
	if err := service.Restore(ctx, *dbArchive, *mediaArchive); err != nil {
		log.Fatalf("Restore failed: %v", err)
	}

	if err := verify(env); err != nil {
		log.Fatalf("Restore verification failed: %v", err)
	}

	fmt.Println("Restore completed and verified")
}

// verify connects with database/sql directly (no ORM) and counts rows
// in the core tables, so a truncated dump is caught immediately
func verify(env *config.EnviornmentVariable) error {
	sslMode := env.DB_SSL_MODE
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		env.DB_HOST, env.DB_PORT, env.DB_USER_NAME, env.DB_PASSWORD, env.DB_NAME, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database unreachable after restore: %w", err)
	}

	tables := []string{"books", "chapters", "pages", "text_units", "sections"}
	for _, table := range tables {
		var count int64
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return fmt.Errorf("table %s missing or unreadable: %w", table, err)
		}
		fmt.Printf("  %-12s %d rows\n", table, count)
	}

	return nil
}
