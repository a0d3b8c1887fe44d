// Package backup dumps the database and media directory into timestamped
// archives, prunes archives past the retention window and optionally
// copies fresh archives offsite. Dumping and tarring are delegated to
// pg_dump and tar, matching how operators run these by hand.
package backup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muallimisoniy/api/config"
	"github.com/muallimisoniy/api/services/spaces"
)

// Service runs backup and restore operations
type Service struct {
	env    *config.EnviornmentVariable
	spaces *spaces.Client
}

// NewService creates a backup service; the Spaces client is nil when
// offsite copies are not configured
func NewService(env *config.EnviornmentVariable) *Service {
	s := &Service{env: env}

	cfg := spaces.Config{
		AccessKey: env.DO_SPACES_KEY,
		SecretKey: env.DO_SPACES_SECRET,
		Bucket:    env.DO_SPACES_BUCKET,
		Region:    env.DO_SPACES_REGION,
		Endpoint:  env.DO_SPACES_ENDPOINT,
	}
	if cfg.Configured() {
		client, err := spaces.NewClient(cfg)
		if err != nil {
			log.Printf("Warning: Spaces client unavailable, backups stay local: %v", err)
		} else {
			s.spaces = client
		}
	}

	return s
}

// Result describes one completed backup run
type Result struct {
	DBArchive    string `json:"db_archive"`
	MediaArchive string `json:"media_archive"`
	Pruned       int    `json:"pruned"`
	OffsiteURL   string `json:"offsite_url,omitempty"`
}

// Run performs a full backup: database dump, media archive, prune,
// offsite copy. Media and offsite failures are warnings; only a failed
// database dump fails the run.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(s.env.BACKUP_DIR, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup dir: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	suffix := strings.Split(uuid.New().String(), "-")[0]

	result := &Result{}

	dbArchive, err := s.dumpDatabase(ctx, stamp, suffix)
	if err != nil {
		return nil, err
	}
	result.DBArchive = dbArchive

	mediaArchive, err := s.archiveMedia(ctx, stamp, suffix)
	if err != nil {
		log.Printf("Warning: media backup failed: %v", err)
	} else {
		result.MediaArchive = mediaArchive
	}

	pruned, err := s.Prune()
	if err != nil {
		log.Printf("Warning: backup pruning failed: %v", err)
	}
	result.Pruned = pruned

	if s.spaces != nil {
		url, err := s.spaces.UploadFile(ctx, "backups", dbArchive)
		if err != nil {
			log.Printf("Warning: offsite upload failed: %v", err)
		} else {
			result.OffsiteURL = url
		}
	}

	return result, nil
}

// dumpDatabase runs pg_dump into a compressed custom-format dump
func (s *Service) dumpDatabase(ctx context.Context, stamp, suffix string) (string, error) {
	path := filepath.Join(s.env.BACKUP_DIR, fmt.Sprintf("db_%s_%s.dump", stamp, suffix))

	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", s.env.DB_HOST,
		"-p", s.env.DB_PORT,
		"-U", s.env.DB_USER_NAME,
		"-d", s.env.DB_NAME,
		"--format=custom",
		"--compress=9",
		"-f", path,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+s.env.DB_PASSWORD)

	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("pg_dump failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	log.Printf("Database dumped to %s", path)
	return path, nil
}

// archiveMedia tars the media directory, excluding normalized audio
// (regenerable from the originals)
func (s *Service) archiveMedia(ctx context.Context, stamp, suffix string) (string, error) {
	if _, err := os.Stat(s.env.MEDIA_DIR); err != nil {
		return "", fmt.Errorf("media dir %s not found: %w", s.env.MEDIA_DIR, err)
	}

	path := filepath.Join(s.env.BACKUP_DIR, fmt.Sprintf("media_%s_%s.tar.gz", stamp, suffix))

	cmd := exec.CommandContext(ctx, "tar",
		"--exclude=*/normalized/*",
		"-czf", path,
		"-C", filepath.Dir(s.env.MEDIA_DIR),
		filepath.Base(s.env.MEDIA_DIR),
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("tar failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	log.Printf("Media archived to %s", path)
	return path, nil
}

// Prune deletes local archives older than the retention window
func (s *Service) Prune() (int, error) {
	cutoff := time.Now().AddDate(0, 0, -s.env.BACKUP_RETENTION_DAYS)
	return PruneDir(s.env.BACKUP_DIR, cutoff)
}

// PruneDir removes backup archives in dir with a modification time
// before cutoff. Only files matching the backup naming scheme are
// touched.
func PruneDir(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	pruned := 0
	for _, entry := range entries {
		if entry.IsDir() || !isBackupArchive(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Printf("Warning: failed to prune %s: %v", entry.Name(), err)
			continue
		}
		pruned++
	}

	return pruned, nil
}

func isBackupArchive(name string) bool {
	if !strings.HasPrefix(name, "db_") && !strings.HasPrefix(name, "media_") {
		return false
	}
	return strings.HasSuffix(name, ".dump") || strings.HasSuffix(name, ".tar.gz")
}

// Restore loads a database dump with pg_restore and unpacks an optional
// media archive. Existing data is replaced.
func (s *Service) Restore(ctx context.Context, dbArchive, mediaArchive string) error {
	if _, err := os.Stat(dbArchive); err != nil {
		return fmt.Errorf("db backup %s not found: %w", dbArchive, err)
	}

	cmd := exec.CommandContext(ctx, "pg_restore",
		"-h", s.env.DB_HOST,
		"-p", s.env.DB_PORT,
		"-U", s.env.DB_USER_NAME,
		"-d", s.env.DB_NAME,
		"--clean",
		"--if-exists",
		"--no-owner",
		dbArchive,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+s.env.DB_PASSWORD)

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pg_restore failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	log.Printf("Database restored from %s", dbArchive)

	if mediaArchive == "" {
		return nil
	}

	if _, err := os.Stat(mediaArchive); err != nil {
		return fmt.Errorf("media backup %s not found: %w", mediaArchive, err)
	}

	tarCmd := exec.CommandContext(ctx, "tar",
		"-xzf", mediaArchive,
		"-C", filepath.Dir(s.env.MEDIA_DIR),
	)
	if out, err := tarCmd.CombinedOutput(); err != nil {
		return fmt.Errorf("media restore failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	log.Printf("Media restored from %s", mediaArchive)

	return nil
}
