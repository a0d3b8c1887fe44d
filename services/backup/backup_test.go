package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPruneDirRemovesOldArchives(t *testing.T) {
	dir := t.TempDir()

	old1 := writeAged(t, dir, "db_20250101_120000_ab12cd34.dump", 40*24*time.Hour)
	old2 := writeAged(t, dir, "media_20250101_120000_ab12cd34.tar.gz", 35*24*time.Hour)
	fresh := writeAged(t, dir, "db_20250810_020000_ef56ab78.dump", 24*time.Hour)

	cutoff := time.Now().AddDate(0, 0, -30)
	pruned, err := PruneDir(dir, cutoff)
	if err != nil {
		t.Fatalf("PruneDir failed: %v", err)
	}
	if pruned != 2 {
		t.Errorf("Expected 2 pruned archives, got %d", pruned)
	}

	for _, gone := range []string{old1, old2} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be removed", filepath.Base(gone))
		}
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("Fresh archive must survive: %v", err)
	}
}

func TestPruneDirIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()

	// Old, but not backup archives
	notes := writeAged(t, dir, "notes.txt", 90*24*time.Hour)
	dump := writeAged(t, dir, "manual_export.sql", 90*24*time.Hour)

	pruned, err := PruneDir(dir, time.Now())
	if err != nil {
		t.Fatalf("PruneDir failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("Expected nothing pruned, got %d", pruned)
	}
	for _, kept := range []string{notes, dump} {
		if _, err := os.Stat(kept); err != nil {
			t.Errorf("Foreign file %s must survive: %v", filepath.Base(kept), err)
		}
	}
}

func TestPruneDirMissingDirectory(t *testing.T) {
	pruned, err := PruneDir(filepath.Join(t.TempDir(), "does-not-exist"), time.Now())
	if err != nil {
		t.Fatalf("Missing dir should not error: %v", err)
	}
	if pruned != 0 {
		t.Errorf("Expected 0 pruned, got %d", pruned)
	}
}

func TestIsBackupArchive(t *testing.T) {
	cases := map[string]bool{
		"db_20250101_120000_ab12cd34.dump":       true,
		"media_20250101_120000_ab12cd34.tar.gz":  true,
		"db_20250101.tar.gz":                     true,
		"notes.txt":                              false,
		"db_dump.sql":                            false,
		"backup_media_20250101_120000.tar.gz":    false,
		"media_20250101_120000_ab12cd34.tar.bz2": false,
	}
	for name, want := range cases {
		if got := isBackupArchive(name); got != want {
			t.Errorf("isBackupArchive(%q) = %v, want %v", name, got, want)
		}
	}
}
