package manifest

import (
	"strings"
	"testing"

	"github.com/muallimisoniy/api/config"
)

func TestEmptyManifestBeforeBookExists(t *testing.T) {
	h := &ManifestHandler{env: &config.EnviornmentVariable{MEDIA_BASE_URL: "https://cdn.example.com/media"}}

	m := h.emptyManifest()
	if m.ManifestVersion != 0 {
		t.Errorf("Expected version 0 before seeding, got %d", m.ManifestVersion)
	}
	if m.BookID != 0 || m.PageCount != 0 || m.UnitCount != 0 || m.SectionCount != 0 {
		t.Errorf("Expected zero counts, got %+v", m)
	}
	if m.ETag != computeETag(0, 0, 0, 0) {
		t.Errorf("Empty manifest ETag must be the zero-content fingerprint, got %s", m.ETag)
	}
	if m.MediaBaseURL != "https://cdn.example.com/media" {
		t.Errorf("Media base URL not carried over: %s", m.MediaBaseURL)
	}
}

func TestComputeETag(t *testing.T) {
	etag := computeETag(3, 12, 240, 36)

	// Quoted per RFC 7232 and stable across calls
	if !strings.HasPrefix(etag, `"`) || !strings.HasSuffix(etag, `"`) {
		t.Errorf("ETag must be quoted, got %s", etag)
	}
	if etag != computeETag(3, 12, 240, 36) {
		t.Error("Same content must produce the same ETag")
	}

	if etag == computeETag(4, 12, 240, 36) {
		t.Error("Version bump must change the ETag")
	}
	if etag == computeETag(3, 12, 241, 36) {
		t.Error("Unit count change must change the ETag")
	}
}
