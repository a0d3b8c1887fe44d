package manifest

import (
	"crypto/md5"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/config"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/cache"
	"github.com/muallimisoniy/api/utils/response"
	"gorm.io/gorm"
)

const manifestCacheKey = "manifest:current"
const manifestCacheTTL = 5 * time.Minute

// Manifest is the lightweight sync descriptor clients poll to decide
// whether their local content is stale
type Manifest struct {
	BookID          uint   `json:"book_id"`
	ManifestVersion int    `json:"manifest_version"`
	ETag            string `json:"etag"`
	PageCount       int64  `json:"page_count"`
	UnitCount       int64  `json:"unit_count"`
	SectionCount    int64  `json:"section_count"`
	MediaBaseURL    string `json:"media_base_url,omitempty"`
	GeneratedAt     string `json:"generated_at"`
}

// ManifestHandler serves GET /api/v1/manifest with ETag revalidation
type ManifestHandler struct {
	db    *gorm.DB
	cache *cache.RedisCache
	env   *config.EnviornmentVariable
}

// NewManifestHandler creates a manifest handler; cache may be nil
func NewManifestHandler(db *gorm.DB, redisCache *cache.RedisCache, env *config.EnviornmentVariable) *ManifestHandler {
	return &ManifestHandler{db: db, cache: redisCache, env: env}
}

// GetManifest handles GET /api/v1/manifest. A matching If-None-Match
// header short-circuits to 304 so clients can poll cheaply.
func (h *ManifestHandler) GetManifest(c *fiber.Ctx) error {
	manifest, err := h.build(c)
	if err != nil {
		return response.InternalServerError(c, "Failed to build manifest")
	}

	c.Set("ETag", manifest.ETag)
	c.Set("Cache-Control", "no-cache")

	if c.Get("If-None-Match") == manifest.ETag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	return response.Success(c, manifest)
}

// Invalidate drops the cached manifest. Called after any publish.
func (h *ManifestHandler) Invalidate(c *fiber.Ctx) {
	if h.cache != nil {
		h.cache.Delete(c.Context(), manifestCacheKey)
	}
}

func (h *ManifestHandler) build(c *fiber.Ctx) (*Manifest, error) {
	if h.cache != nil {
		var cached Manifest
		if err := h.cache.GetJSON(c.Context(), manifestCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var book model.Book
	if err := h.db.First(&book).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Fresh install: sync clients from version 0 instead of erroring.
			// Not cached so the first seed shows up immediately.
			return h.emptyManifest(), nil
		}
		return nil, err
	}

	var pageCount, unitCount, sectionCount int64
	if err := h.db.Model(&model.Page{}).
		Where("book_id = ? AND analysis_status = ?", book.ID, model.PageStatusPublished).
		Count(&pageCount).Error; err != nil {
		return nil, err
	}
	if err := h.db.Model(&model.TextUnit{}).
		Joins("JOIN pages ON pages.id = text_units.page_id").
		Where("pages.book_id = ? AND pages.analysis_status = ?", book.ID, model.PageStatusPublished).
		Count(&unitCount).Error; err != nil {
		return nil, err
	}
	if err := h.db.Model(&model.Section{}).
		Joins("JOIN pages ON pages.id = sections.page_id").
		Where("pages.book_id = ? AND pages.analysis_status = ?", book.ID, model.PageStatusPublished).
		Count(&sectionCount).Error; err != nil {
		return nil, err
	}

	manifest := &Manifest{
		BookID:          book.ID,
		ManifestVersion: book.ManifestVersion,
		ETag:            computeETag(book.ManifestVersion, pageCount, unitCount, sectionCount),
		PageCount:       pageCount,
		UnitCount:       unitCount,
		SectionCount:    sectionCount,
		MediaBaseURL:    h.env.MEDIA_BASE_URL,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if h.cache != nil {
		h.cache.SetJSON(c.Context(), manifestCacheKey, manifest, manifestCacheTTL)
	}

	return manifest, nil
}

// emptyManifest describes a database with no book yet
func (h *ManifestHandler) emptyManifest() *Manifest {
	return &Manifest{
		ManifestVersion: 0,
		ETag:            computeETag(0, 0, 0, 0),
		MediaBaseURL:    h.env.MEDIA_BASE_URL,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}

// computeETag fingerprints the published content; the ETag only changes
// when published content changes
func computeETag(version int, pages, units, sections int64) string {
	fingerprint := fmt.Sprintf("v%d-p%d-u%d-s%d", version, pages, units, sections)
	return fmt.Sprintf(`"%x"`, md5.Sum([]byte(fingerprint)))
}
