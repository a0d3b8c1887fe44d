// Package client is the Go consumer of the public content API. Reads
// never fail hard: an unreachable or broken server yields empty
// collections so the caller can keep rendering whatever it has cached.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/validation"
)

// DefaultTimeout bounds every request the client makes
const DefaultTimeout = 15 * time.Second

var (
	ErrInvalidPhone    = errors.New("phone must match +998XXXXXXXXX")
	ErrDetailsTooShort = errors.New("details must be at least 10 characters")
	ErrInvalidType     = errors.New("feedback type must be taklif or xatolik")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidTheme    = errors.New("unknown theme")
	ErrInvalidLocale   = errors.New("unknown locale")
)

// Client talks to the public API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given API base URL (scheme://host[:port])
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// NewWithHTTPClient is used by tests to inject a custom transport
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	c := New(baseURL)
	c.httpClient = httpClient
	return c
}

// envelope mirrors the server's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Book fetches the book; nil when the server is unreachable or has none
func (c *Client) Book(ctx context.Context) *model.Book {
	var book model.Book
	if err := c.getJSON(ctx, "/api/v1/book", &book); err != nil {
		return nil
	}
	return &book
}

// Chapters fetches the chapter list, empty on any failure
func (c *Client) Chapters(ctx context.Context) []model.Chapter {
	var chapters []model.Chapter
	if err := c.getJSON(ctx, "/api/v1/book/chapters", &chapters); err != nil {
		return []model.Chapter{}
	}
	if chapters == nil {
		chapters = []model.Chapter{}
	}
	return chapters
}

// PageSummary mirrors the server's page list view
type PageSummary struct {
	ID         uint   `json:"id"`
	PageNumber int    `json:"page_number"`
	ChapterID  *uint  `json:"chapter_id"`
	LayoutType string `json:"layout_type"`
	ImagePath  string `json:"image_path"`
	UnitCount  int64  `json:"unit_count"`
}

// Pages fetches up to limit published pages, empty on any failure
func (c *Client) Pages(ctx context.Context, limit int) []PageSummary {
	if limit < 1 {
		limit = 100
	}

	var pages []PageSummary
	path := fmt.Sprintf("/api/v1/book/pages?limit=%d", limit)
	if err := c.getJSON(ctx, path, &pages); err != nil {
		return []PageSummary{}
	}
	if pages == nil {
		pages = []PageSummary{}
	}
	return pages
}

// Page fetches one published page with its units and sections; nil when
// missing or unreachable
func (c *Client) Page(ctx context.Context, number int) *model.Page {
	var page model.Page
	path := fmt.Sprintf("/api/v1/book/pages/%d", number)
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil
	}
	return &page
}

// FeedbackRequest is the feedback form payload
type FeedbackRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	FeedbackType string `json:"feedback_type"`
	Details      string `json:"details"`
}

// Validate checks the form the same way the server will, so obviously
// broken submissions never leave the device
func (r *FeedbackRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if !validation.ValidateUzPhone(r.Phone) {
		return ErrInvalidPhone
	}
	if r.FeedbackType != "taklif" && r.FeedbackType != "xatolik" {
		return ErrInvalidType
	}
	if len([]rune(strings.TrimSpace(r.Details))) < 10 {
		return ErrDetailsTooShort
	}
	return nil
}

// SubmitFeedback posts a feedback form. Unlike reads, submission
// failures are reported to the caller so the form can be retried.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	req.Phone = validation.CleanPhone(req.Phone)

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/feedback", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("feedback submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("feedback rejected with status %d", resp.StatusCode)
	}
	return nil
}

// Manifest mirrors the server's sync descriptor
type Manifest struct {
	BookID          uint   `json:"book_id"`
	ManifestVersion int    `json:"manifest_version"`
	ETag            string `json:"etag"`
	PageCount       int64  `json:"page_count"`
	UnitCount       int64  `json:"unit_count"`
	SectionCount    int64  `json:"section_count"`
	MediaBaseURL    string `json:"media_base_url"`
}

// CheckManifest polls the manifest with the previously seen ETag.
// Returns (nil, etag, nil) when content is unchanged.
func (c *Client) CheckManifest(ctx context.Context, etag string) (*Manifest, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/manifest", nil)
	if err != nil {
		return nil, etag, err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, etag, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, etag, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, etag, fmt.Errorf("manifest returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, etag, err
	}

	var manifest Manifest
	if err := json.Unmarshal(env.Data, &manifest); err != nil {
		return nil, etag, err
	}

	return &manifest, resp.Header.Get("ETag"), nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("status %d from %s", resp.StatusCode, path)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}

	return json.Unmarshal(env.Data, dest)
}
