package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReadsDegradeToEmptyWhenUnreachable(t *testing.T) {
	// Nothing listens on this port
	c := New("http://127.0.0.1:1")
	ctx := context.Background()

	if book := c.Book(ctx); book != nil {
		t.Error("Expected nil book from an unreachable server")
	}
	if chapters := c.Chapters(ctx); len(chapters) != 0 {
		t.Errorf("Expected empty chapters, got %d", len(chapters))
	}
	if pages := c.Pages(ctx, 100); len(pages) != 0 {
		t.Errorf("Expected empty pages, got %d", len(pages))
	}
	if page := c.Page(ctx, 1); page != nil {
		t.Error("Expected nil page from an unreachable server")
	}
}

func TestReadsDegradeToEmptyOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	if chapters := c.Chapters(ctx); len(chapters) != 0 {
		t.Errorf("Expected empty chapters on 500, got %d", len(chapters))
	}
	if pages := c.Pages(ctx, 50); len(pages) != 0 {
		t.Errorf("Expected empty pages on 500, got %d", len(pages))
	}
}

func TestPagesParsesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/book/pages" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "100" {
			t.Errorf("Expected limit=100, got %s", r.URL.Query().Get("limit"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"id": 1, "page_number": 1, "layout_type": "native", "unit_count": 4},
				{"id": 2, "page_number": 2, "layout_type": "native", "unit_count": 16},
			},
		})
	}))
	defer server.Close()

	pages := New(server.URL).Pages(context.Background(), 0)
	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}
	if pages[1].PageNumber != 2 || pages[1].UnitCount != 16 {
		t.Errorf("Second page parsed wrong: %+v", pages[1])
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	c := New("http://127.0.0.1:1") // must never be reached
	ctx := context.Background()

	cases := []struct {
		name string
		req  FeedbackRequest
		want error
	}{
		{"missing name", FeedbackRequest{Phone: "+998901234567", FeedbackType: "taklif", Details: "yetarlicha uzun matn"}, ErrNameRequired},
		{"bad phone", FeedbackRequest{Name: "Ali", Phone: "12345", FeedbackType: "taklif", Details: "yetarlicha uzun matn"}, ErrInvalidPhone},
		{"short phone", FeedbackRequest{Name: "Ali", Phone: "+99890123456", FeedbackType: "taklif", Details: "yetarlicha uzun matn"}, ErrInvalidPhone},
		{"bad type", FeedbackRequest{Name: "Ali", Phone: "+998901234567", FeedbackType: "boshqa", Details: "yetarlicha uzun matn"}, ErrInvalidType},
		{"short details", FeedbackRequest{Name: "Ali", Phone: "+998901234567", FeedbackType: "xatolik", Details: "qisqa"}, ErrDetailsTooShort},
	}

	for _, tc := range cases {
		if err := c.SubmitFeedback(ctx, tc.req); err != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestSubmitFeedbackPostsCleanedPhone(t *testing.T) {
	var received FeedbackRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/feedback" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := New(server.URL).SubmitFeedback(context.Background(), FeedbackRequest{
		Name:         "Ali Valiyev",
		Phone:        "+998 90 123-45-67",
		FeedbackType: "taklif",
		Details:      "Dastur juda foydali, rahmat sizlarga!",
	})
	if err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}
	if received.Phone != "+998901234567" {
		t.Errorf("Expected cleaned phone, got %q", received.Phone)
	}
}

func TestSubmitFeedbackReportsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	err := New(server.URL).SubmitFeedback(context.Background(), FeedbackRequest{
		Name:         "Ali",
		Phone:        "+998901234567",
		FeedbackType: "taklif",
		Details:      "yetarlicha uzun matn",
	})
	if err == nil {
		t.Fatal("Expected an error on 422")
	}
}

func TestCheckManifestRevalidation(t *testing.T) {
	const etag = `"abc123"`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"book_id":          1,
				"manifest_version": 3,
				"etag":             etag,
				"page_count":       12,
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	manifest, gotETag, err := c.CheckManifest(ctx, "")
	if err != nil {
		t.Fatalf("First manifest fetch failed: %v", err)
	}
	if manifest == nil || manifest.ManifestVersion != 3 {
		t.Fatalf("Manifest parsed wrong: %+v", manifest)
	}
	if gotETag != etag {
		t.Errorf("Expected etag %s, got %s", etag, gotETag)
	}

	cached, _, err := c.CheckManifest(ctx, gotETag)
	if err != nil {
		t.Fatalf("Revalidation failed: %v", err)
	}
	if cached != nil {
		t.Error("Expected nil manifest on 304")
	}
}
