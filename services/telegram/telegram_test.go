package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muallimisoniy/api/model"
)

// fakeStore serves settings from a map
type fakeStore struct {
	settings map[string]string
}

func (f *fakeStore) Init() error                                       { return nil }
func (f *fakeStore) Close() error                                      { return nil }
func (f *fakeStore) HealthCheck() error                                { return nil }
func (f *fakeStore) GetDB() interface{}                                { return nil }
func (f *fakeStore) GetSetting(key string) (string, error)             { return f.settings[key], nil }
func (f *fakeStore) SetSetting(key, value string, updatedBy *uint) error {
	f.settings[key] = value
	return nil
}
func (f *fakeStore) GetBook() (*model.Book, error) { return nil, nil }

func TestSendFeedbackFansOutToAllChats(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := &fakeStore{settings: map[string]string{
		model.SettingTelegramBotToken: "test-token",
		model.SettingTelegramChatIDs:  "111, 222,333",
	}}

	svc := NewServiceWithBaseURL(store, server.URL)
	ok := svc.SendFeedback(context.Background(), &model.FeedbackSubmission{
		Name:         "Ali",
		Phone:        "+998901234567",
		FeedbackType: model.FeedbackTaklif,
		Details:      "Juda yaxshi dastur",
		CreatedAt:    time.Now(),
	})

	if !ok {
		t.Fatal("Expected delivery to succeed")
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("Expected 3 sends, got %d", n)
	}
}

func TestSendFeedbackUnconfigured(t *testing.T) {
	store := &fakeStore{settings: map[string]string{}}
	svc := NewService(store)

	ok := svc.SendFeedback(context.Background(), &model.FeedbackSubmission{
		Name: "Ali", FeedbackType: model.FeedbackXatolik,
	})
	if ok {
		t.Error("Unconfigured service must report failure without sending")
	}
}

func TestSendFeedbackReportsAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	store := &fakeStore{settings: map[string]string{
		model.SettingTelegramBotToken: "test-token",
		model.SettingTelegramChatIDs:  "111",
	}}

	svc := NewServiceWithBaseURL(store, server.URL)
	if ok := svc.SendFeedback(context.Background(), &model.FeedbackSubmission{Name: "Ali"}); ok {
		t.Error("Expected failure when Telegram rejects the message")
	}
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := &fakeStore{settings: map[string]string{
		model.SettingTelegramBotToken: "test-token",
		model.SettingTelegramChatIDs:  "111,222",
	}}

	ok, msg := NewServiceWithBaseURL(store, server.URL).TestConnection(context.Background())
	if !ok {
		t.Fatalf("Expected test connection to succeed: %s", msg)
	}

	noToken := &fakeStore{settings: map[string]string{}}
	ok, _ = NewService(noToken).TestConnection(context.Background())
	if ok {
		t.Error("Expected failure without a bot token")
	}
}
