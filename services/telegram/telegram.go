// Package telegram forwards feedback submissions to the configured
// Telegram chats. Bot token and chat IDs live in system settings so
// admins can rotate them without a redeploy.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/muallimisoniy/api/database"
	"github.com/muallimisoniy/api/model"
)

const telegramAPI = "https://api.telegram.org"

// Service sends messages through the Telegram Bot API
type Service struct {
	store      database.Storage
	httpClient *http.Client
	baseURL    string
}

// NewService creates a Telegram service reading config from store settings
func NewService(store database.Storage) *Service {
	return &Service{
		store:      store,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    telegramAPI,
	}
}

// NewServiceWithBaseURL is used by tests to point at a fake API
func NewServiceWithBaseURL(store database.Storage, baseURL string) *Service {
	s := NewService(store)
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

func (s *Service) config() (token string, chatIDs []string, err error) {
	token, err = s.store.GetSetting(model.SettingTelegramBotToken)
	if err != nil {
		return "", nil, err
	}

	raw, err := s.store.GetSetting(model.SettingTelegramChatIDs)
	if err != nil {
		return "", nil, err
	}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			chatIDs = append(chatIDs, id)
		}
	}

	return token, chatIDs, nil
}

// SendFeedback notifies every configured chat about a new submission.
// Returns false when Telegram is unconfigured or any send failed; the
// caller records the outcome but never fails the HTTP request over it.
func (s *Service) SendFeedback(ctx context.Context, feedback *model.FeedbackSubmission) bool {
	token, chatIDs, err := s.config()
	if err != nil {
		log.Printf("Telegram config error: %v", err)
		return false
	}
	if token == "" || len(chatIDs) == 0 {
		log.Println("Telegram not configured, skipping notification")
		return false
	}

	typeLabel := "Taklif"
	if feedback.FeedbackType == model.FeedbackXatolik {
		typeLabel = "Xatolik"
	}

	message := fmt.Sprintf(
		"*Yangi fikr-mulohaza*\n\n"+
			"*Turi:* %s\n"+
			"*Ismi:* %s\n"+
			"*Telefon:* %s\n"+
			"*Tafsilotlar:*\n%s\n\n"+
			"%s",
		typeLabel,
		escapeMarkdown(feedback.Name),
		escapeMarkdown(feedback.Phone),
		escapeMarkdown(feedback.Details),
		feedback.CreatedAt.Format("2006-01-02 15:04"),
	)

	success := true
	for _, chatID := range chatIDs {
		if err := s.sendMessage(ctx, token, chatID, message, "Markdown"); err != nil {
			log.Printf("Telegram send failed for chat %s: %v", chatID, err)
			success = false
		}
	}

	return success
}

// TestConnection sends a plain test message to every configured chat
func (s *Service) TestConnection(ctx context.Context) (bool, string) {
	token, chatIDs, err := s.config()
	if err != nil {
		return false, fmt.Sprintf("Sozlamalarni o'qib bo'lmadi: %v", err)
	}
	if token == "" {
		return false, "Bot token sozlanmagan"
	}
	if len(chatIDs) == 0 {
		return false, "Chat ID'lar sozlanmagan"
	}

	testMessage := "Muallimi Soniy — Telegram ulanishi muvaffaqiyatli!"

	for _, chatID := range chatIDs {
		if err := s.sendMessage(ctx, token, chatID, testMessage, ""); err != nil {
			return false, fmt.Sprintf("Chat %s: %v", chatID, err)
		}
	}

	return true, fmt.Sprintf("%d ta chatga muvaffaqiyatli yuborildi", len(chatIDs))
}

func (s *Service) sendMessage(ctx context.Context, token, chatID, text, parseMode string) error {
	payload := map[string]string{
		"chat_id": chatID,
		"text":    text,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

var markdownSpecials = []string{
	"_", "*", "[", "]", "(", ")", "~", "`", ">", "#",
	"+", "-", "=", "|", "{", "}", ".", "!",
}

func escapeMarkdown(text string) string {
	for _, ch := range markdownSpecials {
		text = strings.ReplaceAll(text, ch, `\`+ch)
	}
	return text
}
