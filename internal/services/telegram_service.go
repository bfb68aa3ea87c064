package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/example/brritto/internal/models"
)

// TelegramService relays contact-form submissions to the admin chat.
type TelegramService struct {
	botToken    string
	adminChatID string
	http        *http.Client
	log         *zap.SugaredLogger
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string, log *zap.SugaredLogger) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		http:        &http.Client{Timeout: blogRequestTimeout},
		log:         log,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		s.log.Debugw("telegram bot token not configured, skipping message")
		return nil
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := s.http.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		s.log.Warnw("telegram send failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warnw("telegram send returned unexpected status", "status", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		s.log.Debugw("telegram admin chat not configured, skipping message")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// NotifyContactMessage forwards a contact form submission to the admin chat.
func (s *TelegramService) NotifyContactMessage(form models.ContactFormData) error {
	if s.adminChatID == "" {
		return nil
	}

	message := fmt.Sprintf(`<b>📨 NEW CONTACT MESSAGE</b>
<b>👤 Name:</b> %s
<b>✉️ Email:</b> %s
<b>📋 Subject:</b> %s

%s`,
		form.Name,
		form.Email,
		form.Subject,
		form.Message,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
