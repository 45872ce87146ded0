package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Saewt/university-visitor-system/internal/app/models"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org"
	requestTimeout    = 10 * time.Second
)

// Config holds Telegram client settings
type Config struct {
	BotToken string
	Mock     bool
}

// Client sends notifications to Telegram group chats
type Client struct {
	config     Config
	apiBaseURL string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Telegram client
func NewClient(config Config, logger zerolog.Logger) *Client {
	return &Client{
		config:     config,
		apiBaseURL: defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// sendMessageRequest is the Bot API sendMessage payload
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage delivers an HTML-formatted message to a chat.
// In mock mode the message is logged instead of sent.
func (c *Client) SendMessage(ctx context.Context, chatID, message string) bool {
	if c.config.Mock {
		c.logger.Info().Str("chatID", chatID).Str("message", message).Msg("Mock Telegram message")
		return true
	}

	if c.config.BotToken == "" {
		c.logger.Warn().Msg("Telegram bot token not configured")
		return false
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBaseURL, c.config.BotToken)

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      message,
		ParseMode: "HTML",
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to encode Telegram request")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build Telegram request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("chatID", chatID).Msg("Failed to send Telegram message")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("chatID", chatID).Msg("Telegram API returned non-OK status")
		return false
	}

	return true
}

// NotifyTourRequest composes and dispatches the tour-request notification
// for a student to their department's group chat. Returns false without
// sending when the student has no department or the department has no
// configured chat.
func (c *Client) NotifyTourRequest(ctx context.Context, student *models.Student, department *models.Department) bool {
	if student.DepartmentID == nil {
		c.logger.Debug().Int64("studentID", student.ID).Msg("No department specified, skipping notification")
		return false
	}

	if department == nil || department.TelegramChatID == nil || *department.TelegramChatID == "" {
		c.logger.Debug().Int64("studentID", student.ID).Msg("No Telegram chat configured for department, skipping notification")
		return false
	}

	return c.SendMessage(ctx, *department.TelegramChatID, formatTourMessage(student, department))
}

// formatTourMessage renders the HTML notification body with Turkish labels
func formatTourMessage(student *models.Student, department *models.Department) string {
	phone := valueOrFallback(student.Phone)
	email := valueOrFallback(student.Email)
	highSchool := valueOrFallback(student.HighSchool)

	yksScore := "Belirtilmemiş"
	if student.YKSScore != nil {
		yksScore = fmt.Sprintf("%g", *student.YKSScore)
	}

	yksType := "Belirtilmemiş"
	if student.YKSType != nil && *student.YKSType != "" {
		yksType = string(*student.YKSType)
	}

	return fmt.Sprintf(`🔔 <b>Yeni Tur Talebi</b>

👤 <b>Öğrenci:</b> %s %s
📚 <b>Bölüm:</b> %s
📱 <b>Telefon:</b> %s
📧 <b>E-posta:</b> %s
🏫 <b>Lise:</b> %s
📊 <b>YKS Puanı:</b> %s
📝 <b>YKS Türü:</b> %s

⏰ <b>Kayıt Zamanı:</b> %s
`,
		student.FirstName, student.LastName,
		department.Name,
		phone, email, highSchool,
		yksScore, yksType,
		student.CreatedAt.Format("02.01.2006 15:04"),
	)
}

func valueOrFallback(s *string) string {
	if s == nil || *s == "" {
		return "Belirtilmemiş"
	}
	return *s
}
