package notifications

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ducminhle1904/signal-trade-agent/internal/errors"
)

type TelegramNotifier struct {
	client *resty.Client
	token  string
	chatID string
}

func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	client := resty.New().
		SetBaseURL("https://api.telegram.org").
		SetTimeout(10 * time.Second)

	return &TelegramNotifier{
		client: client,
		token:  token,
		chatID: chatID,
	}
}

func (t *TelegramNotifier) SendAlert(level, message string) error {
	emoji := "ℹ️"
	switch level {
	case "warning":
		emoji = "⚠️"
	case "error":
		emoji = "🚨"
	case "success":
		emoji = "✅"
	}

	text := fmt.Sprintf("%s *Signal Agent Alert*\n\n%s", emoji, message)

	resp, err := t.client.R().
		SetFormData(map[string]string{
			"chat_id":    t.chatID,
			"text":       text,
			"parse_mode": "Markdown",
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", t.token))
	if err != nil {
		return errors.NewNetworkError("notifications", "sendMessage", err)
	}

	if resp.StatusCode() != 200 {
		return errors.NewNetworkError("notifications", "sendMessage", fmt.Errorf("telegram API returned status %d", resp.StatusCode()))
	}

	return nil
}
