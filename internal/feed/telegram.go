package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ducminhle1904/signal-trade-agent/internal/errors"
	"github.com/ducminhle1904/signal-trade-agent/internal/logger"
)

// longPollTimeout is passed to getUpdates so Telegram holds the
// request open instead of returning an empty batch immediately.
const longPollTimeout = 30

// TelegramConfig configures the Bot API message source.
type TelegramConfig struct {
	BotToken     string
	ChannelID    string // numeric chat id or @username; empty means all chats
	PollInterval time.Duration
}

// TelegramSource reads channel posts through the Telegram Bot API
// using getUpdates long polling. The bot must be a member of the
// monitored channel.
type TelegramSource struct {
	client       *resty.Client
	channelID    string
	pollInterval time.Duration
	offset       int64
	log          *logger.Logger
}

// NewTelegramSource creates a Telegram-backed message source.
func NewTelegramSource(config TelegramConfig, log *logger.Logger) *TelegramSource {
	pollInterval := config.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	client := resty.New().
		SetBaseURL(fmt.Sprintf("https://api.telegram.org/bot%s", config.BotToken)).
		SetTimeout(time.Duration(longPollTimeout+15) * time.Second)

	return &TelegramSource{
		client:       client,
		channelID:    config.ChannelID,
		pollInterval: pollInterval,
		log:          log,
	}
}

type telegramChat struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

type telegramMessage struct {
	MessageID int64        `json:"message_id"`
	Date      int64        `json:"date"`
	Text      string       `json:"text"`
	Chat      telegramChat `json:"chat"`
}

type telegramUpdate struct {
	UpdateID    int64            `json:"update_id"`
	Message     *telegramMessage `json:"message"`
	ChannelPost *telegramMessage `json:"channel_post"`
}

type updatesResponse struct {
	OK          bool             `json:"ok"`
	Result      []telegramUpdate `json:"result"`
	Description string           `json:"description"`
}

// Run polls getUpdates until the context is cancelled. Retryable poll
// errors are logged and retried after the poll interval; a
// non-retryable error (bad token, revoked credentials) ends the loop.
func (s *TelegramSource) Run(ctx context.Context, handler Handler) error {
	s.log.Info("Telegram feed started (channel filter: %q)", s.channelID)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Telegram feed stopped")
			return ctx.Err()
		default:
		}

		updates, err := s.fetchUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			agentErr := errors.CategorizeError(err, "feed", "getUpdates")
			if !agentErr.IsRetryable() {
				s.log.Error("Stopping feed: %v", agentErr)
				return agentErr
			}
			s.log.Warning("Failed to fetch updates: %v", agentErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.pollInterval):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= s.offset {
				s.offset = update.UpdateID + 1
			}

			message := update.ChannelPost
			if message == nil {
				message = update.Message
			}
			if message == nil || message.Text == "" {
				continue
			}
			if !s.matchesChannel(message.Chat) {
				continue
			}

			handler(ctx, Message{
				ID:        message.MessageID,
				ChatID:    message.Chat.ID,
				ChatTitle: message.Chat.Title,
				Text:      message.Text,
				Timestamp: time.Unix(message.Date, 0),
			})
		}
	}
}

func (s *TelegramSource) fetchUpdates(ctx context.Context) ([]telegramUpdate, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":          strconv.FormatInt(s.offset, 10),
			"timeout":         strconv.Itoa(longPollTimeout),
			"allowed_updates": `["message","channel_post"]`,
		}).
		Get("/getUpdates")
	if err != nil {
		return nil, fmt.Errorf("getUpdates request failed: %w", err)
	}

	var parsed updatesResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse getUpdates response: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram API error: %s", parsed.Description)
	}

	return parsed.Result, nil
}

// matchesChannel applies the configured channel filter. An empty
// filter accepts every chat the bot can see.
func (s *TelegramSource) matchesChannel(chat telegramChat) bool {
	if s.channelID == "" {
		return true
	}
	if s.channelID == strconv.FormatInt(chat.ID, 10) {
		return true
	}
	if chat.Username != "" && (s.channelID == "@"+chat.Username || s.channelID == chat.Username) {
		return true
	}
	return false
}
