package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the full agent configuration, loaded from environment
// variables. Every field has a sane default except credentials.
type Config struct {
	Environment string
	LogLevel    string

	Telegram struct {
		BotToken     string
		ChannelID    string
		PollInterval time.Duration
	}

	Extractor struct {
		APIKey      string
		Model       string
		BaseURL     string
		Temperature float64
		MaxTokens   int
		Timeout     time.Duration
	}

	Broker struct {
		Name         string // "bybit" or "paper"
		APIKey       string
		APISecret    string
		Testnet      bool
		Demo         bool
		Category     string
		PaperBalance float64
	}

	Risk struct {
		MaxOpenPositions           int
		MaxDailyLossPercent        float64
		DefaultPositionSizePercent float64
		MaxPositionSizePercent     float64
	}

	Monitoring struct {
		PrometheusPort int
		HealthPort     int
	}

	Notifications struct {
		TelegramToken  string
		TelegramChatID string
	}

	Reporting struct {
		JournalPath string
	}
}

// Load reads the configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.ChannelID = getEnv("TELEGRAM_CHANNEL_ID", "")
	cfg.Telegram.PollInterval = getEnvDuration("TELEGRAM_POLL_INTERVAL", 2*time.Second)

	cfg.Extractor.APIKey = getEnv("OPENAI_API_KEY", "")
	cfg.Extractor.Model = getEnv("OPENAI_MODEL", "gpt-4o-mini")
	cfg.Extractor.BaseURL = getEnv("OPENAI_BASE_URL", "https://api.openai.com")
	cfg.Extractor.Temperature = getEnvFloat("OPENAI_TEMPERATURE", 0.1)
	cfg.Extractor.MaxTokens = getEnvInt("OPENAI_MAX_TOKENS", 500)
	cfg.Extractor.Timeout = getEnvDuration("OPENAI_TIMEOUT", 30*time.Second)

	cfg.Broker.Name = getEnv("BROKER_NAME", "paper")
	cfg.Broker.APIKey = getEnv("BYBIT_API_KEY", "")
	cfg.Broker.APISecret = getEnv("BYBIT_API_SECRET", "")
	cfg.Broker.Testnet = getEnvBool("BYBIT_TESTNET", true)
	cfg.Broker.Demo = getEnvBool("BYBIT_DEMO", false)
	cfg.Broker.Category = getEnv("BYBIT_CATEGORY", "linear")
	cfg.Broker.PaperBalance = getEnvFloat("PAPER_BALANCE", 10000.0)

	cfg.Risk.MaxOpenPositions = getEnvInt("MAX_OPEN_POSITIONS", 5)
	cfg.Risk.MaxDailyLossPercent = getEnvFloat("MAX_DAILY_LOSS_PERCENT", 5.0)
	cfg.Risk.DefaultPositionSizePercent = getEnvFloat("POSITION_SIZE_PERCENT", 2.0)
	cfg.Risk.MaxPositionSizePercent = getEnvFloat("MAX_POSITION_SIZE_PERCENT", 5.0)

	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 8080)
	cfg.Monitoring.HealthPort = getEnvInt("HEALTH_PORT", 8081)

	cfg.Notifications.TelegramToken = getEnv("ALERT_TELEGRAM_TOKEN", "")
	cfg.Notifications.TelegramChatID = getEnv("ALERT_TELEGRAM_CHAT_ID", "")

	cfg.Reporting.JournalPath = getEnv("TRADE_JOURNAL_PATH", "trade_journal.xlsx")

	return cfg
}

// Validate checks that the configuration is internally consistent and
// that required credentials are present for the selected mode.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.Extractor.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	switch strings.ToLower(c.Broker.Name) {
	case "bybit":
		if c.Broker.APIKey == "" || c.Broker.APISecret == "" {
			return fmt.Errorf("BYBIT_API_KEY and BYBIT_API_SECRET are required for the bybit broker")
		}
	case "paper":
		if c.Broker.PaperBalance <= 0 {
			return fmt.Errorf("PAPER_BALANCE must be positive, got %.2f", c.Broker.PaperBalance)
		}
	default:
		return fmt.Errorf("unsupported BROKER_NAME %q (supported: bybit, paper)", c.Broker.Name)
	}

	if c.Risk.MaxOpenPositions <= 0 {
		return fmt.Errorf("MAX_OPEN_POSITIONS must be positive, got %d", c.Risk.MaxOpenPositions)
	}
	if c.Risk.MaxDailyLossPercent <= 0 || c.Risk.MaxDailyLossPercent > 100 {
		return fmt.Errorf("MAX_DAILY_LOSS_PERCENT must be in (0, 100], got %.2f", c.Risk.MaxDailyLossPercent)
	}
	if c.Risk.DefaultPositionSizePercent <= 0 {
		return fmt.Errorf("POSITION_SIZE_PERCENT must be positive, got %.2f", c.Risk.DefaultPositionSizePercent)
	}
	if c.Risk.MaxPositionSizePercent < c.Risk.DefaultPositionSizePercent {
		return fmt.Errorf("MAX_POSITION_SIZE_PERCENT (%.2f) must be >= POSITION_SIZE_PERCENT (%.2f)",
			c.Risk.MaxPositionSizePercent, c.Risk.DefaultPositionSizePercent)
	}

	return nil
}

// IsLive reports whether the agent will place real orders.
func (c *Config) IsLive() bool {
	return strings.ToLower(c.Broker.Name) == "bybit" && !c.Broker.Testnet && !c.Broker.Demo
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.Atoi(val)
		if err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		parsed, err := time.ParseDuration(val)
		if err == nil {
			return parsed
		}
	}
	return defaultVal
}
