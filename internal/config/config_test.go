package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BROKER_NAME", "paper")
}

func TestLoad_Defaults(t *testing.T) {
	validEnv(t)

	cfg := Load()

	assert.Equal(t, "paper", cfg.Broker.Name)
	assert.Equal(t, 10000.0, cfg.Broker.PaperBalance)
	assert.Equal(t, 5, cfg.Risk.MaxOpenPositions)
	assert.Equal(t, 5.0, cfg.Risk.MaxDailyLossPercent)
	assert.Equal(t, 2.0, cfg.Risk.DefaultPositionSizePercent)
	assert.Equal(t, 5.0, cfg.Risk.MaxPositionSizePercent)
	assert.Equal(t, "gpt-4o-mini", cfg.Extractor.Model)
	assert.Equal(t, 0.1, cfg.Extractor.Temperature)
	assert.Equal(t, 500, cfg.Extractor.MaxTokens)
	assert.Equal(t, 2*time.Second, cfg.Telegram.PollInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	validEnv(t)
	t.Setenv("MAX_OPEN_POSITIONS", "2")
	t.Setenv("MAX_DAILY_LOSS_PERCENT", "3.5")
	t.Setenv("TELEGRAM_POLL_INTERVAL", "5s")
	t.Setenv("BYBIT_TESTNET", "false")

	cfg := Load()

	assert.Equal(t, 2, cfg.Risk.MaxOpenPositions)
	assert.Equal(t, 3.5, cfg.Risk.MaxDailyLossPercent)
	assert.Equal(t, 5*time.Second, cfg.Telegram.PollInterval)
	assert.False(t, cfg.Broker.Testnet)
}

func TestLoad_InvalidEnvFallsBackToDefault(t *testing.T) {
	validEnv(t)
	t.Setenv("MAX_OPEN_POSITIONS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 5, cfg.Risk.MaxOpenPositions)
}

func TestValidate_OK(t *testing.T) {
	validEnv(t)

	require.NoError(t, Load().Validate())
}

func TestValidate_MissingTelegramToken(t *testing.T) {
	validEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	err := Load().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestValidate_MissingOpenAIKey(t *testing.T) {
	validEnv(t)
	t.Setenv("OPENAI_API_KEY", "")

	err := Load().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidate_BybitRequiresCredentials(t *testing.T) {
	validEnv(t)
	t.Setenv("BROKER_NAME", "bybit")

	err := Load().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "BYBIT_API_KEY")
}

func TestValidate_UnsupportedBroker(t *testing.T) {
	validEnv(t)
	t.Setenv("BROKER_NAME", "kraken")

	err := Load().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported BROKER_NAME")
}

func TestValidate_RiskBounds(t *testing.T) {
	validEnv(t)
	t.Setenv("MAX_DAILY_LOSS_PERCENT", "150")

	err := Load().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_DAILY_LOSS_PERCENT")
}

func TestValidate_MaxSizeBelowDefaultSize(t *testing.T) {
	validEnv(t)
	t.Setenv("POSITION_SIZE_PERCENT", "6.0")
	t.Setenv("MAX_POSITION_SIZE_PERCENT", "5.0")

	err := Load().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_POSITION_SIZE_PERCENT")
}

func TestIsLive(t *testing.T) {
	validEnv(t)
	t.Setenv("BROKER_NAME", "bybit")
	t.Setenv("BYBIT_API_KEY", "k")
	t.Setenv("BYBIT_API_SECRET", "s")
	t.Setenv("BYBIT_TESTNET", "false")
	t.Setenv("BYBIT_DEMO", "false")

	assert.True(t, Load().IsLive())

	t.Setenv("BYBIT_DEMO", "true")
	assert.False(t, Load().IsLive())

	t.Setenv("BROKER_NAME", "paper")
	assert.False(t, Load().IsLive())
}
