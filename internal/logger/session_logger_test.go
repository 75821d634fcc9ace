package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	log, err := NewLogger("test")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	return log
}

func readLog(t *testing.T, log *Logger) string {
	t.Helper()
	data, err := os.ReadFile(log.GetLogPath())
	require.NoError(t, err)
	return string(data)
}

func TestGetLogPath_PointsAtSessionFile(t *testing.T) {
	log := newTestLogger(t)

	path := log.GetLogPath()

	assert.Contains(t, path, "test_")
	assert.FileExists(t, path)
}

func TestLog_Levels(t *testing.T) {
	log := newTestLogger(t)

	log.Info("agent started")
	log.Warning("quote is stale")
	log.Error("order rejected")
	log.Trade("partial closed")

	content := readLog(t, log)
	assert.Contains(t, content, "[INFO] agent started")
	assert.Contains(t, content, "[WARN] quote is stale")
	assert.Contains(t, content, "[ERROR] order rejected")
	assert.Contains(t, content, "[TRADE] partial closed")
}

func TestLogTradeExecution_WritesBlock(t *testing.T) {
	log := newTestLogger(t)

	log.LogTradeExecution("ENTRY", "order-42", "XAUUSD", 2.0, 3989.75)

	content := readLog(t, log)
	assert.Contains(t, content, "ENTRY EXECUTED")
	assert.Contains(t, content, "Order ID: order-42")
	assert.Contains(t, content, "XAUUSD")
	assert.Contains(t, content, "3989.75")
}

func TestLogSignalReceived_TruncatesMessage(t *testing.T) {
	log := newTestLogger(t)

	long := ""
	for i := 0; i < 30; i++ {
		long += "BUYING GOLD "
	}
	log.LogSignalReceived(long, "entry", "XAUUSD", 0.95)

	content := readLog(t, log)
	assert.Contains(t, content, "SIGNAL RECEIVED")
	assert.Contains(t, content, "...")
	assert.Contains(t, content, "Confidence: 95%")
}

func TestLogPortfolioStatus_WritesSnapshot(t *testing.T) {
	log := newTestLogger(t)

	log.LogPortfolioStatus(10000.0, 2, -42.5)

	content := readLog(t, log)
	assert.Contains(t, content, "PORTFOLIO STATUS")
	assert.Contains(t, content, "Balance: $10000.00")
	assert.Contains(t, content, "Open Positions: 2")
	assert.Contains(t, content, "Daily P&L: $-42.50")
}
