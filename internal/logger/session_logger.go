package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger represents a file logger for signal processing activities
type Logger struct {
	session string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
	logDir  string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelTrade   LogLevel = "TRADE"
	LogLevelSignal  LogLevel = "SIGNAL"
	LogLevelStatus  LogLevel = "STATUS"
)

// NewLogger creates a new file logger for the named session (usually
// the broker name plus trading mode, e.g. "bybit-live")
func NewLogger(session string) (*Logger, error) {
	// Create log directory if it doesn't exist
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create log filename with timestamp
	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", session, timestamp)
	logPath := filepath.Join(logDir, filename)

	// Open or create log file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Create logger with no prefix (we add our own formatting)
	logger := log.New(file, "", 0)

	l := &Logger{
		session: session,
		logFile: file,
		logger:  logger,
		logDir:  logDir,
	}

	// Write session start header
	l.writeSessionHeader()

	return l, nil
}

// writeSessionHeader writes a session start header to the log
func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 SIGNAL TRADING SESSION STARTED
================================================================================
Session: %s
Started: %s
Log File: %s_%s.log
================================================================================
`, l.session, time.Now().Format("2006-01-02 15:04:05"),
		l.session, time.Now().Format("2006-01-02"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logEntry := fmt.Sprintf("[%s] [%s] %s", timestamp, level, message)

	l.logger.Println(logEntry)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Trade logs a trading action
func (l *Logger) Trade(format string, args ...interface{}) {
	l.Log(LogLevelTrade, format, args...)
}

// LogSignalReceived logs a raw incoming message alongside the parsed
// signal extracted from it
func (l *Logger) LogSignalReceived(rawMessage string, signalType string, symbol string, confidence float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	signalLog := fmt.Sprintf(`
[%s] [%s] ==================== SIGNAL RECEIVED ====================
📨 Message: %s
🔖 Type: %s | Symbol: %s
🎯 Confidence: %.0f%%
===========================================================`,
		timestamp, LogLevelSignal, truncate(rawMessage, 200), signalType, symbol, confidence*100)

	l.logger.Println(signalLog)
}

// LogTradeExecution logs trade execution details
func (l *Logger) LogTradeExecution(tradeType string, orderID string, symbol string, quantity float64, price float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	tradeLog := fmt.Sprintf(`
[%s] [%s] ==================== %s EXECUTED ====================
✅ Order ID: %s
📦 Quantity: %v %s
💰 Price: $%v
=============================================================`,
		timestamp, LogLevelTrade, tradeType, orderID, quantity, symbol, price)

	l.logger.Println(tradeLog)
}

// LogPortfolioStatus logs a portfolio snapshot
func (l *Logger) LogPortfolioStatus(balance float64, openPositions int, dailyPnL float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	statusLog := fmt.Sprintf(`
[%s] [%s] ==================== PORTFOLIO STATUS ====================
💼 Balance: $%.2f
📂 Open Positions: %d
💹 Daily P&L: $%.2f
============================================================`,
		timestamp, LogLevelStatus, balance, openPositions, dailyPnL)

	l.logger.Println(statusLog)
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		// Write session end header
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		footer := fmt.Sprintf(`
================================================================================
🛑 SIGNAL TRADING SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, timestamp)
		l.logger.Print(footer)

		return l.logFile.Close()
	}
	return nil
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", l.session, timestamp)
	return filepath.Join(l.logDir, filename)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
