package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/signal-trade-agent/internal/agent"
	"github.com/ducminhle1904/signal-trade-agent/internal/broker"
	"github.com/ducminhle1904/signal-trade-agent/internal/broker/bybit"
	"github.com/ducminhle1904/signal-trade-agent/internal/config"
	agenterrors "github.com/ducminhle1904/signal-trade-agent/internal/errors"
	"github.com/ducminhle1904/signal-trade-agent/internal/extractor"
	"github.com/ducminhle1904/signal-trade-agent/internal/feed"
	"github.com/ducminhle1904/signal-trade-agent/internal/logger"
	"github.com/ducminhle1904/signal-trade-agent/internal/monitoring"
	"github.com/ducminhle1904/signal-trade-agent/internal/notifications"
	"github.com/ducminhle1904/signal-trade-agent/internal/risk"
	"github.com/ducminhle1904/signal-trade-agent/internal/router"
	"github.com/ducminhle1904/signal-trade-agent/pkg/reporting"
)

func main() {
	var (
		envFile = flag.String("env", ".env", "Environment file path (default: .env)")
		yes     = flag.Bool("yes", false, "Skip the live trading confirmation prompt")
	)
	flag.Parse()

	// Load environment variables from .env file
	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: Could not load .env file (%v), checking environment variables...", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", agenterrors.NewConfigurationError("config", "validate", err.Error()))
	}

	fmt.Println("🚀 Signal Trade Agent Starting...")
	reporting.PrintStartupInfo(
		cfg.Broker.Name,
		environmentString(cfg),
		cfg.Telegram.ChannelID,
		cfg.Extractor.Model,
		cfg.Risk.MaxOpenPositions,
		cfg.Risk.MaxDailyLossPercent,
	)

	if cfg.IsLive() && !*yes {
		if !confirmLiveTrading() {
			fmt.Println("Aborted.")
			return
		}
	}
	if cfg.IsLive() {
		fmt.Println("⚠️  LIVE TRADING MODE - Real money will be used!")
	} else {
		fmt.Println("📝 Note: No real money involved in this mode")
	}

	sessionLog, err := logger.NewLogger(fmt.Sprintf("%s-%s", cfg.Broker.Name, cfg.Environment))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer sessionLog.Close()
	fmt.Printf("📄 Session log: %s\n", sessionLog.GetLogPath())

	brk, err := broker.New(broker.Settings{
		Name: cfg.Broker.Name,
		Bybit: bybit.Config{
			APIKey:    cfg.Broker.APIKey,
			APISecret: cfg.Broker.APISecret,
			Testnet:   cfg.Broker.Testnet,
			Demo:      cfg.Broker.Demo,
		},
		Category:     cfg.Broker.Category,
		PaperBalance: cfg.Broker.PaperBalance,
	})
	if err != nil {
		log.Fatalf("Failed to create broker: %v", err)
	}

	limits := risk.Limits{
		MaxOpenPositions:           cfg.Risk.MaxOpenPositions,
		MaxDailyLossPercent:        cfg.Risk.MaxDailyLossPercent,
		DefaultPositionSizePercent: cfg.Risk.DefaultPositionSizePercent,
		MaxPositionSizePercent:     cfg.Risk.MaxPositionSizePercent,
	}
	rt := router.NewRouter(brk, limits, sessionLog)

	ext := extractor.NewOpenAIExtractor(extractor.OpenAIConfig{
		APIKey:      cfg.Extractor.APIKey,
		Model:       cfg.Extractor.Model,
		BaseURL:     cfg.Extractor.BaseURL,
		Temperature: cfg.Extractor.Temperature,
		MaxTokens:   cfg.Extractor.MaxTokens,
		Timeout:     cfg.Extractor.Timeout,
	})

	source := feed.NewTelegramSource(feed.TelegramConfig{
		BotToken:     cfg.Telegram.BotToken,
		ChannelID:    cfg.Telegram.ChannelID,
		PollInterval: cfg.Telegram.PollInterval,
	}, sessionLog)

	var notifier notifications.Notifier = notifications.NoopNotifier{}
	if cfg.Notifications.TelegramToken != "" && cfg.Notifications.TelegramChatID != "" {
		notifier = notifications.NewTelegramNotifier(cfg.Notifications.TelegramToken, cfg.Notifications.TelegramChatID)
	}

	journal := reporting.NewTradeJournal()
	health := monitoring.NewHealthChecker()

	startMonitoringServers(cfg, health, sessionLog)

	// Show initial portfolio state
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if status, err := rt.PortfolioStatus(ctx); err == nil {
		reporting.PrintPortfolioStatus(status)
	} else {
		sessionLog.Warning("Could not read initial portfolio status: %v", err)
	}

	ag := agent.New(source, ext, rt, journal, notifier, health, sessionLog)

	done := make(chan error, 1)
	go func() {
		done <- ag.Run(ctx)
	}()

	fmt.Println("🟢 Agent active - watching for signals")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		fmt.Println("\n🛑 Shutdown signal received...")
		cancel()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			sessionLog.Warning("Feed did not stop within 10s, exiting anyway")
		}
	case err := <-done:
		if err != nil && err != context.Canceled {
			var agentErr *agenterrors.AgentError
			if stderrors.As(err, &agentErr) && agentErr.IsFatal() {
				sessionLog.Error("Feed stopped on fatal error: %v", agentErr)
				fmt.Println("🚨 Fatal feed error - check credentials and configuration")
			} else {
				sessionLog.Error("Feed stopped: %v", err)
			}
		}
	}

	if journal.Len() > 0 {
		if err := journal.ExportExcel(cfg.Reporting.JournalPath); err != nil {
			sessionLog.Error("Failed to export trade journal: %v", err)
		} else {
			fmt.Printf("📒 Trade journal saved to %s\n", cfg.Reporting.JournalPath)
		}
	}

	fmt.Println("✅ Agent stopped successfully")
}

func environmentString(cfg *config.Config) string {
	switch {
	case cfg.Broker.Name == "paper":
		return "paper trading"
	case cfg.Broker.Demo:
		return "demo (paper trading on mainnet)"
	case cfg.Broker.Testnet:
		return "testnet"
	default:
		return "live trading on mainnet"
	}
}

func confirmLiveTrading() bool {
	fmt.Print("⚠️  You are about to start LIVE trading with real money. Type 'yes' to continue: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(answer)) == "yes"
}

func startMonitoringServers(cfg *config.Config, health *monitoring.HealthChecker, sessionLog *logger.Logger) {
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
		mux := http.NewServeMux()
		mux.Handle("/metrics", monitoring.NewMetricsHandler())
		if err := http.ListenAndServe(addr, mux); err != nil {
			sessionLog.Warning("Metrics server stopped: %v", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Monitoring.HealthPort)
		mux := http.NewServeMux()
		mux.Handle("/health", health)
		if err := http.ListenAndServe(addr, mux); err != nil {
			sessionLog.Warning("Health server stopped: %v", err)
		}
	}()
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}
