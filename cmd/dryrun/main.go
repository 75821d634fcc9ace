package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/signal-trade-agent/internal/config"
	"github.com/ducminhle1904/signal-trade-agent/internal/extractor"
	"github.com/ducminhle1904/signal-trade-agent/internal/feed"
	"github.com/ducminhle1904/signal-trade-agent/internal/logger"
	"github.com/ducminhle1904/signal-trade-agent/internal/risk"
	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

const banner = `
╔═══════════════════════════════════════════════════════════════╗
║                     DRY RUN MONITOR                           ║
║                                                               ║
║  Monitor channel signals without executing trades             ║
╚═══════════════════════════════════════════════════════════════╝
`

// dryRunMonitor shows what the agent WOULD do for each signal, with
// no broker wired at all.
type dryRunMonitor struct {
	extractor   extractor.Extractor
	limits      risk.Limits
	signalCount int
	tradeCount  int
}

func main() {
	var (
		envFile = flag.String("env", ".env", "Environment file path (default: .env)")
		message = flag.String("message", "", "Parse a single message and exit instead of monitoring the feed")
	)
	flag.Parse()

	if _, err := os.Stat(*envFile); err == nil {
		if err := godotenv.Load(*envFile); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}
	}

	fmt.Print(banner)

	cfg := config.Load()
	if cfg.Extractor.APIKey == "" {
		log.Fatal("OPENAI_API_KEY is required")
	}

	monitor := &dryRunMonitor{
		extractor: extractor.NewOpenAIExtractor(extractor.OpenAIConfig{
			APIKey:      cfg.Extractor.APIKey,
			Model:       cfg.Extractor.Model,
			BaseURL:     cfg.Extractor.BaseURL,
			Temperature: cfg.Extractor.Temperature,
			MaxTokens:   cfg.Extractor.MaxTokens,
			Timeout:     cfg.Extractor.Timeout,
		}),
		limits: risk.Limits{
			MaxOpenPositions:           cfg.Risk.MaxOpenPositions,
			MaxDailyLossPercent:        cfg.Risk.MaxDailyLossPercent,
			DefaultPositionSizePercent: cfg.Risk.DefaultPositionSizePercent,
			MaxPositionSizePercent:     cfg.Risk.MaxPositionSizePercent,
		},
	}

	fmt.Println("✅ Configuration OK")
	fmt.Printf("Position Size: %.1f%%\n", cfg.Risk.DefaultPositionSizePercent)
	fmt.Printf("Max Positions: %d\n", cfg.Risk.MaxOpenPositions)
	fmt.Printf("Entry Confidence Threshold: %.0f%%\n\n", risk.EntryConfidenceThreshold*100)

	if *message != "" {
		monitor.evaluate(context.Background(), *message)
		return
	}

	if cfg.Telegram.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required for feed monitoring (or use -message)")
	}

	sessionLog, err := logger.NewLogger("dryrun")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer sessionLog.Close()

	source := feed.NewTelegramSource(feed.TelegramConfig{
		BotToken:     cfg.Telegram.BotToken,
		ChannelID:    cfg.Telegram.ChannelID,
		PollInterval: cfg.Telegram.PollInterval,
	}, sessionLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		fmt.Println("\nStopping...")
		cancel()
	}()

	fmt.Println("🟢 Dry Run Monitor Active!")
	fmt.Println("Watching for signals...")

	source.Run(ctx, func(ctx context.Context, msg feed.Message) {
		monitor.evaluate(ctx, msg.Text)
	})
}

func (m *dryRunMonitor) evaluate(ctx context.Context, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("📨 New Message:\n   %s\n", truncate(message, 200))

	if !extractor.QuickCheck(message) {
		fmt.Println("   ℹ️  Not a trading signal")
		return
	}

	signal, err := m.extractor.Extract(ctx, message)
	if err != nil {
		fmt.Printf("   ❌ Extraction failed: %v\n", err)
		return
	}
	if signal == nil || signal.Type == types.SignalUnknown {
		fmt.Println("   ℹ️  Not a trading signal")
		return
	}

	m.signalCount++
	printSignal(signal)

	wouldExecute := false
	reason := ""

	switch signal.Type {
	case types.SignalEntry:
		if !signal.IsValidEntry() {
			reason = "Missing required fields"
		} else if !risk.MeetsConfidence(signal.Type, signal.Confidence) {
			reason = fmt.Sprintf("Confidence too low (%.1f%% < %.0f%%)",
				signal.Confidence*100, risk.EntryConfidenceThreshold*100)
		} else {
			wouldExecute = true
			m.tradeCount++
		}
	case types.SignalPartial, types.SignalStopLossMove, types.SignalClose:
		if risk.MeetsConfidence(signal.Type, signal.Confidence) {
			wouldExecute = true
		} else {
			reason = fmt.Sprintf("Confidence too low (%.1f%% < %.0f%%)",
				signal.Confidence*100, risk.ManageConfidenceThreshold*100)
		}
	case types.SignalEntryAlert:
		fmt.Println("\n   📌 ENTRY ALERT - Would monitor for entry")
		return
	}

	if wouldExecute {
		fmt.Println("\n   🟢 WOULD EXECUTE THIS TRADE")
		if signal.Type == types.SignalEntry {
			fmt.Printf("   💰 Position Size: %.1f%% of portfolio\n", m.limits.DefaultPositionSizePercent)
			fmt.Printf("   📊 Max Open Positions: %d\n", m.limits.MaxOpenPositions)
		}
	} else {
		fmt.Printf("\n   🟡 WOULD NOT EXECUTE: %s\n", reason)
	}

	fmt.Printf("\n📊 Session Stats:\n")
	fmt.Printf("   Signals Detected: %d\n", m.signalCount)
	fmt.Printf("   Would Execute: %d\n", m.tradeCount)
}

func printSignal(signal *types.Signal) {
	fmt.Println("\n✅ Signal Detected:")
	fmt.Printf("   Type: %s\n", strings.ToUpper(string(signal.Type)))
	fmt.Printf("   Symbol: %s\n", signal.Symbol)
	if signal.Side != "" {
		fmt.Printf("   Side: %s\n", signal.Side)
	}
	if signal.EntryPrice > 0 {
		fmt.Printf("   Entry Price: $%v\n", signal.EntryPrice)
	}
	if signal.EntryZoneLow > 0 && signal.EntryZoneHigh > 0 {
		fmt.Printf("   Entry Zone: $%v - $%v\n", signal.EntryZoneLow, signal.EntryZoneHigh)
	}
	if signal.StopLoss > 0 {
		fmt.Printf("   Stop Loss: $%v\n", signal.StopLoss)
	}
	if len(signal.TakeProfitLevels) > 0 {
		fmt.Printf("   Take Profits: %v\n", signal.TakeProfitLevels)
	}
	if signal.PartialPercentage > 0 {
		fmt.Printf("   Partial %%: %v%%\n", signal.PartialPercentage)
	}
	fmt.Printf("   Confidence: %.1f%%\n", signal.Confidence*100)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
