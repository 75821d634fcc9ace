package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ducminhle1904/signal-trade-agent/internal/errors"
	"github.com/ducminhle1904/signal-trade-agent/internal/extractor"
	"github.com/ducminhle1904/signal-trade-agent/internal/feed"
	"github.com/ducminhle1904/signal-trade-agent/internal/logger"
	"github.com/ducminhle1904/signal-trade-agent/internal/monitoring"
	"github.com/ducminhle1904/signal-trade-agent/internal/notifications"
	"github.com/ducminhle1904/signal-trade-agent/internal/router"
	"github.com/ducminhle1904/signal-trade-agent/pkg/reporting"
	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

// Agent wires the message source to the extractor and the signal
// router. One agent processes one channel feed; messages are handled
// strictly in arrival order.
type Agent struct {
	source    feed.MessageSource
	extractor extractor.Extractor
	router    *router.Router
	journal   *reporting.TradeJournal
	notifier  notifications.Notifier
	health    *monitoring.HealthChecker
	log       *logger.Logger
}

// New creates an agent. notifier and health may be nil-equivalents
// (NoopNotifier, fresh HealthChecker) but never nil.
func New(
	source feed.MessageSource,
	ext extractor.Extractor,
	rt *router.Router,
	journal *reporting.TradeJournal,
	notifier notifications.Notifier,
	health *monitoring.HealthChecker,
	log *logger.Logger,
) *Agent {
	return &Agent{
		source:    source,
		extractor: ext,
		router:    rt,
		journal:   journal,
		notifier:  notifier,
		health:    health,
		log:       log,
	}
}

// Run consumes the feed until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	a.health.MarkConnected(true)
	defer a.health.MarkConnected(false)

	return a.source.Run(ctx, a.HandleMessage)
}

// HandleMessage processes one raw channel message end to end: keyword
// prefilter, model extraction, dispatch, then journaling and alerts for
// anything that moved money.
func (a *Agent) HandleMessage(ctx context.Context, msg feed.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	a.health.RecordMessage()
	a.log.Info("New message from %q: %s", msg.ChatTitle, truncate(text, 200))

	if !extractor.QuickCheck(text) {
		return
	}

	signal, err := a.extractor.Extract(ctx, text)
	if err != nil {
		agentErr := errors.NewExtractionError("agent", "extract", err)
		a.log.LogError("Signal extraction failed", agentErr)
		monitoring.RecordError(string(agentErr.Category))
		a.health.RecordHealthError(agentErr.Error())
		return
	}
	if signal == nil {
		return
	}

	a.health.RecordSignal()
	monitoring.RecordSignal(string(signal.Type), signal.Confidence)
	a.log.LogSignalReceived(text, string(signal.Type), signal.Symbol, signal.Confidence)

	result := a.router.Dispatch(ctx, signal)
	monitoring.RecordDispatch(string(result.Outcome))

	switch result.Outcome {
	case router.OutcomeExecuted:
		a.recordExecution(ctx, signal, result)
	case router.OutcomeDeclined:
		a.log.Info("Signal declined: %s", result.Reason)
	case router.OutcomeFailed:
		agentErr := errors.CategorizeError(fmt.Errorf("%s", result.Reason), "router", strings.ToLower(string(signal.Type)))
		a.log.LogError("Signal execution failed", agentErr)
		monitoring.RecordError(string(agentErr.Category))
		a.health.RecordHealthError(agentErr.Error())
		a.notify("error", fmt.Sprintf("Execution failed for %s %s: %s", signal.Type, signal.Symbol, result.Reason))
	case router.OutcomeWatching:
		a.log.Info("%s", result.Reason)
	case router.OutcomeIgnored:
		// nothing to do
	}
}

// recordExecution journals the executed trade, updates the gauges and
// sends the success alert.
func (a *Agent) recordExecution(ctx context.Context, signal *types.Signal, result *router.Result) {
	entry := reporting.JournalEntry{
		Action:     journalAction(signal.Type),
		Symbol:     signal.Symbol,
		Confidence: signal.Confidence,
		Message:    truncate(signal.RawMessage, 200),
	}
	if result.Position != nil {
		entry.Side = string(result.Position.Side)
		entry.PnL = result.Position.PnL
	}
	if result.Execution != nil {
		entry.OrderID = result.Execution.OrderID
		entry.Price = result.Execution.ExecutedPrice
		entry.Quantity = result.Execution.ExecutedQuantity
	}
	a.journal.Record(entry)

	if result.Position != nil {
		monitoring.RecordTrade(result.Position.Symbol, string(result.Position.Side))
	}
	monitoring.UpdateOpenPositions(a.router.Book().OpenCount())
	monitoring.UpdateDailyPnL(a.router.Book().DailyPnL())

	a.notify("success", fmt.Sprintf("%s executed for %s", signal.Type, signal.Symbol))

	status, err := a.router.PortfolioStatus(ctx)
	if err != nil {
		a.log.Warning("Could not read portfolio status: %v", err)
		return
	}
	a.log.LogPortfolioStatus(status.Balance, status.OpenPositions, status.DailyPnL)
}

func (a *Agent) notify(level, message string) {
	if err := a.notifier.SendAlert(level, message); err != nil {
		a.log.Warning("Failed to send alert: %v", err)
	}
}

func journalAction(signalType types.SignalType) string {
	switch signalType {
	case types.SignalEntry:
		return "open"
	case types.SignalPartial:
		return "partial"
	case types.SignalStopLossMove:
		return "stop_move"
	case types.SignalClose:
		return "close"
	default:
		return string(signalType)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
