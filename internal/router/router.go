package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ducminhle1904/signal-trade-agent/internal/book"
	"github.com/ducminhle1904/signal-trade-agent/internal/broker"
	"github.com/ducminhle1904/signal-trade-agent/internal/logger"
	"github.com/ducminhle1904/signal-trade-agent/internal/risk"
	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

// Router dispatches parsed signals to their handler: entry, partial
// close, stop loss move, full close, alert. Each handler runs the risk
// gate, drives the broker call, and mutates the position book on
// success. A dispatch mutex serializes signal handling end to end so
// the book stays single-writer even under a concurrent message source.
type Router struct {
	mu     sync.Mutex
	broker broker.Broker
	book   *book.Book
	limits risk.Limits
	log    *logger.Logger
}

// NewRouter creates a router owning a fresh, empty position book.
func NewRouter(b broker.Broker, limits risk.Limits, log *logger.Logger) *Router {
	return &Router{
		broker: b,
		book:   book.NewBook(),
		limits: limits,
		log:    log,
	}
}

// Book exposes the router's position book for read-only tooling.
func (r *Router) Book() *book.Book {
	return r.book
}

// Dispatch processes one signal to completion and returns the tagged
// result. It never returns an error: broker faults become failed
// results, policy rejections become declined results.
func (r *Router) Dispatch(ctx context.Context, signal *types.Signal) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch signal.Type {
	case types.SignalEntry:
		return r.handleEntry(ctx, signal)
	case types.SignalPartial:
		if !risk.MeetsConfidence(signal.Type, signal.Confidence) {
			return declined(fmt.Sprintf("signal confidence too low (%.0f%%)", signal.Confidence*100))
		}
		return r.handlePartial(ctx, signal)
	case types.SignalStopLossMove:
		if !risk.MeetsConfidence(signal.Type, signal.Confidence) {
			return declined(fmt.Sprintf("signal confidence too low (%.0f%%)", signal.Confidence*100))
		}
		return r.handleStopLossMove(ctx, signal)
	case types.SignalClose:
		if !risk.MeetsConfidence(signal.Type, signal.Confidence) {
			return declined(fmt.Sprintf("signal confidence too low (%.0f%%)", signal.Confidence*100))
		}
		return r.handleClose(ctx, signal)
	case types.SignalEntryAlert:
		r.log.Info("Entry alert for %s - monitoring for entry", signal.Symbol)
		return &Result{Outcome: OutcomeWatching, Reason: "watching " + signal.Symbol + " for entry"}
	default:
		return &Result{Outcome: OutcomeIgnored, Reason: "not a trading signal"}
	}
}

// handleEntry validates the signal, runs the risk gate, sizes the order
// from the live balance and executes it. The position is tracked only
// after the broker reports success, with the broker-reported fill
// quantity as the authoritative original quantity.
func (r *Router) handleEntry(ctx context.Context, signal *types.Signal) *Result {
	if !signal.IsValidEntry() {
		r.log.Warning("Invalid entry signal: %s", signal)
		return declined("invalid entry signal")
	}

	if existing := r.book.FindOpenBySymbol(signal.Symbol); existing != nil {
		return declined("position already open for " + signal.Symbol)
	}

	balance, err := r.broker.GetAccountBalance(ctx)
	if err != nil {
		return failed("could not get account balance: "+err.Error(), nil)
	}

	if ok, reason := risk.CanOpenPosition(r.book, r.limits, balance); !ok {
		r.log.Warning("Cannot open position: %s", reason)
		return declined(reason)
	}

	if !risk.MeetsConfidence(signal.Type, signal.Confidence) {
		r.log.Warning("Signal confidence too low: %.0f%%", signal.Confidence*100)
		return declined(fmt.Sprintf("signal confidence too low (%.0f%%)", signal.Confidence*100))
	}

	positionSize := risk.PositionSize(balance, r.limits)
	r.log.Info("Opening position: %s %s, size $%.2f", signal.Symbol, signal.Side, positionSize)

	execution := r.broker.Execute(ctx, signal, positionSize)
	if !execution.Success || execution.Position == nil {
		r.log.Error("Failed to open position: %s", execution.Error)
		return failed(execution.Error, execution)
	}

	position := execution.Position
	position.Status = types.PositionOpen
	if execution.ExecutedQuantity > 0 {
		position.Quantity = execution.ExecutedQuantity
		position.OriginalQuantity = execution.ExecutedQuantity
	}
	r.book.Track(position)

	r.log.LogTradeExecution("ENTRY", execution.OrderID, position.Symbol,
		position.Quantity, execution.ExecutedPrice)

	return &Result{Outcome: OutcomeExecuted, Execution: execution, Position: position}
}

// handlePartial closes a fraction of the open position for the symbol
// and realizes the closed fraction's P&L into the daily accumulator.
func (r *Router) handlePartial(ctx context.Context, signal *types.Signal) *Result {
	if signal.Symbol == "" {
		return declined("partial signal missing symbol")
	}

	position := r.book.FindOpenBySymbol(signal.Symbol)
	if position == nil {
		return declined("no open position for " + signal.Symbol)
	}

	percentage := signal.EffectivePartialPercentage()
	r.log.Info("Taking %.0f%% partial on %s", percentage, signal.Symbol)

	execution := r.broker.ClosePartial(ctx, position, percentage)
	if !execution.Success {
		r.log.Error("Failed to close partial: %s", execution.Error)
		return failed(execution.Error, execution)
	}

	closedQty := execution.ExecutedQuantity
	if closedQty <= 0 {
		closedQty = position.Quantity * (percentage / 100)
	}

	r.realizePnL(ctx, position, closedQty)

	position.Quantity -= closedQty
	if position.IsFlat() {
		position.Quantity = 0
		position.Status = types.PositionClosed
		position.ClosedAt = time.Now()
		r.book.Remove(position.ID)
		r.log.Trade("Position fully closed via partials: %s", position.Symbol)
	} else {
		r.log.Trade("Partial closed: %.0f%% of %s, remaining %.1f%%",
			percentage, position.Symbol, position.RemainingPercentage())
	}

	return &Result{Outcome: OutcomeExecuted, Execution: execution, Position: position}
}

// handleStopLossMove resolves the new stop (explicit price, or entry
// price when breakeven is requested) and pushes it to the broker. The
// position is neither closed nor resized.
func (r *Router) handleStopLossMove(ctx context.Context, signal *types.Signal) *Result {
	if signal.Symbol == "" {
		return declined("stop loss move signal missing symbol")
	}

	position := r.book.FindOpenBySymbol(signal.Symbol)
	if position == nil {
		return declined("no open position for " + signal.Symbol)
	}

	newStop := signal.StopLoss
	if newStop <= 0 && signal.BreakevenRequested() {
		newStop = position.EntryPrice
	}
	if newStop <= 0 {
		return declined("could not determine new stop loss price")
	}

	r.log.Info("Moving stop loss for %s to %v", signal.Symbol, newStop)

	if !r.broker.UpdateStopLoss(ctx, position, newStop) {
		r.log.Error("Failed to move stop loss for %s", signal.Symbol)
		return failed("failed to update stop loss", nil)
	}

	position.StopLoss = newStop
	r.log.Trade("Stop loss moved to %v for %s", newStop, position.Symbol)

	return &Result{Outcome: OutcomeExecuted, Position: position}
}

// handleClose closes the full remaining quantity and removes the
// position from the book regardless of reported residual.
func (r *Router) handleClose(ctx context.Context, signal *types.Signal) *Result {
	if signal.Symbol == "" {
		return declined("close signal missing symbol")
	}

	position := r.book.FindOpenBySymbol(signal.Symbol)
	if position == nil {
		return declined("no open position for " + signal.Symbol)
	}

	r.log.Info("Closing position: %s", signal.Symbol)

	execution := r.broker.ClosePartial(ctx, position, 100.0)
	if !execution.Success {
		r.log.Error("Failed to close position: %s", execution.Error)
		return failed(execution.Error, execution)
	}

	r.realizePnL(ctx, position, position.Quantity)

	position.Quantity = 0
	position.Status = types.PositionClosed
	position.ClosedAt = time.Now()
	r.book.Remove(position.ID)

	r.log.LogTradeExecution("CLOSE", execution.OrderID, position.Symbol,
		execution.ExecutedQuantity, execution.ExecutedPrice)
	r.log.Trade("Daily PnL after close: $%.2f", r.book.DailyPnL())

	return &Result{Outcome: OutcomeExecuted, Execution: execution, Position: position}
}

// realizePnL adds the closed quantity's P&L to the daily accumulator
// using a quote fetched now. If the quote fetch fails the close still
// stands with a zero P&L contribution; that degraded accounting is
// logged rather than silently wrong.
func (r *Router) realizePnL(ctx context.Context, position *types.Position, closedQty float64) {
	currentPrice, err := r.broker.GetCurrentPrice(ctx, position.Symbol)
	if err != nil || currentPrice <= 0 {
		r.log.Warning("No quote for %s after close; daily PnL contribution recorded as 0", position.Symbol)
		return
	}
	realized := position.PnLPerUnit(currentPrice) * closedQty
	r.book.AddDailyPnL(realized)
}
