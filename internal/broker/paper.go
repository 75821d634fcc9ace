package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

// QuoteFunc supplies market prices to the paper broker, usually backed
// by a real broker's public ticker endpoint so paper fills track the
// live market.
type QuoteFunc func(ctx context.Context, symbol string) (float64, error)

// PaperBroker simulates execution against a virtual balance. Orders
// fill immediately at the current quote. Used for paper trading mode
// and pre-production validation.
type PaperBroker struct {
	mu       sync.Mutex
	balance  float64
	quote    QuoteFunc
	orderSeq int64
}

// NewPaperBroker creates a paper broker with the given starting balance.
func NewPaperBroker(initialBalance float64, quote QuoteFunc) *PaperBroker {
	return &PaperBroker{
		balance: initialBalance,
		quote:   quote,
	}
}

func (p *PaperBroker) Name() string {
	return "paper"
}

func (p *PaperBroker) GetAccountBalance(ctx context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance, nil
}

func (p *PaperBroker) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	return p.quote(ctx, symbol)
}

// Execute fills the entry immediately at the current quote.
func (p *PaperBroker) Execute(ctx context.Context, signal *types.Signal, positionSize float64) *types.TradeExecution {
	price, err := p.quote(ctx, signal.Symbol)
	if err != nil {
		return types.FailedExecution("could not get current price: " + err.Error())
	}
	if price <= 0 {
		return types.FailedExecution("no price available for " + signal.Symbol)
	}

	quantity := positionSize / price
	if quantity <= types.QuantityEpsilon {
		return types.FailedExecution("position size too small")
	}

	p.mu.Lock()
	p.orderSeq++
	orderID := fmt.Sprintf("paper-%d", p.orderSeq)
	p.mu.Unlock()

	position := &types.Position{
		ID:               orderID,
		Symbol:           signal.Symbol,
		Side:             signal.Side,
		EntryPrice:       price,
		Quantity:         quantity,
		OriginalQuantity: quantity,
		StopLoss:         signal.StopLoss,
		TakeProfitLevels: signal.TakeProfitLevels,
		Status:           types.PositionOpen,
		OpenedAt:         time.Now(),
	}

	return &types.TradeExecution{
		Success:          true,
		Position:         position,
		OrderID:          orderID,
		ExecutedPrice:    price,
		ExecutedQuantity: quantity,
		Timestamp:        time.Now(),
	}
}

// ClosePartial fills the close at the current quote and credits the
// realized P&L to the virtual balance.
func (p *PaperBroker) ClosePartial(ctx context.Context, position *types.Position, percentage float64) *types.TradeExecution {
	if percentage <= 0 || percentage > 100 {
		return types.FailedExecution(fmt.Sprintf("invalid close percentage: %.2f", percentage))
	}

	price, err := p.quote(ctx, position.Symbol)
	if err != nil {
		return types.FailedExecution("could not get current price: " + err.Error())
	}

	quantity := position.Quantity * (percentage / 100)

	p.mu.Lock()
	p.orderSeq++
	orderID := fmt.Sprintf("paper-%d", p.orderSeq)
	p.balance += position.PnLPerUnit(price) * quantity
	p.mu.Unlock()

	return &types.TradeExecution{
		Success:          true,
		Position:         position,
		OrderID:          orderID,
		ExecutedPrice:    price,
		ExecutedQuantity: quantity,
		Timestamp:        time.Now(),
	}
}

// UpdateStopLoss always succeeds; a paper stop is purely book-kept.
func (p *PaperBroker) UpdateStopLoss(ctx context.Context, position *types.Position, newStopLoss float64) bool {
	return true
}

// ListOpenPositions returns nothing: the paper broker keeps no position
// state of its own, the book is the only record.
func (p *PaperBroker) ListOpenPositions(ctx context.Context) ([]*types.Position, error) {
	return nil, nil
}
