package broker

import (
	"context"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

// Broker is the capability contract the router executes through. One
// implementation exists per backing exchange or platform; the router is
// written against this interface only.
//
// Execute and ClosePartial fail closed: broker faults come back as a
// TradeExecution with Success=false rather than as a propagated error,
// so the router treats every broker outcome uniformly.
type Broker interface {
	Name() string

	// GetAccountBalance returns current equity in account currency.
	GetAccountBalance(ctx context.Context) (float64, error)

	// GetCurrentPrice returns the latest tradable price for the symbol.
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)

	// Execute opens a position for the signal, sized in account currency.
	Execute(ctx context.Context, signal *types.Signal, positionSize float64) *types.TradeExecution

	// ClosePartial closes the given percentage (0-100) of a position;
	// 100 means full close.
	ClosePartial(ctx context.Context, position *types.Position, percentage float64) *types.TradeExecution

	// UpdateStopLoss moves the stop loss for a position. Returns false
	// on any failure.
	UpdateStopLoss(ctx context.Context, position *types.Position, newStopLoss float64) bool

	// ListOpenPositions returns the broker's view of open positions.
	// Used by tooling, not by the router itself.
	ListOpenPositions(ctx context.Context) ([]*types.Position, error)
}
