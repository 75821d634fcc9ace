package router

import (
	"context"
	"fmt"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

// PortfolioStatus is a point-in-time snapshot of the account and the
// position book.
type PortfolioStatus struct {
	Balance       float64
	OpenPositions int
	Positions     []*types.Position
	DailyPnL      float64
}

// PortfolioStatus reads the live balance from the broker and snapshots
// the book. Open position P&L is refreshed with current quotes where
// available; a failed quote leaves that position's last known P&L.
func (r *Router) PortfolioStatus(ctx context.Context) (*PortfolioStatus, error) {
	balance, err := r.broker.GetAccountBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get account balance: %w", err)
	}

	positions := r.book.OpenPositions()
	for _, position := range positions {
		if price, perr := r.broker.GetCurrentPrice(ctx, position.Symbol); perr == nil && price > 0 {
			position.CalculatePnL(price)
		}
	}

	return &PortfolioStatus{
		Balance:       balance,
		OpenPositions: len(positions),
		Positions:     positions,
		DailyPnL:      r.book.DailyPnL(),
	}, nil
}
