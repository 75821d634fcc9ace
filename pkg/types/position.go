package types

import "time"

// PositionStatus tracks the lifecycle of a position. Transitions are
// Pending -> Open -> Closed; Cancelled is reachable only before Open.
type PositionStatus string

const (
	PositionPending   PositionStatus = "pending"
	PositionOpen      PositionStatus = "open"
	PositionClosed    PositionStatus = "closed"
	PositionCancelled PositionStatus = "cancelled"
)

// QuantityEpsilon is the tolerance under which a remaining quantity is
// treated as fully closed.
const QuantityEpsilon = 1e-6

// Position is the agent's record of one open exposure in one symbol.
// The position book owns every Position and mutates it under its lock.
type Position struct {
	ID               string         `json:"id"`
	Symbol           string         `json:"symbol"`
	Side             OrderSide      `json:"side"`
	EntryPrice       float64        `json:"entry_price"`
	Quantity         float64        `json:"quantity"`
	OriginalQuantity float64        `json:"original_quantity"`
	StopLoss         float64        `json:"stop_loss,omitempty"`
	TakeProfitLevels []float64      `json:"take_profit_levels,omitempty"`
	Status           PositionStatus `json:"status"`
	OpenedAt         time.Time      `json:"opened_at"`
	ClosedAt         time.Time      `json:"closed_at,omitempty"`
	PnL              float64        `json:"pnl"`
}

// CalculatePnL computes the position's P&L against the given market
// price using the remaining quantity, caches it on the position, and
// returns it.
func (p *Position) CalculatePnL(currentPrice float64) float64 {
	if p.Side == SideBuy {
		p.PnL = (currentPrice - p.EntryPrice) * p.Quantity
	} else {
		p.PnL = (p.EntryPrice - currentPrice) * p.Quantity
	}
	return p.PnL
}

// PnLPerUnit returns the side-aware profit per unit at the given price.
func (p *Position) PnLPerUnit(currentPrice float64) float64 {
	if p.Side == SideBuy {
		return currentPrice - p.EntryPrice
	}
	return p.EntryPrice - currentPrice
}

// RemainingPercentage returns how much of the original size is still
// open, in percent.
func (p *Position) RemainingPercentage() float64 {
	if p.OriginalQuantity == 0 {
		return 0
	}
	return p.Quantity / p.OriginalQuantity * 100
}

// IsFlat reports whether the remaining quantity is zero within the
// floating point tolerance.
func (p *Position) IsFlat() bool {
	return p.Quantity <= QuantityEpsilon
}
