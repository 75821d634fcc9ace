package risk

import (
	"fmt"

	"github.com/ducminhle1904/signal-trade-agent/internal/book"
	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

// Limits holds the configured risk limits evaluated before entries.
type Limits struct {
	MaxOpenPositions           int
	MaxDailyLossPercent        float64
	DefaultPositionSizePercent float64
	MaxPositionSizePercent     float64
}

// Confidence thresholds per signal kind. Entries demand more certainty
// than position management actions; entry alerts never execute.
const (
	EntryConfidenceThreshold  = 0.7
	ManageConfidenceThreshold = 0.5
)

// CanOpenPosition checks whether a new position may be opened given the
// current book, limits and account balance. It returns a human-readable
// reason when the answer is no. The rolling daily window is refreshed
// before the loss check so a stale accumulator never blocks a trade.
func CanOpenPosition(b *book.Book, limits Limits, balance float64) (bool, string) {
	if b.OpenCount() >= limits.MaxOpenPositions {
		return false, fmt.Sprintf("max open positions reached (%d)", limits.MaxOpenPositions)
	}

	b.ResetDailyIfStale()

	maxLoss := balance * (limits.MaxDailyLossPercent / 100)
	if b.DailyPnL() <= -maxLoss {
		return false, fmt.Sprintf("daily loss limit reached (%.1f%%)", limits.MaxDailyLossPercent)
	}

	return true, "OK"
}

// MeetsConfidence reports whether the signal clears the execution
// threshold for its kind.
func MeetsConfidence(kind types.SignalType, confidence float64) bool {
	switch kind {
	case types.SignalEntry:
		return confidence >= EntryConfidenceThreshold
	case types.SignalPartial, types.SignalStopLossMove, types.SignalClose:
		return confidence >= ManageConfidenceThreshold
	default:
		return true
	}
}

// PositionSize computes the order size in account currency from the
// current balance: the default percentage, clamped to the maximum
// percentage. Always computed fresh at execution time, never cached.
func PositionSize(balance float64, limits Limits) float64 {
	size := balance * (limits.DefaultPositionSizePercent / 100)
	max := balance * (limits.MaxPositionSizePercent / 100)
	if size > max {
		size = max
	}
	return size
}
