package book

import (
	"sync"
	"time"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

// Book is the in-memory position book: every tracked position keyed by
// its broker-assigned id, plus the rolling daily P&L accumulator. One
// Book belongs to exactly one router instance and is never persisted;
// after a restart it starts empty.
type Book struct {
	mu        sync.Mutex
	positions map[string]*types.Position
	dailyPnL  float64
	resetAt   time.Time
}

// NewBook creates an empty position book with the daily window anchored
// at now.
func NewBook() *Book {
	return &Book{
		positions: make(map[string]*types.Position),
		resetAt:   time.Now(),
	}
}

// Track inserts or replaces a position keyed by its id.
func (b *Book) Track(p *types.Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.positions[p.ID] = p
}

// Remove deletes a position from the book.
func (b *Book) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.positions, id)
}

// FindOpenBySymbol returns the open position for the symbol, or nil.
// The router enforces at most one open position per symbol, so a single
// result is the invariant, not a convenience.
func (b *Book) FindOpenBySymbol(symbol string) *types.Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.positions {
		if p.Symbol == symbol && p.Status == types.PositionOpen {
			return p
		}
	}
	return nil
}

// OpenCount returns the number of open positions.
func (b *Book) OpenCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, p := range b.positions {
		if p.Status == types.PositionOpen {
			n++
		}
	}
	return n
}

// OpenPositions returns a snapshot slice of the open positions.
func (b *Book) OpenPositions() []*types.Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*types.Position, 0, len(b.positions))
	for _, p := range b.positions {
		if p.Status == types.PositionOpen {
			out = append(out, p)
		}
	}
	return out
}

// DailyPnL returns the realized P&L accumulated since the last rolling
// reset.
func (b *Book) DailyPnL() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dailyPnL
}

// AddDailyPnL adds a realized amount to the daily accumulator.
func (b *Book) AddDailyPnL(amount float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dailyPnL += amount
}

// ResetDailyIfStale zeroes the daily P&L and re-anchors the window when
// more than 24 hours have passed since the last reset. Returns true if
// a reset happened.
func (b *Book) ResetDailyIfStale() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if time.Since(b.resetAt) <= 24*time.Hour {
		return false
	}
	b.dailyPnL = 0
	b.resetAt = time.Now()
	return true
}

// forceResetAnchor rewinds the reset anchor; test hook.
func (b *Book) forceResetAnchor(t time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetAt = t
}
