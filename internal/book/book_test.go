package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

func openPosition(id, symbol string) *types.Position {
	return &types.Position{
		ID:               id,
		Symbol:           symbol,
		Side:             types.SideBuy,
		EntryPrice:       100.0,
		Quantity:         1.0,
		OriginalQuantity: 1.0,
		Status:           types.PositionOpen,
		OpenedAt:         time.Now(),
	}
}

func TestBook_TrackAndFind(t *testing.T) {
	b := NewBook()
	b.Track(openPosition("order-1", "XAUUSD"))

	found := b.FindOpenBySymbol("XAUUSD")
	require.NotNil(t, found)
	assert.Equal(t, "order-1", found.ID)

	assert.Nil(t, b.FindOpenBySymbol("BTCUSDT"))
}

func TestBook_FindOpenBySymbol_IgnoresClosed(t *testing.T) {
	b := NewBook()
	closed := openPosition("order-1", "XAUUSD")
	closed.Status = types.PositionClosed
	b.Track(closed)

	assert.Nil(t, b.FindOpenBySymbol("XAUUSD"))
}

func TestBook_Remove(t *testing.T) {
	b := NewBook()
	b.Track(openPosition("order-1", "XAUUSD"))
	b.Remove("order-1")

	assert.Nil(t, b.FindOpenBySymbol("XAUUSD"))
	assert.Equal(t, 0, b.OpenCount())
}

func TestBook_OpenCount(t *testing.T) {
	b := NewBook()
	b.Track(openPosition("order-1", "XAUUSD"))
	b.Track(openPosition("order-2", "BTCUSDT"))

	closed := openPosition("order-3", "ETHUSDT")
	closed.Status = types.PositionClosed
	b.Track(closed)

	assert.Equal(t, 2, b.OpenCount())
	assert.Len(t, b.OpenPositions(), 2)
}

func TestBook_DailyPnL_Accumulates(t *testing.T) {
	b := NewBook()
	b.AddDailyPnL(150.0)
	b.AddDailyPnL(-40.0)

	assert.InDelta(t, 110.0, b.DailyPnL(), 1e-9)
}

func TestBook_ResetDailyIfStale_FreshWindow(t *testing.T) {
	b := NewBook()
	b.AddDailyPnL(-100.0)

	assert.False(t, b.ResetDailyIfStale())
	assert.InDelta(t, -100.0, b.DailyPnL(), 1e-9)
}

func TestBook_ResetDailyIfStale_After24h(t *testing.T) {
	b := NewBook()
	b.AddDailyPnL(-100.0)
	b.forceResetAnchor(time.Now().Add(-25 * time.Hour))

	assert.True(t, b.ResetDailyIfStale())
	assert.Equal(t, 0.0, b.DailyPnL())

	// Window re-anchored at now, so a second call is a no-op
	assert.False(t, b.ResetDailyIfStale())
}
