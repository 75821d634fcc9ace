package broker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

func fixedQuote(price float64) QuoteFunc {
	return func(ctx context.Context, symbol string) (float64, error) {
		return price, nil
	}
}

func failingQuote() QuoteFunc {
	return func(ctx context.Context, symbol string) (float64, error) {
		return 0, fmt.Errorf("quote source down")
	}
}

func TestPaperBroker_Execute_FillsAtQuote(t *testing.T) {
	paper := NewPaperBroker(10000.0, fixedQuote(100.0))

	signal := &types.Signal{
		Type:       types.SignalEntry,
		Symbol:     "BTCUSDT",
		Side:       types.SideBuy,
		EntryPrice: 99.5,
		StopLoss:   95.0,
		Confidence: 0.9,
	}

	execution := paper.Execute(context.Background(), signal, 200.0)

	require.True(t, execution.Success)
	assert.Equal(t, 100.0, execution.ExecutedPrice)
	assert.InDelta(t, 2.0, execution.ExecutedQuantity, 1e-9)
	require.NotNil(t, execution.Position)
	assert.Equal(t, types.PositionOpen, execution.Position.Status)
	assert.Equal(t, 95.0, execution.Position.StopLoss)
	assert.NotEmpty(t, execution.OrderID)
}

func TestPaperBroker_Execute_QuoteFailure(t *testing.T) {
	paper := NewPaperBroker(10000.0, failingQuote())

	signal := &types.Signal{Type: types.SignalEntry, Symbol: "BTCUSDT", Side: types.SideBuy}
	execution := paper.Execute(context.Background(), signal, 200.0)

	assert.False(t, execution.Success)
	assert.Contains(t, execution.Error, "could not get current price")
}

func TestPaperBroker_ClosePartial_CreditsBalance(t *testing.T) {
	paper := NewPaperBroker(10000.0, fixedQuote(110.0))

	position := &types.Position{
		ID:               "paper-1",
		Symbol:           "BTCUSDT",
		Side:             types.SideBuy,
		EntryPrice:       100.0,
		Quantity:         2.0,
		OriginalQuantity: 2.0,
		Status:           types.PositionOpen,
	}

	execution := paper.ClosePartial(context.Background(), position, 50.0)

	require.True(t, execution.Success)
	assert.InDelta(t, 1.0, execution.ExecutedQuantity, 1e-9)

	// +10 per unit on 1 unit closed
	balance, err := paper.GetAccountBalance(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 10010.0, balance, 1e-9)
}

func TestPaperBroker_ClosePartial_InvalidPercentage(t *testing.T) {
	paper := NewPaperBroker(10000.0, fixedQuote(100.0))
	position := &types.Position{Quantity: 1.0, Side: types.SideBuy, EntryPrice: 100.0}

	assert.False(t, paper.ClosePartial(context.Background(), position, 0).Success)
	assert.False(t, paper.ClosePartial(context.Background(), position, 150.0).Success)
}

func TestPaperBroker_UpdateStopLoss_AlwaysSucceeds(t *testing.T) {
	paper := NewPaperBroker(10000.0, fixedQuote(100.0))
	position := &types.Position{Symbol: "BTCUSDT"}

	assert.True(t, paper.UpdateStopLoss(context.Background(), position, 95.0))
}
