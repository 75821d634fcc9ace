package extractor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

func TestQuickCheck_SignalMessages(t *testing.T) {
	messages := []string{
		"BUYING GOLD @ MARKET ENTRY 3989.75 SL 3987.2",
		"Im trimming some. Over 1:2 RR",
		"risk free - protect positions",
		"Approaching zone!!",
		"100 pips running, Booom!!!",
		"Close XAUUSD now",
	}

	for _, msg := range messages {
		assert.True(t, QuickCheck(msg), "expected signal: %q", msg)
	}
}

func TestQuickCheck_NonSignalMessages(t *testing.T) {
	messages := []string{
		"Good morning everyone!",
		"How was your weekend?",
		"",
	}

	for _, msg := range messages {
		assert.False(t, QuickCheck(msg), "expected non-signal: %q", msg)
	}
}

func TestStripCodeFence(t *testing.T) {
	fenced := "```json\n{\"signal_type\": \"entry\"}\n```"

	assert.Equal(t, `{"signal_type": "entry"}`, stripCodeFence(fenced))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}

func TestPayloadToSignal_Entry(t *testing.T) {
	raw := `{
		"signal_type": "entry",
		"symbol": "XAUUSD",
		"side": "buy",
		"entry_price": 3989.75,
		"entry_zone_low": null,
		"entry_zone_high": null,
		"stop_loss": 3987.2,
		"take_profit_levels": [3995.0, 4000.0],
		"partial_percentage": null,
		"confidence": 0.95,
		"metadata": {"rr_ratio": "1:2"}
	}`

	var payload signalPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	signal := payloadToSignal(&payload, "BUYING GOLD @ MARKET ENTRY 3989.75 SL 3987.2")

	assert.Equal(t, types.SignalEntry, signal.Type)
	assert.Equal(t, "XAUUSD", signal.Symbol)
	assert.Equal(t, types.SideBuy, signal.Side)
	assert.Equal(t, 3989.75, signal.EntryPrice)
	assert.Equal(t, 3987.2, signal.StopLoss)
	assert.Equal(t, []float64{3995.0, 4000.0}, signal.TakeProfitLevels)
	assert.Equal(t, 0.95, signal.Confidence)
	assert.Equal(t, "1:2", signal.Metadata["rr_ratio"])
	assert.True(t, signal.IsValidEntry())
	assert.False(t, signal.Timestamp.IsZero())
}

func TestPayloadToSignal_PartialWithDefaults(t *testing.T) {
	raw := `{
		"signal_type": "partial",
		"symbol": "XAUUSD",
		"side": null,
		"entry_price": null,
		"stop_loss": null,
		"take_profit_levels": [],
		"partial_percentage": 50.0,
		"confidence": 0.8,
		"metadata": {}
	}`

	var payload signalPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	signal := payloadToSignal(&payload, "Im trimming some")

	assert.Equal(t, types.SignalPartial, signal.Type)
	assert.Equal(t, types.OrderSide(""), signal.Side)
	assert.Equal(t, 0.0, signal.EntryPrice)
	assert.Equal(t, 50.0, signal.PartialPercentage)
}

func TestPayloadToSignal_BreakevenMetadata(t *testing.T) {
	raw := `{
		"signal_type": "stop_loss_move",
		"symbol": "XAUUSD",
		"confidence": 0.85,
		"metadata": {"breakeven": true}
	}`

	var payload signalPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	signal := payloadToSignal(&payload, "risk free - protect positions")

	assert.Equal(t, types.SignalStopLossMove, signal.Type)
	assert.True(t, signal.BreakevenRequested())
}

func TestParseSignalType(t *testing.T) {
	cases := map[string]types.SignalType{
		"entry":          types.SignalEntry,
		"ENTRY":          types.SignalEntry,
		"entry_alert":    types.SignalEntryAlert,
		"partial":        types.SignalPartial,
		"stop_loss_move": types.SignalStopLossMove,
		"close":          types.SignalClose,
		"unknown":        types.SignalUnknown,
		"garbage":        types.SignalUnknown,
		"":               types.SignalUnknown,
	}

	for raw, expected := range cases {
		assert.Equal(t, expected, parseSignalType(raw), "raw %q", raw)
	}
}

func TestParseOrderSide(t *testing.T) {
	assert.Equal(t, types.SideBuy, parseOrderSide("buy"))
	assert.Equal(t, types.SideSell, parseOrderSide("SELL"))
	assert.Equal(t, types.OrderSide(""), parseOrderSide(""))
	assert.Equal(t, types.OrderSide(""), parseOrderSide("hold"))
}
