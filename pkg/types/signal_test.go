package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_IsValidEntry_WithEntryPrice(t *testing.T) {
	signal := &Signal{
		Type:       SignalEntry,
		Symbol:     "XAUUSD",
		Side:       SideBuy,
		EntryPrice: 3989.75,
	}

	assert.True(t, signal.IsValidEntry())
}

func TestSignal_IsValidEntry_WithEntryZone(t *testing.T) {
	signal := &Signal{
		Type:          SignalEntry,
		Symbol:        "XAUUSD",
		Side:          SideSell,
		EntryZoneLow:  3980.0,
		EntryZoneHigh: 3990.0,
	}

	assert.True(t, signal.IsValidEntry())
}

func TestSignal_IsValidEntry_MissingSymbol(t *testing.T) {
	signal := &Signal{
		Type:       SignalEntry,
		Side:       SideBuy,
		EntryPrice: 3989.75,
	}

	assert.False(t, signal.IsValidEntry())
}

func TestSignal_IsValidEntry_MissingSide(t *testing.T) {
	signal := &Signal{
		Type:       SignalEntry,
		Symbol:     "XAUUSD",
		EntryPrice: 3989.75,
	}

	assert.False(t, signal.IsValidEntry())
}

func TestSignal_IsValidEntry_NoPriceAndNoZone(t *testing.T) {
	signal := &Signal{
		Type:   SignalEntry,
		Symbol: "XAUUSD",
		Side:   SideBuy,
	}

	assert.False(t, signal.IsValidEntry())
}

func TestSignal_IsValidEntry_PartialZoneOnly(t *testing.T) {
	signal := &Signal{
		Type:         SignalEntry,
		Symbol:       "XAUUSD",
		Side:         SideBuy,
		EntryZoneLow: 3980.0,
	}

	assert.False(t, signal.IsValidEntry())
}

func TestSignal_IsValidEntry_WrongType(t *testing.T) {
	signal := &Signal{
		Type:       SignalPartial,
		Symbol:     "XAUUSD",
		Side:       SideBuy,
		EntryPrice: 3989.75,
	}

	assert.False(t, signal.IsValidEntry())
}

func TestSignal_EffectivePartialPercentage_Default(t *testing.T) {
	signal := &Signal{Type: SignalPartial}

	assert.Equal(t, DefaultPartialPercentage, signal.EffectivePartialPercentage())
}

func TestSignal_EffectivePartialPercentage_Explicit(t *testing.T) {
	signal := &Signal{Type: SignalPartial, PartialPercentage: 25.0}

	assert.Equal(t, 25.0, signal.EffectivePartialPercentage())
}

func TestSignal_BreakevenRequested(t *testing.T) {
	cases := []struct {
		name     string
		metadata map[string]interface{}
		expected bool
	}{
		{"bool true", map[string]interface{}{"breakeven": true}, true},
		{"bool false", map[string]interface{}{"breakeven": false}, false},
		{"string true", map[string]interface{}{"breakeven": "true"}, true},
		{"string yes", map[string]interface{}{"breakeven": "yes"}, true},
		{"string no", map[string]interface{}{"breakeven": "no"}, false},
		{"absent", map[string]interface{}{}, false},
		{"nil metadata", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signal := &Signal{Type: SignalStopLossMove, Metadata: tc.metadata}
			assert.Equal(t, tc.expected, signal.BreakevenRequested())
		})
	}
}
