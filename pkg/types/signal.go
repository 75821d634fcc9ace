package types

import "time"

// SignalType classifies a parsed trading signal.
type SignalType string

const (
	SignalEntry        SignalType = "entry"
	SignalEntryAlert   SignalType = "entry_alert" // getting ready / approaching
	SignalPartial      SignalType = "partial"
	SignalStopLossMove SignalType = "stop_loss_move"
	SignalClose        SignalType = "close"
	SignalUnknown      SignalType = "unknown"
)

// OrderSide represents the direction of a trade.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// DefaultPartialPercentage is used when a partial signal does not specify
// how much of the position to close.
const DefaultPartialPercentage = 50.0

// Signal is a normalized trading intent extracted from a raw channel
// message. It is immutable once constructed.
type Signal struct {
	Type              SignalType             `json:"signal_type"`
	Symbol            string                 `json:"symbol,omitempty"`
	Side              OrderSide              `json:"side,omitempty"`
	EntryPrice        float64                `json:"entry_price,omitempty"`
	EntryZoneLow      float64                `json:"entry_zone_low,omitempty"`
	EntryZoneHigh     float64                `json:"entry_zone_high,omitempty"`
	StopLoss          float64                `json:"stop_loss,omitempty"`
	TakeProfitLevels  []float64              `json:"take_profit_levels,omitempty"`
	PartialPercentage float64                `json:"partial_percentage,omitempty"`
	Confidence        float64                `json:"confidence"`
	RawMessage        string                 `json:"raw_message,omitempty"`
	Timestamp         time.Time              `json:"timestamp"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// IsValidEntry reports whether the signal carries the minimum fields
// required to open a position: a symbol, a side, and either a single
// entry price or a complete entry zone.
func (s *Signal) IsValidEntry() bool {
	if s.Type != SignalEntry && s.Type != SignalEntryAlert {
		return false
	}
	if s.Symbol == "" || s.Side == "" {
		return false
	}
	return s.EntryPrice > 0 || (s.EntryZoneLow > 0 && s.EntryZoneHigh > 0)
}

// EffectivePartialPercentage returns the requested partial close
// percentage, falling back to the 50% default.
func (s *Signal) EffectivePartialPercentage() float64 {
	if s.PartialPercentage > 0 {
		return s.PartialPercentage
	}
	return DefaultPartialPercentage
}

// BreakevenRequested reports whether the signal asks for the stop loss
// to be moved to the entry price.
func (s *Signal) BreakevenRequested() bool {
	if s.Metadata == nil {
		return false
	}
	switch v := s.Metadata["breakeven"].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "yes"
	default:
		return false
	}
}

func (s *Signal) String() string {
	return "Signal(" + string(s.Type) + ", " + s.Symbol + ", " + string(s.Side) + ")"
}
