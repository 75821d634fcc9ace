package extractor

import (
	"context"
	"strings"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

// Extractor turns a raw channel message into a structured trading
// signal. Implementations return (nil, nil) when the message carries
// no extractable signal.
type Extractor interface {
	Extract(ctx context.Context, message string) (*types.Signal, error)
}

// signalKeywords are the words that suggest a message might contain
// trading content. QuickCheck gates the (paid) model call on them.
var signalKeywords = []string{
	"entry", "entered", "long", "short", "buy", "sell", "buying", "selling",
	"partial", "tp", "take profit", "stop loss", "sl",
	"breakeven", "be", "close", "closed", "approaching",
	"getting ready", "zone", "position", "gold", "xauusd",
	"trimming", "trim", "risk free", "protect", "rr", "pips",
	"market", "booom",
}

// QuickCheck reports whether the message plausibly contains a trading
// signal. It is a cheap substring prefilter, tuned for recall over
// precision: false positives only cost one model call.
func QuickCheck(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range signalKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
