package broker

import (
	"fmt"
	"strings"

	"github.com/ducminhle1904/signal-trade-agent/internal/broker/bybit"
	"github.com/ducminhle1904/signal-trade-agent/internal/errors"
)

// Settings selects and configures a broker implementation.
type Settings struct {
	Name         string // "bybit" or "paper"
	Bybit        bybit.Config
	Category     string  // bybit product category, default "linear"
	PaperBalance float64 // starting balance for paper mode
}

// New creates the configured broker. Paper mode quotes through a real
// Bybit client so simulated fills track the live market; the quote
// endpoints are public and need no credentials.
func New(settings Settings) (Broker, error) {
	name := strings.ToLower(strings.TrimSpace(settings.Name))

	switch name {
	case "bybit":
		if settings.Bybit.APIKey == "" || settings.Bybit.APISecret == "" {
			return nil, errors.NewCredentialsError("broker", "create", "bybit broker requires BYBIT_API_KEY and BYBIT_API_SECRET")
		}
		return bybit.NewBroker(settings.Bybit, settings.Category), nil
	case "paper":
		quotes := bybit.NewBroker(settings.Bybit, settings.Category)
		balance := settings.PaperBalance
		if balance <= 0 {
			balance = 10000
		}
		return NewPaperBroker(balance, quotes.GetCurrentPrice), nil
	default:
		return nil, errors.NewConfigurationError("broker", "create", fmt.Sprintf("unsupported broker %q (supported: bybit, paper)", settings.Name))
	}
}
