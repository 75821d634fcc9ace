package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

const systemPrompt = `You are an expert trading signal parser. Your job is to extract structured trading information from trading channel messages.

IMPORTANT TERMINOLOGY:
- "TRIMMING" or "trim" = Taking PARTIAL profits (not closing entire position)
- "RISK FREE" or "protect positions" = Move stop loss to BREAKEVEN (entry price)
- "GOLD" = XAUUSD symbol
- "BUYING" = Long/Buy position
- "SELLING" = Short/Sell position
- "RR" = Risk-Reward ratio (e.g., "1:2 RR" means 2x profit vs risk)

Message types you'll see:
1. Entry signals: "BUYING GOLD @ MARKET ENTRY 3989.75 SL 3987.2"
2. Trim/Partial signals: "Im trimming some. Over 1:2 RR" or "You may trim"
3. Stop loss to breakeven: "risk free" or "protect positions" or "1:2 RR protect positions"
4. Alerts: "Approaching zone!!" or "PRICE APPROACHING!!"
5. Progress updates: "100 pips" or "Booom!!!" or "Running 1:2 almost"

Extract and return ONLY a valid JSON object with these fields:
{
    "signal_type": "entry|entry_alert|partial|stop_loss_move|close|unknown",
    "symbol": "XAUUSD" (convert GOLD to XAUUSD) or null,
    "side": "buy|sell" or null,
    "entry_price": 3989.75 or null,
    "entry_zone_low": null,
    "entry_zone_high": null,
    "stop_loss": 3987.2 or null,
    "take_profit_levels": [],
    "partial_percentage": 50.0 or null,
    "confidence": 0.95,
    "metadata": {"notes": "any additional context like RR ratio"}
}

Rules:
- "BUYING GOLD" -> side="buy", symbol="XAUUSD"
- "SELLING GOLD" -> side="sell", symbol="XAUUSD"
- "GOLD" alone -> symbol="XAUUSD"
- "ENTRY 3989.75" -> entry_price=3989.75, signal_type="entry"
- "SL 3987.2" -> stop_loss=3987.2
- "trimming" or "trim" -> signal_type="partial", partial_percentage=50.0 (default)
- "risk free" or "protect positions" -> signal_type="stop_loss_move" (move SL to breakeven), set metadata {"breakeven": true}
- "approaching" or "looking at" -> signal_type="entry_alert"
- "1:2 RR", "1:3 RR" etc -> add to metadata as {"rr_ratio": "1:2"}
- Confidence 0.9-1.0 for clear entry signals with price and SL
- Confidence 0.7-0.9 for partial/trim signals
- Confidence 0.5-0.7 for alerts/approaching
- Return ONLY the JSON object, no markdown formatting or code blocks`

// OpenAIConfig configures the chat-completions based extractor.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// OpenAIExtractor parses free-text trading messages into structured
// signals via the OpenAI chat completions API.
type OpenAIExtractor struct {
	client      *resty.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIExtractor creates an extractor backed by the OpenAI API.
func NewOpenAIExtractor(config OpenAIConfig) *OpenAIExtractor {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := config.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	temperature := config.Temperature
	if temperature <= 0 {
		temperature = 0.1
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(config.APIKey).
		SetHeader("Content-Type", "application/json")

	return &OpenAIExtractor{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// signalPayload mirrors the JSON object the model is instructed to
// return. Nullable numbers are pointers so absent and zero stay apart.
type signalPayload struct {
	SignalType        string                 `json:"signal_type"`
	Symbol            string                 `json:"symbol"`
	Side              string                 `json:"side"`
	EntryPrice        *float64               `json:"entry_price"`
	EntryZoneLow      *float64               `json:"entry_zone_low"`
	EntryZoneHigh     *float64               `json:"entry_zone_high"`
	StopLoss          *float64               `json:"stop_loss"`
	TakeProfitLevels  []float64              `json:"take_profit_levels"`
	PartialPercentage *float64               `json:"partial_percentage"`
	Confidence        float64                `json:"confidence"`
	Metadata          map[string]interface{} `json:"metadata"`
}

// Extract sends the message to the model and maps its JSON reply into
// a signal. A reply that is not valid JSON is an extraction error.
func (e *OpenAIExtractor) Extract(ctx context.Context, message string) (*types.Signal, error) {
	request := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(request).
		Post("/v1/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chat completion response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("openai API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	content := stripCodeFence(parsed.Choices[0].Message.Content)

	var payload signalPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("model reply is not valid signal JSON: %w", err)
	}

	return payloadToSignal(&payload, message), nil
}

// stripCodeFence removes markdown code fencing the model sometimes
// wraps around the JSON despite instructions.
func stripCodeFence(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

func payloadToSignal(payload *signalPayload, rawMessage string) *types.Signal {
	signal := &types.Signal{
		Type:             parseSignalType(payload.SignalType),
		Symbol:           payload.Symbol,
		Side:             parseOrderSide(payload.Side),
		TakeProfitLevels: payload.TakeProfitLevels,
		Confidence:       payload.Confidence,
		RawMessage:       rawMessage,
		Timestamp:        time.Now(),
		Metadata:         payload.Metadata,
	}

	if payload.EntryPrice != nil {
		signal.EntryPrice = *payload.EntryPrice
	}
	if payload.EntryZoneLow != nil {
		signal.EntryZoneLow = *payload.EntryZoneLow
	}
	if payload.EntryZoneHigh != nil {
		signal.EntryZoneHigh = *payload.EntryZoneHigh
	}
	if payload.StopLoss != nil {
		signal.StopLoss = *payload.StopLoss
	}
	if payload.PartialPercentage != nil {
		signal.PartialPercentage = *payload.PartialPercentage
	}

	return signal
}

func parseSignalType(raw string) types.SignalType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "entry":
		return types.SignalEntry
	case "entry_alert":
		return types.SignalEntryAlert
	case "partial":
		return types.SignalPartial
	case "stop_loss_move":
		return types.SignalStopLossMove
	case "close":
		return types.SignalClose
	default:
		return types.SignalUnknown
	}
}

func parseOrderSide(raw string) types.OrderSide {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy":
		return types.SideBuy
	case "sell":
		return types.SideSell
	default:
		return ""
	}
}
