package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// OrderSide represents the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "Buy"
	OrderSideSell OrderSide = "Sell"
)

// Order represents a placed order as reported by the API.
type Order struct {
	OrderID     string    `json:"orderId"`
	OrderLinkID string    `json:"orderLinkId"`
	Symbol      string    `json:"symbol"`
	Side        OrderSide `json:"side"`
	Qty         string    `json:"qty"`
	AvgPrice    string    `json:"avgPrice"`
	CumExecQty  string    `json:"cumExecQty"`
	OrderStatus string    `json:"orderStatus"`
	CreatedTime time.Time `json:"createdTime"`
}

// MarketOrderParams holds parameters for placing a market order.
type MarketOrderParams struct {
	Category   string
	Symbol     string
	Side       OrderSide
	Qty        string
	TakeProfit string
	StopLoss   string
	ReduceOnly bool
}

// PlaceMarketOrder places a market order, optionally with an attached
// stop loss / take profit, optionally reduce-only.
func (c *Client) PlaceMarketOrder(ctx context.Context, params MarketOrderParams) (*Order, error) {
	if params.Category == "" {
		params.Category = "linear"
	}
	if params.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if params.Side == "" {
		return nil, fmt.Errorf("side is required")
	}
	if params.Qty == "" {
		return nil, fmt.Errorf("qty is required")
	}

	apiParams := map[string]interface{}{
		"category":  params.Category,
		"symbol":    params.Symbol,
		"side":      string(params.Side),
		"orderType": "Market",
		"qty":       params.Qty,
	}
	if params.TakeProfit != "" {
		apiParams["takeProfit"] = params.TakeProfit
	}
	if params.StopLoss != "" {
		apiParams["stopLoss"] = params.StopLoss
	}
	if params.ReduceOnly {
		apiParams["reduceOnly"] = params.ReduceOnly
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(apiParams).PlaceOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	return c.parseOrderResponse(result)
}

// SetTradingStop sets the stop loss for an open position.
func (c *Client) SetTradingStop(ctx context.Context, category, symbol, stopLoss string) error {
	if category == "" {
		category = "linear"
	}

	params := map[string]interface{}{
		"category":    category,
		"symbol":      symbol,
		"positionIdx": 0, // one-way mode
		"stopLoss":    stopLoss,
	}

	_, err := c.httpClient.NewUtaBybitServiceWithParams(params).SetPositionTradingStop(ctx)
	if err != nil {
		return fmt.Errorf("failed to set trading stop: %w", err)
	}

	return nil
}

// PositionInfo represents an exchange-side position.
type PositionInfo struct {
	Symbol        string    `json:"symbol"`
	Side          string    `json:"side"`
	Size          string    `json:"size"`
	EntryPrice    string    `json:"entryPrice"`
	StopLoss      string    `json:"stopLoss"`
	TakeProfit    string    `json:"takeProfit"`
	UnrealisedPnl string    `json:"unrealisedPnl"`
	CreatedTime   time.Time `json:"createdTime"`
}

// GetPositions retrieves the exchange's open positions for a category.
func (c *Client) GetPositions(ctx context.Context, category string) ([]PositionInfo, error) {
	if category == "" {
		category = "linear"
	}

	params := map[string]interface{}{
		"category":   category,
		"settleCoin": "USDT",
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetPositionList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	serverResp, ok := any(result).(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var positionResult struct {
		List []struct {
			Symbol        string `json:"symbol"`
			Side          string `json:"side"`
			Size          string `json:"size"`
			EntryPrice    string `json:"avgPrice"`
			StopLoss      string `json:"stopLoss"`
			TakeProfit    string `json:"takeProfit"`
			UnrealisedPnl string `json:"unrealisedPnl"`
			CreatedTime   string `json:"createdTime"`
		} `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &positionResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal position result: %w", err)
	}

	var positions []PositionInfo
	for _, posData := range positionResult.List {
		if parseFloat64(posData.Size) == 0 {
			continue
		}
		positions = append(positions, PositionInfo{
			Symbol:        posData.Symbol,
			Side:          posData.Side,
			Size:          posData.Size,
			EntryPrice:    posData.EntryPrice,
			StopLoss:      posData.StopLoss,
			TakeProfit:    posData.TakeProfit,
			UnrealisedPnl: posData.UnrealisedPnl,
			CreatedTime:   parseTimestamp(posData.CreatedTime),
		})
	}

	return positions, nil
}

// parseOrderResponse parses the order placement API response.
func (c *Client) parseOrderResponse(response interface{}) (*Order, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var orderResult struct {
		OrderID     string `json:"orderId"`
		OrderLinkID string `json:"orderLinkId"`
		Symbol      string `json:"symbol"`
		Side        string `json:"side"`
		Qty         string `json:"qty"`
		AvgPrice    string `json:"avgPrice"`
		CumExecQty  string `json:"cumExecQty"`
		OrderStatus string `json:"orderStatus"`
		CreatedTime string `json:"createdTime"`
	}
	if err := json.Unmarshal(resultBytes, &orderResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order result: %w", err)
	}

	return &Order{
		OrderID:     orderResult.OrderID,
		OrderLinkID: orderResult.OrderLinkID,
		Symbol:      orderResult.Symbol,
		Side:        OrderSide(orderResult.Side),
		Qty:         orderResult.Qty,
		AvgPrice:    orderResult.AvgPrice,
		CumExecQty:  orderResult.CumExecQty,
		OrderStatus: orderResult.OrderStatus,
		CreatedTime: parseTimestamp(orderResult.CreatedTime),
	}, nil
}

// parseTimestamp converts a millisecond timestamp string to time.Time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	var ms int64
	if _, err := fmt.Sscanf(s, "%d", &ms); err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
