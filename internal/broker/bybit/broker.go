package bybit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ducminhle1904/signal-trade-agent/pkg/types"
)

// Broker implements the broker capability contract on top of Bybit's
// unified trading account. Orders are linear-category market orders;
// partial closes are reduce-only orders on the opposite side.
type Broker struct {
	client   *Client
	category string
	retryCfg RetryConfig
}

// NewBroker creates a Bybit-backed broker.
func NewBroker(config Config, category string) *Broker {
	if category == "" {
		category = "linear"
	}
	return &Broker{
		client:   NewClient(config),
		category: category,
		retryCfg: DefaultRetryConfig(),
	}
}

func (b *Broker) Name() string {
	return "bybit"
}

// GetAccountBalance returns the unified account equity in USD.
func (b *Broker) GetAccountBalance(ctx context.Context) (float64, error) {
	var equity float64
	err := retry(ctx, b.retryCfg, func() error {
		var err error
		equity, err = b.client.GetEquity(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get account balance: %w", err)
	}
	return equity, nil
}

// GetCurrentPrice returns the latest traded price for the symbol.
func (b *Broker) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	var price float64
	err := retry(ctx, b.retryCfg, func() error {
		var err error
		price, err = b.client.GetLatestPrice(ctx, b.category, symbol)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get price for %s: %w", symbol, err)
	}
	return price, nil
}

// Execute opens a position for the signal with a market order sized in
// account currency. The stop loss from the signal is attached to the
// order so the exchange enforces it server-side.
func (b *Broker) Execute(ctx context.Context, signal *types.Signal, positionSize float64) *types.TradeExecution {
	currentPrice, err := b.GetCurrentPrice(ctx, signal.Symbol)
	if err != nil {
		return types.FailedExecution("could not get current price: " + err.Error())
	}
	if currentPrice <= 0 {
		return types.FailedExecution("no price available for " + signal.Symbol)
	}

	quantity := roundQty(positionSize / currentPrice)
	if quantity <= 0 {
		return types.FailedExecution("position size too small")
	}

	params := MarketOrderParams{
		Category: b.category,
		Symbol:   signal.Symbol,
		Side:     sideToOrderSide(signal.Side),
		Qty:      formatQty(quantity),
	}
	if signal.StopLoss > 0 {
		params.StopLoss = formatPrice(signal.StopLoss)
	}
	if len(signal.TakeProfitLevels) > 0 {
		params.TakeProfit = formatPrice(signal.TakeProfitLevels[0])
	}

	order, err := b.client.PlaceMarketOrder(ctx, params)
	if err != nil {
		return types.FailedExecution(err.Error())
	}

	executedPrice := parseFloat64(order.AvgPrice)
	if executedPrice <= 0 {
		executedPrice = currentPrice
	}
	executedQty := parseFloat64(order.CumExecQty)
	if executedQty <= 0 {
		executedQty = quantity
	}

	position := &types.Position{
		ID:               order.OrderID,
		Symbol:           signal.Symbol,
		Side:             signal.Side,
		EntryPrice:       executedPrice,
		Quantity:         executedQty,
		OriginalQuantity: executedQty,
		StopLoss:         signal.StopLoss,
		TakeProfitLevels: signal.TakeProfitLevels,
		Status:           types.PositionOpen,
		OpenedAt:         time.Now(),
	}

	return &types.TradeExecution{
		Success:          true,
		Position:         position,
		OrderID:          order.OrderID,
		ExecutedPrice:    executedPrice,
		ExecutedQuantity: executedQty,
		Timestamp:        time.Now(),
	}
}

// ClosePartial closes the given percentage of a position with a
// reduce-only market order on the opposite side.
func (b *Broker) ClosePartial(ctx context.Context, position *types.Position, percentage float64) *types.TradeExecution {
	if percentage <= 0 || percentage > 100 {
		return types.FailedExecution(fmt.Sprintf("invalid close percentage: %.2f", percentage))
	}

	quantity := roundQty(position.Quantity * (percentage / 100))
	if quantity <= 0 {
		return types.FailedExecution("close quantity too small")
	}

	params := MarketOrderParams{
		Category:   b.category,
		Symbol:     position.Symbol,
		Side:       oppositeSide(position.Side),
		Qty:        formatQty(quantity),
		ReduceOnly: true,
	}

	order, err := b.client.PlaceMarketOrder(ctx, params)
	if err != nil {
		return types.FailedExecution(err.Error())
	}

	executedPrice := parseFloat64(order.AvgPrice)
	if executedPrice <= 0 {
		if price, perr := b.GetCurrentPrice(ctx, position.Symbol); perr == nil {
			executedPrice = price
		}
	}
	executedQty := parseFloat64(order.CumExecQty)
	if executedQty <= 0 {
		executedQty = quantity
	}

	return &types.TradeExecution{
		Success:          true,
		Position:         position,
		OrderID:          order.OrderID,
		ExecutedPrice:    executedPrice,
		ExecutedQuantity: executedQty,
		Timestamp:        time.Now(),
	}
}

// UpdateStopLoss moves the server-side stop for the position.
func (b *Broker) UpdateStopLoss(ctx context.Context, position *types.Position, newStopLoss float64) bool {
	err := b.client.SetTradingStop(ctx, b.category, position.Symbol, formatPrice(newStopLoss))
	return err == nil
}

// ListOpenPositions returns the exchange's open positions mapped to the
// agent's position model.
func (b *Broker) ListOpenPositions(ctx context.Context) ([]*types.Position, error) {
	infos, err := b.client.GetPositions(ctx, b.category)
	if err != nil {
		return nil, fmt.Errorf("failed to list open positions: %w", err)
	}

	positions := make([]*types.Position, 0, len(infos))
	for _, info := range infos {
		side := types.SideBuy
		if info.Side == "Sell" {
			side = types.SideSell
		}
		size := parseFloat64(info.Size)
		positions = append(positions, &types.Position{
			ID:               fmt.Sprintf("%s-%s", info.Symbol, info.Side),
			Symbol:           info.Symbol,
			Side:             side,
			EntryPrice:       parseFloat64(info.EntryPrice),
			Quantity:         size,
			OriginalQuantity: size,
			StopLoss:         parseFloat64(info.StopLoss),
			Status:           types.PositionOpen,
			OpenedAt:         info.CreatedTime,
			PnL:              parseFloat64(info.UnrealisedPnl),
		})
	}

	return positions, nil
}

func sideToOrderSide(side types.OrderSide) OrderSide {
	if side == types.SideSell {
		return OrderSideSell
	}
	return OrderSideBuy
}

func oppositeSide(side types.OrderSide) OrderSide {
	if side == types.SideBuy {
		return OrderSideSell
	}
	return OrderSideBuy
}

func roundQty(qty float64) float64 {
	return float64(int64(qty*1e6)) / 1e6
}

func formatQty(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
