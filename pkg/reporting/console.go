package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/signal-trade-agent/internal/router"
)

// PrintPortfolioStatus renders the portfolio snapshot as a console
// table: account summary first, then one row per open position.
func PrintPortfolioStatus(status *router.PortfolioStatus) {
	summary := table.NewWriter()
	summary.SetOutputMirror(os.Stdout)
	summary.SetTitle("PORTFOLIO STATUS")
	summary.SetStyle(table.StyleRounded)

	summary.AppendRows([]table.Row{
		{"💼 Balance", fmt.Sprintf("$%.2f", status.Balance)},
		{"📂 Open Positions", status.OpenPositions},
		{"💹 Daily P&L", fmt.Sprintf("$%.2f", status.DailyPnL)},
	})

	summary.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 30, Align: text.AlignLeft},
	})

	summary.Render()

	if len(status.Positions) == 0 {
		return
	}

	positions := table.NewWriter()
	positions.SetOutputMirror(os.Stdout)
	positions.SetTitle("OPEN POSITIONS")
	positions.SetStyle(table.StyleRounded)

	positions.AppendHeader(table.Row{"Symbol", "Side", "Entry", "Quantity", "Remaining", "Stop Loss", "P&L"})
	for _, p := range status.Positions {
		positions.AppendRow(table.Row{
			p.Symbol,
			p.Side,
			fmt.Sprintf("%.2f", p.EntryPrice),
			fmt.Sprintf("%.6f", p.Quantity),
			fmt.Sprintf("%.1f%%", p.RemainingPercentage()),
			fmt.Sprintf("%.2f", p.StopLoss),
			fmt.Sprintf("$%.2f", p.PnL),
		})
	}

	positions.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	positions.Render()
}

// PrintStartupInfo renders the agent configuration banner shown before
// the feed loop starts.
func PrintStartupInfo(brokerName, environment, channel, model string, maxPositions int, dailyLossPercent float64) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("AGENT INITIALIZATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🏪 Broker", brokerName},
		{"🔧 Environment", environment},
		{"📡 Channel", channel},
		{"🧠 Model", model},
		{"📂 Max Positions", maxPositions},
		{"🛑 Daily Loss Limit", fmt.Sprintf("%.1f%%", dailyLossPercent)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, WidthMax: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
}
