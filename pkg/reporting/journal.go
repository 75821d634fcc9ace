package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// JournalEntry records one executed trade action.
type JournalEntry struct {
	Time       time.Time
	Action     string // "open", "partial", "close", "stop_move"
	Symbol     string
	Side       string
	OrderID    string
	Price      float64
	Quantity   float64
	PnL        float64
	Confidence float64
	Message    string
}

// TradeJournal accumulates executed trade actions for the session and
// exports them to an Excel workbook.
type TradeJournal struct {
	mu      sync.Mutex
	entries []JournalEntry
}

// NewTradeJournal creates an empty journal.
func NewTradeJournal() *TradeJournal {
	return &TradeJournal{}
}

// Record appends one entry to the journal.
func (j *TradeJournal) Record(entry JournalEntry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	j.entries = append(j.entries, entry)
}

// Len returns the number of recorded entries.
func (j *TradeJournal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// Entries returns a snapshot copy of the recorded entries.
func (j *TradeJournal) Entries() []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]JournalEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// ExportExcel writes the journal to an Excel workbook at path.
func (j *TradeJournal) ExportExcel(path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	entries := j.Entries()

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Trades"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Time", "Action", "Symbol", "Side", "Order ID", "Price", "Quantity", "P&L", "Confidence", "Message"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, header)
	}
	if lastCell, err := excelize.CoordinatesToCellName(len(headers), 1); err == nil {
		fx.SetCellStyle(sheet, "A1", lastCell, headerStyle)
	}

	for rowIdx, entry := range entries {
		row := rowIdx + 2
		values := []interface{}{
			entry.Time.Format("2006-01-02 15:04:05"),
			entry.Action,
			entry.Symbol,
			entry.Side,
			entry.OrderID,
			entry.Price,
			entry.Quantity,
			entry.PnL,
			entry.Confidence,
			entry.Message,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			fx.SetCellValue(sheet, cell, value)
		}
	}

	// Widen the timestamp and message columns
	fx.SetColWidth(sheet, "A", "A", 20)
	fx.SetColWidth(sheet, "E", "E", 24)
	fx.SetColWidth(sheet, "J", "J", 50)

	if err := writeSummarySheet(fx, entries, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

// writeSummarySheet adds a second sheet with session totals: trade
// counts per action, realized P&L and the set of symbols traded.
func writeSummarySheet(fx *excelize.File, entries []JournalEntry, headerStyle int) error {
	const sheet = "Summary"
	if _, err := fx.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	actionCounts := make(map[string]int)
	symbols := make(map[string]bool)
	totalPnL := 0.0
	for _, entry := range entries {
		actionCounts[entry.Action]++
		if entry.Symbol != "" {
			symbols[entry.Symbol] = true
		}
		totalPnL += entry.PnL
	}

	symbolList := make([]string, 0, len(symbols))
	for symbol := range symbols {
		symbolList = append(symbolList, symbol)
	}
	sort.Strings(symbolList)

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Exported", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Trades", len(entries)},
		{"Entries Opened", actionCounts["open"]},
		{"Partial Closes", actionCounts["partial"]},
		{"Stop Loss Moves", actionCounts["stop_move"]},
		{"Full Closes", actionCounts["close"]},
		{"Realized P&L", totalPnL},
		{"Symbols Traded", strings.Join(symbolList, ", ")},
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			fx.SetCellValue(sheet, cell, value)
		}
	}
	fx.SetCellStyle(sheet, "A1", "B1", headerStyle)
	fx.SetColWidth(sheet, "A", "A", 20)
	fx.SetColWidth(sheet, "B", "B", 24)

	return nil
}
