// journal/csv.go
package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/pnl"
	"github.com/rustyeddy/tradejournal/trade"
)

var tradeHeader = []string{
	"trade_id", "symbol", "direction", "entry_price", "exit_price", "quantity",
	"created_at", "closed_at", "pnl", "emotion", "tags",
}

// WriteTradesCSV writes one row per trade. Open trades have an empty
// exit price, close time and P&L.
func WriteTradesCSV(w io.Writer, trades []trade.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return err
	}

	for _, t := range trades {
		var exit, closed, p string
		if t.IsClosed() {
			exit = t.ExitPrice.Decimal.String()
			p = f(pnl.TradePnL(t))
		}
		if t.ClosedAt != nil {
			closed = t.ClosedAt.UTC().Format(time.RFC3339)
		}

		err := cw.Write([]string{
			t.ID,
			t.Symbol,
			string(t.Direction),
			t.EntryPrice.String(),
			exit,
			t.Quantity.String(),
			t.CreatedAt.UTC().Format(time.RFC3339),
			closed,
			p,
			t.Emotion,
			strings.Join(t.Tags, ";"),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMetricsCSV writes the summary and the advanced metrics as
// metric,value rows.
func WriteMetricsCSV(w io.Writer, m pnl.Metrics, s pnl.Summary) error {
	rows := [][]string{
		{"metric", "value"},
		{"total_trades", strconv.Itoa(s.TotalTrades)},
		{"open_positions", strconv.Itoa(s.OpenPositions)},
		{"closed_trades", strconv.Itoa(s.ClosedTrades)},
		{"wins", strconv.Itoa(s.Wins)},
		{"losses", strconv.Itoa(s.Losses)},
		{"win_rate", f(s.WinRate)},
		{"total_pnl", f(s.TotalPnL)},
		{"gross_profit", f(s.GrossProfit)},
		{"gross_loss", f(s.GrossLoss)},
		{"sharpe_ratio", f(m.SharpeRatio)},
		{"sortino", f(m.Sortino)},
		{"max_drawdown", f(m.MaxDrawdown)},
		{"win_streak", strconv.Itoa(m.WinStreak)},
		{"loss_streak", strconv.Itoa(m.LossStreak)},
		{"profit_factor", f(m.ProfitFactor)},
		{"average_win", f(m.AverageWin)},
		{"average_loss", f(m.AverageLoss)},
		{"expectancy", f(m.Expectancy)},
		{"volatility", f(m.Volatility)},
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteEquityCSV writes the equity curve, one row per closed trade.
func WriteEquityCSV(w io.Writer, curve []pnl.EquityPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"n", "trade_id", "symbol", "time", "pnl", "cumulative", "peak", "drawdown"}); err != nil {
		return err
	}
	for _, p := range curve {
		err := cw.Write([]string{
			strconv.Itoa(p.N),
			p.TradeID,
			p.Symbol,
			p.Time.UTC().Format(time.RFC3339),
			f(p.PnL),
			f(p.Cumulative),
			f(p.Peak),
			f(p.Drawdown),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// f formats a value to two places. +Inf is written as "+Inf".
func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

