// Package pnl turns journal trades into realized P&L and performance
// statistics. Every function is pure: no I/O, no shared state, safe for
// concurrent use.
//
// Streaks and drawdown depend on the order of the input. Callers pass
// trades sorted ascending by CreatedAt (see trade.SortByCreated); the
// engine never re-sorts, so reversing the input reverses those results.
//
// Drawdown measures from a peak seeded with the first running total, not
// with zero: a run that opens with losses is measured from where it stood
// after the first trade. For pnls [-10, -5] the peak is -10 and the
// drawdown is 500%, where a zero seed would report 1500%.
package pnl

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/tradejournal/trade"
)

// Metrics is recomputed from the trade list on every call and is never
// stored as the source of truth.
type Metrics struct {
	SharpeRatio  float64 `json:"sharpeRatio" yaml:"sharpe_ratio"`
	Sortino      float64 `json:"sortino" yaml:"sortino"`
	MaxDrawdown  float64 `json:"maxDrawdown" yaml:"max_drawdown"` // percent
	WinStreak    int     `json:"winStreak" yaml:"win_streak"`
	LossStreak   int     `json:"lossStreak" yaml:"loss_streak"`
	ProfitFactor float64 `json:"profitFactor" yaml:"profit_factor"` // +Inf with profit and no loss
	AverageWin   float64 `json:"averageWin" yaml:"average_win"`
	AverageLoss  float64 `json:"averageLoss" yaml:"average_loss"` // positive magnitude
	Expectancy   float64 `json:"expectancy" yaml:"expectancy"`
	Volatility   float64 `json:"volatility" yaml:"volatility"`
}

// MarshalJSON writes an infinite profit factor as the string "Infinity",
// which encoding/json cannot represent as a number.
func (m Metrics) MarshalJSON() ([]byte, error) {
	type plain Metrics
	var pf any = m.ProfitFactor
	if math.IsInf(m.ProfitFactor, 1) {
		pf = "Infinity"
	}
	return json.Marshal(struct {
		plain
		ProfitFactor any `json:"profitFactor"`
	}{plain(m), pf})
}

// TradePnL is the realized profit or loss of one trade. Open trades
// return 0. The price math runs in decimal and is converted once, with
// no rounding.
func TradePnL(t trade.Trade) float64 {
	if !t.ExitPrice.Valid {
		return 0
	}
	diff := t.ExitPrice.Decimal.Sub(t.EntryPrice)
	if t.Direction == trade.Short {
		diff = diff.Neg()
	}
	return diff.Mul(t.Quantity).InexactFloat64()
}

// closedPnL returns the realized P&L of every closed trade, in input order.
func closedPnL(trades []trade.Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			out = append(out, TradePnL(t))
		}
	}
	return out
}

// Compute derives Metrics from the closed trades in the given order.
// With no closed trades every field is zero.
func Compute(trades []trade.Trade) Metrics {
	pnls := closedPnL(trades)
	if len(pnls) == 0 {
		return Metrics{}
	}
	n := float64(len(pnls))

	var grossProfit, grossLoss float64
	var wins, losses int
	for _, p := range pnls {
		switch {
		case p > 0:
			grossProfit += p
			wins++
		case p < 0:
			grossLoss += -p
			losses++
		}
	}

	var m Metrics

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		m.ProfitFactor = math.Inf(1)
	}

	if wins > 0 {
		m.AverageWin = grossProfit / float64(wins)
	}
	if losses > 0 {
		m.AverageLoss = grossLoss / float64(losses)
	}

	// Breakeven trades count in the denominator only.
	winRate := float64(wins) / n
	m.Expectancy = winRate*m.AverageWin - (1-winRate)*m.AverageLoss

	avg, vol := popMeanStdDev(pnls)
	m.Volatility = vol
	if m.Volatility > 0 {
		m.SharpeRatio = avg / m.Volatility
	}

	below := make([]float64, 0, len(pnls))
	for _, p := range pnls {
		if p < avg {
			below = append(below, p)
		}
	}
	if _, dd := popMeanStdDev(below); dd > 0 {
		m.Sortino = avg / dd
	}

	walkDrawdown(pnls, func(_ int, _, _, dd float64) {
		if dd > m.MaxDrawdown {
			m.MaxDrawdown = dd
		}
	})

	m.WinStreak, m.LossStreak = streaks(pnls)

	return m.rounded()
}

// walkDrawdown accumulates pnls in order and reports, per step, the
// running total, the running peak and the drawdown percent from that
// peak. The peak starts at the first running total and the denominator
// is floored at 1, so a peak at or below zero measures in absolute units.
func walkDrawdown(pnls []float64, fn func(i int, cum, peak, dd float64)) {
	var cum, peak float64
	for i, p := range pnls {
		cum += p
		if i == 0 || cum > peak {
			peak = cum
		}
		dd := (peak - cum) / math.Max(peak, 1) * 100
		fn(i, cum, peak, dd)
	}
}

// streaks returns the longest run of winning and of losing trades.
// A breakeven trade ends both runs.
func streaks(pnls []float64) (win, loss int) {
	var curWin, curLoss int
	for _, p := range pnls {
		switch {
		case p > 0:
			curWin++
			curLoss = 0
		case p < 0:
			curLoss++
			curWin = 0
		default:
			curWin, curLoss = 0, 0
		}
		win = max(win, curWin)
		loss = max(loss, curLoss)
	}
	return win, loss
}

func (m Metrics) rounded() Metrics {
	m.SharpeRatio = round2(m.SharpeRatio)
	m.Sortino = round2(m.Sortino)
	m.MaxDrawdown = round2(m.MaxDrawdown)
	m.ProfitFactor = round2(m.ProfitFactor)
	m.AverageWin = round2(m.AverageWin)
	m.AverageLoss = round2(m.AverageLoss)
	m.Expectancy = round2(m.Expectancy)
	m.Volatility = round2(m.Volatility)
	return m
}

// popMeanStdDev returns the mean and the population standard deviation
// (divides by n). Fewer than two values have no spread.
func popMeanStdDev(xs []float64) (mean, std float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	mean, std = stat.PopMeanStdDev(xs, nil)
	if math.IsNaN(std) {
		// rounding on identical values can leave a tiny negative variance
		std = 0
	}
	return mean, std
}

func round2(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	r := math.Round(x*100) / 100
	if r == 0 {
		return 0 // no "-0.00"
	}
	return r
}
