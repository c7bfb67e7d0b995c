package pnl

import (
	"fmt"
	"math"

	"github.com/rustyeddy/tradejournal/trade"
)

// Thresholds applied by Insights.
const (
	GoodSharpe       = 1.0
	HighDrawdownPct  = 20.0
	StrongProfitFac  = 2.0
	WeakProfitFac    = 1.0
	NotableWinStreak = 5
)

// Insights evaluates fixed thresholds against Compute(trades) and returns
// the matching sentences in a fixed order. No closed trades, no insights.
func Insights(trades []trade.Trade) []string {
	if len(closedPnL(trades)) == 0 {
		return nil
	}
	return InsightsFor(Compute(trades))
}

// InsightsFor is Insights for metrics the caller already computed.
func InsightsFor(m Metrics) []string {
	var out []string

	if m.SharpeRatio > GoodSharpe {
		out = append(out, fmt.Sprintf(
			"Excellent risk-adjusted performance with a Sharpe ratio of %.2f.", m.SharpeRatio))
	}
	if m.SharpeRatio < 0 {
		out = append(out, fmt.Sprintf(
			"Negative Sharpe ratio (%.2f): review your risk management and position sizing.", m.SharpeRatio))
	}
	if m.MaxDrawdown > HighDrawdownPct {
		out = append(out, fmt.Sprintf(
			"Maximum drawdown of %.2f%% is high. Consider tighter stops or smaller size.", m.MaxDrawdown))
	}
	if m.ProfitFactor > StrongProfitFac {
		out = append(out, fmt.Sprintf(
			"Strong profit factor of %s indicates a robust strategy.", FormatRatio(m.ProfitFactor)))
	}
	// A journal of breakeven trades has a zero profit factor but no losses.
	if m.ProfitFactor < WeakProfitFac && m.AverageLoss > 0 {
		out = append(out, fmt.Sprintf(
			"Profit factor of %s is below 1. Losses outweigh gains and the strategy needs refinement.", FormatRatio(m.ProfitFactor)))
	}
	if m.WinStreak > NotableWinStreak {
		out = append(out, fmt.Sprintf(
			"Impressive winning streak of %d trades. Stay disciplined and stick to your plan.", m.WinStreak))
	}

	return out
}

// FormatRatio prints a ratio with two decimals, or ∞ when unbounded.
func FormatRatio(x float64) string {
	if math.IsInf(x, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", x)
}
