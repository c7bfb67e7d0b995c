package pnl

import (
	"sort"
	"time"

	"github.com/rustyeddy/tradejournal/trade"
)

// Summary holds the headline counts shown next to the metrics. Open
// trades count toward TotalTrades and OpenPositions only.
type Summary struct {
	TotalTrades   int     `json:"totalTrades" yaml:"total_trades"`
	OpenPositions int     `json:"openPositions" yaml:"open_positions"`
	ClosedTrades  int     `json:"closedTrades" yaml:"closed_trades"`
	Wins          int     `json:"wins" yaml:"wins"`
	Losses        int     `json:"losses" yaml:"losses"`
	Breakeven     int     `json:"breakeven" yaml:"breakeven"`
	WinRate       float64 `json:"winRate" yaml:"win_rate"` // percent of closed trades
	TotalPnL      float64 `json:"totalPnl" yaml:"total_pnl"`
	GrossProfit   float64 `json:"grossProfit" yaml:"gross_profit"`
	GrossLoss     float64 `json:"grossLoss" yaml:"gross_loss"` // positive magnitude
	LargestWin    float64 `json:"largestWin" yaml:"largest_win"`
	LargestLoss   float64 `json:"largestLoss" yaml:"largest_loss"` // positive magnitude
}

func Summarize(trades []trade.Trade) Summary {
	s := Summary{TotalTrades: len(trades)}

	for _, t := range trades {
		if !t.IsClosed() {
			s.OpenPositions++
			continue
		}
		s.ClosedTrades++

		p := TradePnL(t)
		s.TotalPnL += p
		switch {
		case p > 0:
			s.Wins++
			s.GrossProfit += p
			s.LargestWin = max(s.LargestWin, p)
		case p < 0:
			s.Losses++
			s.GrossLoss += -p
			s.LargestLoss = max(s.LargestLoss, -p)
		default:
			s.Breakeven++
		}
	}

	if s.ClosedTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.ClosedTrades) * 100
	}

	s.WinRate = round2(s.WinRate)
	s.TotalPnL = round2(s.TotalPnL)
	s.GrossProfit = round2(s.GrossProfit)
	s.GrossLoss = round2(s.GrossLoss)
	s.LargestWin = round2(s.LargestWin)
	s.LargestLoss = round2(s.LargestLoss)
	return s
}

// EquityPoint is one step of the cumulative realized P&L curve.
type EquityPoint struct {
	N          int       `json:"n"` // 1-based closed trade number
	TradeID    string    `json:"tradeId"`
	Symbol     string    `json:"symbol"`
	Time       time.Time `json:"time"`
	PnL        float64   `json:"pnl"`
	Cumulative float64   `json:"cumulative"`
	Peak       float64   `json:"peak"`
	Drawdown   float64   `json:"drawdown"` // percent
}

// EquityCurve walks the closed trades in the given order. Its largest
// Drawdown is Compute(trades).MaxDrawdown.
func EquityCurve(trades []trade.Trade) []EquityPoint {
	closed := trade.Closed(trades)
	pnls := make([]float64, len(closed))
	for i, t := range closed {
		pnls[i] = TradePnL(t)
	}

	out := make([]EquityPoint, 0, len(closed))
	walkDrawdown(pnls, func(i int, cum, peak, dd float64) {
		t := closed[i]
		at := t.CreatedAt
		if t.ClosedAt != nil {
			at = *t.ClosedAt
		}
		out = append(out, EquityPoint{
			N:          i + 1,
			TradeID:    t.ID,
			Symbol:     t.Symbol,
			Time:       at,
			PnL:        round2(pnls[i]),
			Cumulative: round2(cum),
			Peak:       round2(peak),
			Drawdown:   round2(dd),
		})
	})
	return out
}

// SymbolStats is the closed-trade breakdown for one symbol.
type SymbolStats struct {
	Symbol string  `json:"symbol"`
	Trades int     `json:"trades"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	NetPnL float64 `json:"netPnl"`
}

// BySymbol groups closed trades by symbol, sorted by symbol.
func BySymbol(trades []trade.Trade) []SymbolStats {
	bySym := map[string]*SymbolStats{}
	for _, t := range trades {
		if !t.IsClosed() {
			continue
		}
		st, ok := bySym[t.Symbol]
		if !ok {
			st = &SymbolStats{Symbol: t.Symbol}
			bySym[t.Symbol] = st
		}
		p := TradePnL(t)
		st.Trades++
		st.NetPnL += p
		if p > 0 {
			st.Wins++
		} else if p < 0 {
			st.Losses++
		}
	}

	out := make([]SymbolStats, 0, len(bySym))
	for _, st := range bySym {
		st.NetPnL = round2(st.NetPnL)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
