package journal

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/pnl"
	"github.com/rustyeddy/tradejournal/trade"
)

// Report is a point-in-time performance review of a set of trades.
// Everything in it is derived by the engine from the trade list.
type Report struct {
	Title   string
	Created time.Time

	// Span of the trades covered
	From time.Time
	To   time.Time

	Summary  pnl.Summary
	Metrics  pnl.Metrics
	BySymbol []pnl.SymbolStats
	Insights []string

	EquityPNG string
}

// NewReport computes a report over trades, which must be ordered by
// created_at ascending.
func NewReport(title string, trades []trade.Trade) Report {
	r := Report{
		Title:    title,
		Created:  time.Now().UTC(),
		Summary:  pnl.Summarize(trades),
		Metrics:  pnl.Compute(trades),
		BySymbol: pnl.BySymbol(trades),
		Insights: pnl.Insights(trades),
	}

	for _, t := range trades {
		if r.From.IsZero() || t.CreatedAt.Before(r.From) {
			r.From = t.CreatedAt
		}
		last := t.CreatedAt
		if t.ClosedAt != nil {
			last = *t.ClosedAt
		}
		if last.After(r.To) {
			r.To = last
		}
	}
	return r
}

var reportOrgFuncs = template.FuncMap{
	"ratio": pnl.FormatRatio,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var reportOrg = template.Must(template.New("report").Funcs(reportOrgFuncs).Parse(ReportOrgTemplate))

// WriteOrg renders the report as an Org-mode document.
func (r Report) WriteOrg(w io.Writer) error {
	if err := reportOrg.Execute(w, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

const ReportOrgTemplate = `* PERFORMANCE: {{if .Title}}{{.Title}}{{else}}(untitled){{end}}
:PROPERTIES:
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
{{- if not .From.IsZero}}
:FROM:        {{.From.Format "2006-01-02"}}
:TO:          {{.To.Format "2006-01-02"}}
{{- end}}
:TRADES:      {{.Summary.TotalTrades}}
:OPEN:        {{.Summary.OpenPositions}}
:CLOSED:      {{.Summary.ClosedTrades}}
:NET_PL:      {{printf "%.2f" .Summary.TotalPnL}}
:WIN_RATE:    {{printf "%.2f" .Summary.WinRate}}
:MAX_DD_PCT:  {{printf "%.2f" .Metrics.MaxDrawdown}}
:PROFIT_FAC:  {{ratio .Metrics.ProfitFactor}}
:END:

** Performance Summary
- Net P/L:          *{{printf "%.2f" .Summary.TotalPnL}}*
- Win Rate:         *{{printf "%.2f" .Summary.WinRate}}%*
- Gross Profit:     *{{printf "%.2f" .Summary.GrossProfit}}*
- Gross Loss:       *{{printf "%.2f" .Summary.GrossLoss}}*
- Largest Win:      *{{printf "%.2f" .Summary.LargestWin}}*
- Largest Loss:     *{{printf "%.2f" .Summary.LargestLoss}}*

** Risk Metrics
| Metric        | Value |
|---------------+-------|
| Sharpe        | {{printf "%.2f" .Metrics.SharpeRatio}} |
| Sortino       | {{printf "%.2f" .Metrics.Sortino}} |
| Max Drawdown  | {{printf "%.2f" .Metrics.MaxDrawdown}}% |
| Profit Factor | {{ratio .Metrics.ProfitFactor}} |
| Average Win   | {{printf "%.2f" .Metrics.AverageWin}} |
| Average Loss  | {{printf "%.2f" .Metrics.AverageLoss}} |
| Expectancy    | {{printf "%.2f" .Metrics.Expectancy}} |
| Volatility    | {{printf "%.2f" .Metrics.Volatility}} |
| Win Streak    | {{.Metrics.WinStreak}} |
| Loss Streak   | {{.Metrics.LossStreak}} |

** Equity Curve
{{- if .EquityPNG }}
[[file:{{.EquityPNG}}]]
{{- else }}
# run with --chart to insert the equity curve here
{{- end }}

** Trade Distribution
| Outcome   | Count |
|-----------+-------|
| Wins      | {{.Summary.Wins}} |
| Losses    | {{.Summary.Losses}} |
| Breakeven | {{.Summary.Breakeven}} |
| Open      | {{.Summary.OpenPositions}} |
| Total     | {{.Summary.TotalTrades}} |

{{- if .BySymbol }}

** By Symbol
| Symbol | Trades | Wins | Losses | Net P/L |
|--------+--------+------+--------+---------|
{{- range .BySymbol }}
| {{.Symbol}} | {{.Trades}} | {{.Wins}} | {{.Losses}} | {{printf "%.2f" .NetPnL}} |
{{- end }}
{{- end }}

{{- if .Insights }}

** Insights
{{- range .Insights }}
- {{.}}
{{- end }}
{{- end }}
`

func PrintReport(w io.Writer, r Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", r.Title)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	if !r.From.IsZero() {
		fmt.Fprintf(w, "From:          %s\n", r.From.Format(time.RFC3339))
		fmt.Fprintf(w, "To:            %s\n", r.To.Format(time.RFC3339))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.Summary.TotalTrades)
	fmt.Fprintf(w, "Open:          %d\n", r.Summary.OpenPositions)
	fmt.Fprintf(w, "Closed:        %d\n", r.Summary.ClosedTrades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Summary.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Summary.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.Summary.WinRate)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", r.Summary.TotalPnL)

	m := r.Metrics
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Advanced Metrics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Sharpe:        %.2f\n", m.SharpeRatio)
	fmt.Fprintf(w, "Sortino:       %.2f\n", m.Sortino)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", m.MaxDrawdown)
	fmt.Fprintf(w, "Profit Factor: %s\n", pnl.FormatRatio(m.ProfitFactor))
	fmt.Fprintf(w, "Average Win:   %.2f\n", m.AverageWin)
	fmt.Fprintf(w, "Average Loss:  %.2f\n", m.AverageLoss)
	fmt.Fprintf(w, "Expectancy:    %.2f\n", m.Expectancy)
	fmt.Fprintf(w, "Volatility:    %.2f\n", m.Volatility)
	fmt.Fprintf(w, "Win Streak:    %d\n", m.WinStreak)
	fmt.Fprintf(w, "Loss Streak:   %d\n", m.LossStreak)

	if len(r.Insights) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Insights")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, s := range r.Insights {
			fmt.Fprintf(w, "- %s\n", s)
		}
	}

	if r.EquityPNG != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Equity Curve:  %s\n", r.EquityPNG)
	}

	fmt.Fprintln(w, "==================================================")
}
