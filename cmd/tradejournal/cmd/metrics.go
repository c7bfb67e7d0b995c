package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/internal/notify"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pnl"
	"github.com/rustyeddy/tradejournal/trade"
)

// loadTrades opens the journal and returns the trades the filter flags select.
func (a *app) loadTrades(cmd *cobra.Command, ff *filterFlags) ([]trade.Trade, error) {
	f, err := ff.filter()
	if err != nil {
		return nil, err
	}

	j, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer j.Close()

	trades, err := j.ListTrades(cmd.Context(), f)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	return trades, nil
}

func newMetricsCmd(a *app) *cobra.Command {
	var (
		ff     filterFlags
		asJSON bool
	)

	c := &cobra.Command{
		Use:   "metrics",
		Short: "Show summary and risk-adjusted metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := a.loadTrades(cmd, &ff)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				b, err := json.MarshalIndent(struct {
					Summary pnl.Summary `json:"summary"`
					Metrics pnl.Metrics `json:"metrics"`
				}{pnl.Summarize(trades), pnl.Compute(trades)}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
				return nil
			}

			r := journal.NewReport("Performance Metrics", trades)
			r.Insights = nil
			journal.PrintReport(out, r)
			return nil
		},
	}

	ff.bind(c)
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return c
}

func newInsightsCmd(a *app) *cobra.Command {
	var (
		ff   filterFlags
		send bool
	)

	c := &cobra.Command{
		Use:   "insights",
		Short: "Explain the results in plain English",
		Long: `Print the insights derived from the advanced metrics.

With --notify the summary and insights are also sent to the Telegram
chat configured under notify.telegram.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := a.loadTrades(cmd, &ff)
			if err != nil {
				return err
			}

			summary := pnl.Summarize(trades)
			insights := pnl.Insights(trades)
			out := cmd.OutOrStdout()
			switch {
			case summary.ClosedTrades == 0:
				fmt.Fprintln(out, "No closed trades yet.")
			case len(insights) == 0:
				fmt.Fprintln(out, "Nothing stands out. Keep logging trades.")
			default:
				for _, s := range insights {
					fmt.Fprintf(out, "- %s\n", s)
				}
			}

			if !send {
				return nil
			}
			n := notify.NewNotifier(a.cfg, a.log)
			if !n.Enabled() {
				return errors.New("telegram notifications are not enabled in the config")
			}
			if err := n.NotifyInsights(summary, insights); err != nil {
				return err
			}
			fmt.Fprintln(out, "✓ Sent to Telegram")
			return nil
		},
	}

	ff.bind(c)
	c.Flags().BoolVar(&send, "notify", false, "also send the insights to Telegram")
	return c
}
