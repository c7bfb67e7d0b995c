package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pnl"
	"github.com/rustyeddy/tradejournal/trade"
)

func newExportCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "export",
		Short: "Export trades, metrics or the equity curve as CSV",
		Long: `Write journal data as CSV to a file or stdout.

Subcommands:
  trades  - One row per trade with its realized P&L
  metrics - Summary and advanced metrics as metric,value rows
  equity  - The cumulative P&L curve, one row per closed trade

Examples:
  tradejournal export trades -o trades.csv
  tradejournal export equity --symbol ES`,
	}

	c.AddCommand(
		newExportSubCmd(a, "trades", "Export trades", func(w io.Writer, trades []trade.Trade) error {
			return journal.WriteTradesCSV(w, trades)
		}),
		newExportSubCmd(a, "metrics", "Export summary and advanced metrics", func(w io.Writer, trades []trade.Trade) error {
			return journal.WriteMetricsCSV(w, pnl.Compute(trades), pnl.Summarize(trades))
		}),
		newExportSubCmd(a, "equity", "Export the equity curve", func(w io.Writer, trades []trade.Trade) error {
			return journal.WriteEquityCSV(w, pnl.EquityCurve(trades))
		}),
	)
	return c
}

func newExportSubCmd(a *app, use, short string, write func(io.Writer, []trade.Trade) error) *cobra.Command {
	var (
		ff     filterFlags
		output string
	)

	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := a.loadTrades(cmd, &ff)
			if err != nil {
				return err
			}

			w, closeFn, err := openOutput(cmd, output)
			if err != nil {
				return fmt.Errorf("open output: %w", err)
			}
			if err := write(w, trades); err != nil {
				closeFn()
				return fmt.Errorf("export %s: %w", use, err)
			}
			if err := closeFn(); err != nil {
				return err
			}

			a.log.Info("exported", "what", use, "trades", len(trades), "output", output)
			return nil
		},
	}

	ff.bind(c)
	c.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return c
}
