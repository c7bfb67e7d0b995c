package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pnl"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		ff     filterFlags
		title  string
		output string
		chart  bool
	)

	c := &cobra.Command{
		Use:   "report",
		Short: "Write an Org-mode performance report",
		Long: `Compute the performance report for the selected trades, write it as an
Org-mode file and print a plain-text summary.

The report goes to report.dir from the config unless --output is set.
With --chart an equity curve PNG is written next to it and linked
from the report.

Examples:
  tradejournal report --from 2024-01-01 --to 2024-03-31 --chart
  tradejournal report -s ES -o es.org`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := a.loadTrades(cmd, &ff)
			if err != nil {
				return err
			}

			if output == "" {
				output = filepath.Join(a.cfg.Report.Dir, "report-"+time.Now().Format("20060102-150405")+".org")
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return fmt.Errorf("report dir: %w", err)
			}

			r := journal.NewReport(title, trades)

			if chart {
				curve := pnl.EquityCurve(trades)
				if len(curve) == 0 {
					a.log.Warn("no closed trades, skipping equity chart")
				} else {
					png := strings.TrimSuffix(output, filepath.Ext(output)) + "-equity.png"
					if err := journal.SaveEquityChart(png, curve); err != nil {
						return err
					}
					// relative, so the link survives moving the pair
					r.EquityPNG = filepath.Base(png)
				}
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			if err := r.WriteOrg(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			journal.PrintReport(out, r)
			fmt.Fprintf(out, "✓ Wrote report: %s\n", output)
			return nil
		},
	}

	ff.bind(c)
	c.Flags().StringVar(&title, "title", "Trading Performance", "report title")
	c.Flags().StringVarP(&output, "output", "o", "", "Org file to write (default under report.dir)")
	c.Flags().BoolVar(&chart, "chart", false, "also write an equity curve PNG")
	return c
}
