package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/journal"
)

// skipConfig marks commands that run without loading the config file.
const skipConfig = "skip-config"

// app carries the state shared by every subcommand.
type app struct {
	cfgFile string
	dbPath  string

	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tradejournal",
		Short: "A trading journal with performance analytics",
		Long: `Tradejournal records discretionary trades and turns them into
performance analytics.

It provides tools for:
  - Recording, closing and reviewing trades in a SQLite journal
  - Risk-adjusted metrics (Sharpe, Sortino, max drawdown, profit factor)
  - Plain-English insights on the results
  - CSV exports, Org-mode reports and equity curve charts
  - A JSON API over the journal`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML or JSON)")
	root.PersistentFlags().StringVarP(&a.dbPath, "db", "d", "", "path to SQLite journal DB (overrides config)")

	root.AddCommand(
		newTradeCmd(a),
		newMetricsCmd(a),
		newInsightsCmd(a),
		newExportCmd(a),
		newReportCmd(a),
		newServeCmd(a),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Journal.DBPath = a.dbPath
	}
	a.cfg = cfg
	a.log = logger.NewWriter(cmd.ErrOrStderr(), cfg.Logging.Level)
	return nil
}

func (a *app) openStore() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(a.cfg.Journal.DBPath, a.log)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}
