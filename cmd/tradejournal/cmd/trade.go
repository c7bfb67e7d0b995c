package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/internal/notify"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pnl"
	"github.com/rustyeddy/tradejournal/trade"
)

func newTradeCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "trade",
		Short: "Record and review trades",
		Long: `Record, close and review trades in the SQLite journal.

Subcommands:
  add    - Record a new trade (open, or closed with --exit)
  close  - Record the exit of an open trade
  show   - Print a trade as an Org-mode entry
  rm     - Delete a trade
  list   - List trades

Examples:
  tradejournal trade add -s AAPL --direction long --entry 187.25 --qty 10
  tradejournal trade close 01HN3Z8K4W --exit 190.10
  tradejournal trade list --closed-on today`,
	}

	c.AddCommand(
		newTradeAddCmd(a),
		newTradeCloseCmd(a),
		newTradeShowCmd(a),
		newTradeRmCmd(a),
		newTradeListCmd(a),
	)
	return c
}

func newTradeAddCmd(a *app) *cobra.Command {
	var (
		symbol, direction string
		entry, exit, qty  string
		at, closedAt      string
		tags              []string
		emotion, notes    string
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Record a new trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := trade.ParseDirection(direction)
			if err != nil {
				return err
			}
			entryPrice, err := decimal.NewFromString(entry)
			if err != nil {
				return fmt.Errorf("entry: %w", err)
			}
			quantity, err := decimal.NewFromString(qty)
			if err != nil {
				return fmt.Errorf("qty: %w", err)
			}
			created, err := parseWhen(at)
			if err != nil {
				return fmt.Errorf("at: %w", err)
			}

			t := trade.Trade{
				Symbol:     symbol,
				Direction:  dir,
				EntryPrice: entryPrice,
				Quantity:   quantity,
				CreatedAt:  created,
				Tags:       tags,
				Emotion:    emotion,
				Notes:      notes,
			}

			if exit != "" {
				exitPrice, err := decimal.NewFromString(exit)
				if err != nil {
					return fmt.Errorf("exit: %w", err)
				}
				closed, err := parseWhen(closedAt)
				if err != nil {
					return fmt.Errorf("closed-at: %w", err)
				}
				if closed.IsZero() {
					closed = time.Now()
				}
				if t.CreatedAt.IsZero() {
					t.CreatedAt = closed
				}
				t = t.Close(exitPrice, closed)
			}

			j, err := a.openStore()
			if err != nil {
				return err
			}
			defer j.Close()

			if err := j.CreateTrade(cmd.Context(), &t); err != nil {
				return fmt.Errorf("add trade: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t))
			return nil
		},
	}

	c.Flags().StringVarP(&symbol, "symbol", "s", "", "instrument symbol (required)")
	c.Flags().StringVar(&direction, "direction", "long", "long|short (buy|sell)")
	c.Flags().StringVar(&entry, "entry", "", "entry price (required)")
	c.Flags().StringVar(&qty, "qty", "", "quantity (required)")
	c.Flags().StringVar(&exit, "exit", "", "exit price; records the trade as closed")
	c.Flags().StringVar(&at, "at", "", "open time (default now)")
	c.Flags().StringVar(&closedAt, "closed-at", "", "close time when --exit is set (default now)")
	c.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag, repeatable")
	c.Flags().StringVar(&emotion, "emotion", "", "how you felt taking the trade")
	c.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = c.MarkFlagRequired("symbol")
	_ = c.MarkFlagRequired("entry")
	_ = c.MarkFlagRequired("qty")
	return c
}

func newTradeCloseCmd(a *app) *cobra.Command {
	var exit, at string

	c := &cobra.Command{
		Use:   "close <trade-id>",
		Short: "Record the exit of an open trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exitPrice, err := decimal.NewFromString(exit)
			if err != nil {
				return fmt.Errorf("exit: %w", err)
			}
			when, err := parseWhen(at)
			if err != nil {
				return fmt.Errorf("at: %w", err)
			}

			j, err := a.openStore()
			if err != nil {
				return err
			}
			defer j.Close()

			t, err := j.CloseTrade(cmd.Context(), args[0], exitPrice, when)
			if err != nil {
				return fmt.Errorf("close trade: %w", err)
			}

			n := notify.NewNotifier(a.cfg, a.log)
			if err := n.NotifyTradeClosed(t); err != nil {
				a.log.Warn("trade close notification failed", "trade_id", t.ID, "error", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t))
			return nil
		},
	}

	c.Flags().StringVar(&exit, "exit", "", "exit price (required)")
	c.Flags().StringVar(&at, "at", "", "close time (default now)")
	_ = c.MarkFlagRequired("exit")
	return c
}

func newTradeShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Print a trade as an Org-mode entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openStore()
			if err != nil {
				return err
			}
			defer j.Close()

			rec, err := j.GetTrade(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
			return nil
		},
	}
}

func newTradeRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <trade-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a trade",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openStore()
			if err != nil {
				return err
			}
			defer j.Close()

			if err := j.DeleteTrade(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete trade: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted trade %s\n", args[0])
			return nil
		},
	}
}

func newTradeListCmd(a *app) *cobra.Command {
	var (
		ff       filterFlags
		closedOn string
		org      bool
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List trades",
		Long: `List trades, oldest first.

--closed-on selects the trades closed on one local calendar day
("today" or YYYY-MM-DD) and ignores the other filters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openStore()
			if err != nil {
				return err
			}
			defer j.Close()

			var recs []trade.Trade
			if closedOn != "" {
				start, end, err := dayBounds(time.Local, closedOn)
				if err != nil {
					return fmt.Errorf("date: %w", err)
				}
				recs, err = j.ListTradesClosedBetween(cmd.Context(), start, end)
				if err != nil {
					return fmt.Errorf("query trades: %w", err)
				}
			} else {
				f, err := ff.filter()
				if err != nil {
					return err
				}
				recs, err = j.ListTrades(cmd.Context(), f)
				if err != nil {
					return fmt.Errorf("query trades: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if org {
				fmt.Fprintln(out, journal.FormatTradesOrg(recs))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSYMBOL\tSIDE\tQTY\tENTRY\tEXIT\tP&L\tCREATED")
			for _, t := range recs {
				exit, p := "-", "-"
				if t.IsClosed() {
					exit = t.ExitPrice.Decimal.String()
					p = fmt.Sprintf("%.2f", pnl.TradePnL(t))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Symbol, t.Direction, t.Quantity, t.EntryPrice, exit, p,
					t.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	ff.bind(c)
	c.Flags().StringVar(&closedOn, "closed-on", "", `trades closed on a day ("today" or YYYY-MM-DD)`)
	c.Flags().BoolVar(&org, "org", false, "print Org-mode entries instead of a table")
	return c
}
