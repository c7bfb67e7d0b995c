package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
)

// filterFlags are the trade selection flags shared by the read commands.
type filterFlags struct {
	symbol string
	status string
	from   string
	to     string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.symbol, "symbol", "s", "", "only trades in this symbol")
	cmd.Flags().StringVar(&f.status, "status", "", "open, closed or all")
	cmd.Flags().StringVar(&f.from, "from", "", "created on or after (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&f.to, "to", "", "created on or before (YYYY-MM-DD or RFC3339)")
}

func (f *filterFlags) filter() (journal.Filter, error) {
	return journal.ParseFilter(f.symbol, f.status, f.from, f.to)
}

// parseWhen reads a point in time in the local zone. Empty means zero.
func parseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return time.Time{}, nil
	case "now":
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	if day == "today" {
		day = time.Now().In(loc).Format(time.DateOnly)
	}
	t, err := time.ParseInLocation(time.DateOnly, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}

// openOutput returns stdout for "" or "-" and a new file otherwise.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
