// journal/journal.go
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradejournal/trade"
)

var (
	ErrNotFound      = errors.New("trade not found")
	ErrDuplicate     = errors.New("trade already exists")
	ErrAlreadyClosed = errors.New("trade already closed")
)

// Status selects open, closed or all trades in a Filter.
type Status string

const (
	StatusAll    Status = ""
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAll, StatusOpen, StatusClosed:
		return Status(s), nil
	case "all":
		return StatusAll, nil
	}
	return "", errors.New("status must be open, closed or all")
}

// Filter narrows ListTrades. Zero values match everything; From/To bound
// created_at as [From, To).
type Filter struct {
	Symbol string
	Status Status
	From   time.Time
	To     time.Time
}

// ParseFilter builds a Filter from text, as given on the command line or
// in a query string. from and to take RFC3339 or YYYY-MM-DD; a bare to
// date includes that whole day.
func ParseFilter(symbol, status, from, to string) (Filter, error) {
	var (
		f   Filter
		err error
	)
	f.Symbol = strings.TrimSpace(symbol)
	if f.Status, err = ParseStatus(status); err != nil {
		return f, err
	}
	if f.From, err = parseBound(from, false); err != nil {
		return f, fmt.Errorf("from: %w", err)
	}
	if f.To, err = parseBound(to, true); err != nil {
		return f, fmt.Errorf("to: %w", err)
	}
	return f, nil
}

func parseBound(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", s)
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1)
	}
	return d, nil
}

// Store is the data-access layer the CLI and HTTP API work against.
// List methods return trades ordered by created_at ascending, the order
// the pnl engine expects.
type Store interface {
	CreateTrade(ctx context.Context, t *trade.Trade) error
	GetTrade(ctx context.Context, id string) (trade.Trade, error)
	UpdateTrade(ctx context.Context, t *trade.Trade) error
	CloseTrade(ctx context.Context, id string, exit decimal.Decimal, at time.Time) (trade.Trade, error)
	DeleteTrade(ctx context.Context, id string) error
	ListTrades(ctx context.Context, f Filter) ([]trade.Trade, error)
	Close() error
}
