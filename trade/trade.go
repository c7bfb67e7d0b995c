package trade

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// ParseDirection accepts long/short and the buy/sell aliases, ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return Long, nil
	case "short", "sell":
		return Short, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Trade is a single journal entry. ExitPrice is null while the position
// is still open.
type Trade struct {
	ID         string              `json:"id"`
	Symbol     string              `json:"symbol"`
	Direction  Direction           `json:"direction"`
	EntryPrice decimal.Decimal     `json:"entry_price"`
	ExitPrice  decimal.NullDecimal `json:"exit_price"`
	Quantity   decimal.Decimal     `json:"quantity"`
	CreatedAt  time.Time           `json:"created_at"`
	ClosedAt   *time.Time          `json:"closed_at,omitempty"`

	// Descriptive only, never used in P&L.
	Tags    []string `json:"tags,omitempty"`
	Emotion string   `json:"emotion,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

func (t Trade) IsClosed() bool {
	return t.ExitPrice.Valid
}

// Close records the exit. It returns a copy; the receiver is untouched.
func (t Trade) Close(exit decimal.Decimal, at time.Time) Trade {
	t.ExitPrice = decimal.NewNullDecimal(exit)
	at = at.UTC()
	t.ClosedAt = &at
	return t
}

var (
	ErrNoSymbol      = errors.New("symbol is required")
	ErrBadDirection  = errors.New("direction must be long or short")
	ErrEntryPrice    = errors.New("entry_price must be positive")
	ErrExitPrice     = errors.New("exit_price must be positive")
	ErrQuantity      = errors.New("quantity must be positive")
	ErrClosedNoExit  = errors.New("closed_at set without exit_price")
	ErrClosedOutside = errors.New("closed_at before created_at")
)

// IsInvalid reports whether err came from Validate.
func IsInvalid(err error) bool {
	for _, e := range []error{ErrNoSymbol, ErrBadDirection, ErrEntryPrice, ErrExitPrice, ErrQuantity, ErrClosedNoExit, ErrClosedOutside} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// Validate is the data-integrity gate applied before a trade is stored.
func (t Trade) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return ErrNoSymbol
	}
	if t.Direction != Long && t.Direction != Short {
		return ErrBadDirection
	}
	if !t.EntryPrice.IsPositive() {
		return ErrEntryPrice
	}
	if !t.Quantity.IsPositive() {
		return ErrQuantity
	}
	if t.ExitPrice.Valid && !t.ExitPrice.Decimal.IsPositive() {
		return ErrExitPrice
	}
	if t.ClosedAt != nil {
		if !t.ExitPrice.Valid {
			return ErrClosedNoExit
		}
		if !t.CreatedAt.IsZero() && t.ClosedAt.Before(t.CreatedAt) {
			return ErrClosedOutside
		}
	}
	return nil
}

// SortByCreated orders trades oldest first. Ties keep their relative order.
func SortByCreated(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].CreatedAt.Before(trades[j].CreatedAt)
	})
}

// Closed returns the trades with an exit price, in the given order.
func Closed(trades []Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			out = append(out, t)
		}
	}
	return out
}
