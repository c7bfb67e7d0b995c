package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/rustyeddy/tradejournal/trade"
)

// SQLite is the Store backed by a single SQLite file.
type SQLite struct {
	db  *sql.DB
	log *logger.Logger
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the journal at path and applies
// the schema. log may be nil.
func NewSQLite(path string, log *logger.Logger) (*SQLite, error) {
	if log == nil {
		log = logger.Discard()
	}

	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.Debug("journal opened", "path", path)
	return &SQLite{db: db, log: log}, nil
}

// CreateTrade validates and inserts t. An empty ID is filled from the
// trade's open time, and a zero CreatedAt becomes now.
func (j *SQLite) CreateTrade(ctx context.Context, t *trade.Trade) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.CreatedAt = t.CreatedAt.UTC()
	if t.ID == "" {
		t.ID = id.At(t.CreatedAt)
	}
	if err := t.Validate(); err != nil {
		return err
	}

	tags, err := encodeTags(t.Tags)
	if err != nil {
		return err
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, symbol, direction, entry_price, exit_price, quantity, created_at, closed_at, tags, emotion, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, string(t.Direction), t.EntryPrice, t.ExitPrice, t.Quantity,
		t.CreatedAt, nullTime(t.ClosedAt), tags, t.Emotion, t.Notes,
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %s", ErrDuplicate, t.ID)
		}
		return fmt.Errorf("insert trade %s: %w", t.ID, err)
	}

	j.log.Info("trade recorded", "trade_id", t.ID, "symbol", t.Symbol, "direction", t.Direction)
	return nil
}

// UpdateTrade replaces every column of an existing trade. A zero
// CreatedAt keeps the stored open time, which fixes the trade's place
// in every list; t is updated to match.
func (j *SQLite) UpdateTrade(ctx context.Context, t *trade.Trade) error {
	if t.CreatedAt.IsZero() {
		stored, err := j.GetTrade(ctx, t.ID)
		if err != nil {
			return err
		}
		t.CreatedAt = stored.CreatedAt
	}
	t.CreatedAt = t.CreatedAt.UTC()
	if err := t.Validate(); err != nil {
		return err
	}
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return err
	}

	res, err := j.db.ExecContext(ctx, `
		UPDATE trades SET
			symbol = ?, direction = ?, entry_price = ?, exit_price = ?, quantity = ?,
			created_at = ?, closed_at = ?, tags = ?, emotion = ?, notes = ?
		WHERE trade_id = ?`,
		t.Symbol, string(t.Direction), t.EntryPrice, t.ExitPrice, t.Quantity,
		t.CreatedAt, nullTime(t.ClosedAt), tags, t.Emotion, t.Notes, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update trade %s: %w", t.ID, err)
	}
	if err := expectOne(res, t.ID); err != nil {
		return err
	}

	j.log.Info("trade updated", "trade_id", t.ID)
	return nil
}

// CloseTrade records the exit of an open trade.
func (j *SQLite) CloseTrade(ctx context.Context, tradeID string, exit decimal.Decimal, at time.Time) (trade.Trade, error) {
	t, err := j.GetTrade(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, err
	}
	if t.IsClosed() {
		return trade.Trade{}, fmt.Errorf("%w: %s", ErrAlreadyClosed, tradeID)
	}
	if at.IsZero() {
		at = time.Now()
	}

	t = t.Close(exit, at)
	if err := j.UpdateTrade(ctx, &t); err != nil {
		return trade.Trade{}, err
	}
	return t, nil
}

func (j *SQLite) DeleteTrade(ctx context.Context, tradeID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade %s: %w", tradeID, err)
	}
	if err := expectOne(res, tradeID); err != nil {
		return err
	}

	j.log.Info("trade deleted", "trade_id", tradeID)
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func expectOne(res sql.Result, tradeID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, tradeID)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}
