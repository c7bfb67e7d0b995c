package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/trade"
)

const selectTrade = `
	SELECT trade_id, symbol, direction, entry_price, exit_price, quantity,
	       created_at, closed_at, tags, emotion, notes
	FROM trades`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (trade.Trade, error) {
	var (
		rec       trade.Trade
		direction string
		closedAt  sql.NullTime
		tags      string
	)
	err := s.Scan(
		&rec.ID,
		&rec.Symbol,
		&direction,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.Quantity,
		&rec.CreatedAt,
		&closedAt,
		&tags,
		&rec.Emotion,
		&rec.Notes,
	)
	if err != nil {
		return trade.Trade{}, err
	}

	rec.Direction = trade.Direction(direction)
	rec.CreatedAt = rec.CreatedAt.UTC()
	if closedAt.Valid {
		at := closedAt.Time.UTC()
		rec.ClosedAt = &at
	}
	if tags != "" && tags != "[]" {
		if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
			return trade.Trade{}, fmt.Errorf("decode tags of %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (trade.Trade, error) {
	row := j.db.QueryRowContext(ctx, selectTrade+` WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trade.Trade{}, fmt.Errorf("%w: %q", ErrNotFound, tradeID)
		}
		return trade.Trade{}, err
	}
	return rec, nil
}

// ListTrades returns the trades matching f, oldest first.
func (j *SQLite) ListTrades(ctx context.Context, f Filter) ([]trade.Trade, error) {
	var (
		where []string
		args  []any
	)
	if f.Symbol != "" {
		where = append(where, "symbol = ?")
		args = append(args, f.Symbol)
	}
	switch f.Status {
	case StatusOpen:
		where = append(where, "exit_price IS NULL")
	case StatusClosed:
		where = append(where, "exit_price IS NOT NULL")
	}
	if !f.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		where = append(where, "created_at < ?")
		args = append(args, f.To.UTC())
	}

	q := selectTrade
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at ASC, trade_id ASC"

	return j.query(ctx, q, args...)
}

// ListTradesClosedBetween returns trades whose closed_at is within [start, end),
// in the order they were closed.
func (j *SQLite) ListTradesClosedBetween(ctx context.Context, start, end time.Time) ([]trade.Trade, error) {
	return j.query(ctx, selectTrade+`
		WHERE closed_at >= ? AND closed_at < ?
		ORDER BY closed_at ASC, trade_id ASC`, start.UTC(), end.UTC())
}

func (j *SQLite) query(ctx context.Context, q string, args ...any) ([]trade.Trade, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var out []trade.Trade
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
