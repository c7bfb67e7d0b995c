package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/rustyeddy/tradejournal/trade"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path, nil)
	require.NoError(t, err)

	return j, path
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func openTrade(symbol string, dir trade.Direction, entry, qty string, created time.Time) trade.Trade {
	return trade.Trade{
		Symbol:     symbol,
		Direction:  dir,
		EntryPrice: dec(entry),
		Quantity:   dec(qty),
		CreatedAt:  created,
	}
}

func closedTrade(symbol string, dir trade.Direction, entry, exit, qty string, created time.Time) trade.Trade {
	return openTrade(symbol, dir, entry, qty, created).Close(dec(exit), created.Add(time.Hour))
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = 'trades'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "trades", name)
}

func TestSQLiteReopenKeepsTrades(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	ctx := context.Background()

	rec := openTrade("AAPL", trade.Long, "187.25", "10", time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC))
	require.NoError(t, j.CreateTrade(ctx, &rec))
	require.NoError(t, j.Close())

	j2, err := NewSQLite(path, nil)
	require.NoError(t, err)
	defer j2.Close()

	got, err := j2.GetTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
}

func TestSQLiteCreateTrade(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	ctx := context.Background()

	open := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := closedTrade("EUR_USD", trade.Short, "1.2345678", "1.2256789", "123.456", open)
	rec.Tags = []string{"breakout", "london"}
	rec.Emotion = "calm"
	rec.Notes = "waited for the retest"

	require.NoError(t, j.CreateTrade(ctx, &rec))
	assert.True(t, id.Valid(rec.ID))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		tradeID, symbol, direction string
		entry, exit, qty           string
		createdAt, closedAt        time.Time
		tags, emotion, notes       string
	)

	err = db.QueryRow(`
        SELECT trade_id, symbol, direction, entry_price, exit_price, quantity,
               created_at, closed_at, tags, emotion, notes
        FROM trades LIMIT 1`).Scan(
		&tradeID, &symbol, &direction, &entry, &exit, &qty, &createdAt, &closedAt, &tags, &emotion, &notes,
	)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, tradeID)
	assert.Equal(t, "EUR_USD", symbol)
	assert.Equal(t, "short", direction)
	assert.Equal(t, "1.2345678", entry)
	assert.Equal(t, "1.2256789", exit)
	assert.Equal(t, "123.456", qty)
	assert.True(t, createdAt.Equal(open))
	assert.True(t, closedAt.Equal(open.Add(time.Hour)))
	assert.Equal(t, `["breakout","london"]`, tags)
	assert.Equal(t, "calm", emotion)
	assert.Equal(t, "waited for the retest", notes)
}

func TestSQLiteCreateTradeDefaults(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	before := time.Now().Add(-time.Second)
	rec := trade.Trade{Symbol: "BTCUSD", Direction: trade.Long, EntryPrice: dec("42000"), Quantity: dec("0.05")}
	require.NoError(t, j.CreateTrade(context.Background(), &rec))

	assert.NotEmpty(t, rec.ID)
	assert.True(t, rec.CreatedAt.After(before))
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
}

func TestSQLiteCreateTradeRejectsInvalid(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	rec := trade.Trade{Symbol: "AAPL", Direction: trade.Long, Quantity: dec("1")}
	err := j.CreateTrade(context.Background(), &rec)
	assert.ErrorIs(t, err, trade.ErrEntryPrice)
}

func TestSQLiteCreateTradeDuplicate(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	rec := openTrade("AAPL", trade.Long, "100", "1", time.Now())
	rec.ID = "T1"
	require.NoError(t, j.CreateTrade(ctx, &rec))

	dup := rec
	err := j.CreateTrade(ctx, &dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSQLiteUpdateTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	rec := openTrade("TSLA", trade.Long, "250", "4", time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC))
	require.NoError(t, j.CreateTrade(ctx, &rec))

	rec.Notes = "moved stop to breakeven"
	rec.Tags = []string{"earnings"}
	rec.Quantity = dec("2")
	require.NoError(t, j.UpdateTrade(ctx, &rec))

	got, err := j.GetTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "moved stop to breakeven", got.Notes)
	assert.Equal(t, []string{"earnings"}, got.Tags)
	assert.True(t, got.Quantity.Equal(dec("2")))
}

func TestSQLiteUpdateTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	rec := openTrade("TSLA", trade.Long, "250", "4", time.Now())
	rec.ID = "missing"
	assert.ErrorIs(t, j.UpdateTrade(context.Background(), &rec), ErrNotFound)

	rec.CreatedAt = time.Time{}
	assert.ErrorIs(t, j.UpdateTrade(context.Background(), &rec), ErrNotFound)
}

func TestSQLiteUpdateTradeKeepsCreatedAt(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	first := closedTrade("ES", trade.Long, "100", "200", "1", time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC))
	require.NoError(t, j.CreateTrade(ctx, &first))
	opened := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	second := closedTrade("ES", trade.Long, "100", "50", "1", opened)
	require.NoError(t, j.CreateTrade(ctx, &second))

	edit := second
	edit.CreatedAt = time.Time{}
	edit.Notes = "chased the open"
	require.NoError(t, j.UpdateTrade(ctx, &edit))
	assert.True(t, edit.CreatedAt.Equal(opened))

	got, err := j.GetTrade(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(opened))
	assert.Equal(t, "chased the open", got.Notes)

	list, err := j.ListTrades(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{first.ID, second.ID}, []string{list[0].ID, list[1].ID})
}

func TestSQLiteCloseTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	opened := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
	rec := openTrade("NVDA", trade.Short, "880", "5", opened)
	require.NoError(t, j.CreateTrade(ctx, &rec))

	at := opened.Add(90 * time.Minute)
	closed, err := j.CloseTrade(ctx, rec.ID, dec("861.5"), at)
	require.NoError(t, err)
	assert.True(t, closed.IsClosed())

	got, err := j.GetTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.ExitPrice.Decimal.Equal(dec("861.5")))
	require.NotNil(t, got.ClosedAt)
	assert.True(t, got.ClosedAt.Equal(at))

	_, err = j.CloseTrade(ctx, rec.ID, dec("850"), at)
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	_, err = j.CloseTrade(ctx, "missing", dec("1"), at)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCloseTradeRejectsBadExit(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	rec := openTrade("NVDA", trade.Long, "880", "5", time.Now())
	require.NoError(t, j.CreateTrade(ctx, &rec))

	_, err := j.CloseTrade(ctx, rec.ID, dec("-1"), time.Now())
	assert.ErrorIs(t, err, trade.ErrExitPrice)

	got, err := j.GetTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, got.IsClosed())
}

func TestSQLiteDeleteTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	rec := openTrade("AMD", trade.Long, "160", "10", time.Now())
	require.NoError(t, j.CreateTrade(ctx, &rec))

	require.NoError(t, j.DeleteTrade(ctx, rec.ID))
	_, err := j.GetTrade(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, j.DeleteTrade(ctx, rec.ID), ErrNotFound)
}
