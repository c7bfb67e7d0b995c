package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/pnl"
	"github.com/rustyeddy/tradejournal/trade"
)

func TestGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	open := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	expected := closedTrade("EUR_USD", trade.Long, "1.08500", "1.08750", "1500", open)
	expected.ID = "T123"
	expected.Emotion = "confident"

	require.NoError(t, j.CreateTrade(ctx, &expected))

	actual, err := j.GetTrade(ctx, "T123")
	require.NoError(t, err)

	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Symbol, actual.Symbol)
	assert.Equal(t, expected.Direction, actual.Direction)
	assert.True(t, expected.EntryPrice.Equal(actual.EntryPrice))
	assert.True(t, expected.ExitPrice.Decimal.Equal(actual.ExitPrice.Decimal))
	assert.True(t, expected.Quantity.Equal(actual.Quantity))
	assert.True(t, actual.CreatedAt.Equal(expected.CreatedAt))
	require.NotNil(t, actual.ClosedAt)
	assert.True(t, actual.ClosedAt.Equal(*expected.ClosedAt))
	assert.Equal(t, "confident", actual.Emotion)
	assert.Nil(t, actual.Tags)

	// decimals round-trip exactly, so the engine sees the same P&L
	assert.Equal(t, pnl.TradePnL(expected), pnl.TradePnL(actual))
}

func TestGetTradeOpen(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	rec := openTrade("GBP_USD", trade.Short, "1.25", "500", time.Now())
	require.NoError(t, j.CreateTrade(ctx, &rec))

	got, err := j.GetTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, got.IsClosed())
	assert.Nil(t, got.ClosedAt)
	assert.Equal(t, 0.0, pnl.TradePnL(got))
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetTrade(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func seed(t *testing.T, j *SQLite, trades ...trade.Trade) []trade.Trade {
	t.Helper()
	for i := range trades {
		require.NoError(t, j.CreateTrade(context.Background(), &trades[i]))
	}
	return trades
}

func ids(trades []trade.Trade) []string {
	out := make([]string, len(trades))
	for i, tr := range trades {
		out[i] = tr.ID
	}
	return out
}

func TestListTradesOrdering(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	baseTime := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// inserted out of order
	t3 := openTrade("USD_JPY", trade.Long, "150", "2000", baseTime.Add(10*time.Hour))
	t3.ID = "T3"
	t1 := openTrade("EUR_USD", trade.Long, "1.08", "1000", baseTime.Add(2*time.Hour))
	t1.ID = "T1"
	t2 := openTrade("GBP_USD", trade.Long, "1.25", "500", baseTime.Add(5*time.Hour))
	t2.ID = "T2"
	seed(t, j, t3, t1, t2)

	results, err := j.ListTrades(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, ids(results))
}

func TestListTradesFilters(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	baseTime := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	a := closedTrade("ES", trade.Long, "5000", "5010", "1", baseTime)
	a.ID = "A"
	b := openTrade("ES", trade.Short, "5020", "1", baseTime.Add(time.Hour))
	b.ID = "B"
	c := closedTrade("NQ", trade.Long, "18000", "17950", "1", baseTime.Add(2*time.Hour))
	c.ID = "C"
	d := closedTrade("ES", trade.Short, "5030", "5000", "2", baseTime.Add(24*time.Hour))
	d.ID = "D"
	seed(t, j, a, b, c, d)

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"all", Filter{}, []string{"A", "B", "C", "D"}},
		{"symbol", Filter{Symbol: "ES"}, []string{"A", "B", "D"}},
		{"open", Filter{Status: StatusOpen}, []string{"B"}},
		{"closed", Filter{Status: StatusClosed}, []string{"A", "C", "D"}},
		{"window", Filter{From: baseTime.Add(time.Hour), To: baseTime.Add(24 * time.Hour)}, []string{"B", "C"}},
		{"from_inclusive", Filter{From: baseTime.Add(24 * time.Hour)}, []string{"D"}},
		{"to_exclusive", Filter{To: baseTime}, []string{}},
		{"combined", Filter{Symbol: "ES", Status: StatusClosed, From: baseTime.Add(time.Minute)}, []string{"D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.ListTrades(ctx, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestListTradesEmpty(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	results, err := j.ListTrades(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListTradesClosedBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	baseTime := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// closedTrade closes one hour after the open time
	early := closedTrade("EUR_USD", trade.Long, "1.08", "1.081", "1000", baseTime)
	early.ID = "T1"
	middle := closedTrade("GBP_USD", trade.Long, "1.25", "1.252", "500", baseTime.Add(4*time.Hour))
	middle.ID = "T2"
	late := closedTrade("USD_JPY", trade.Long, "150", "150.25", "2000", baseTime.Add(9*time.Hour))
	late.ID = "T3"
	nextDay := closedTrade("AUD_USD", trade.Long, "0.65", "0.651", "750", baseTime.Add(23*time.Hour))
	nextDay.ID = "T4"
	stillOpen := openTrade("USD_CAD", trade.Long, "1.35", "100", baseTime.Add(5*time.Hour))
	stillOpen.ID = "T5"
	seed(t, j, late, early, nextDay, middle, stillOpen)

	// 03:00 to 12:00 on May 1
	results, err := j.ListTradesClosedBetween(context.Background(), baseTime.Add(3*time.Hour), baseTime.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"T2", "T3"}, ids(results))
}

func TestListTradesClosedBetweenBoundaries(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	opened := time.Date(2024, 7, 1, 11, 0, 0, 0, time.UTC)
	rec := closedTrade("EUR_USD", trade.Long, "1.08", "1.081", "1000", opened)
	closeAt := *rec.ClosedAt
	seed(t, j, rec)

	results, err := j.ListTradesClosedBetween(ctx, closeAt, closeAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, results, 1, "start is inclusive")

	results, err = j.ListTradesClosedBetween(ctx, closeAt.Add(-time.Hour), closeAt)
	require.NoError(t, err)
	assert.Empty(t, results, "end is exclusive")
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Status{"": StatusAll, "all": StatusAll, "open": StatusOpen, "closed": StatusClosed} {
		got, err := ParseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStatus("pending")
	assert.Error(t, err)
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	f, err := ParseFilter(" ES ", "closed", "2024-05-01", "2024-05-31")
	require.NoError(t, err)
	assert.Equal(t, "ES", f.Symbol)
	assert.Equal(t, StatusClosed, f.Status)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), f.From)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), f.To, "bare to date covers the whole day")

	f, err = ParseFilter("", "", "2024-05-01T13:00:00Z", "2024-05-01T14:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC), f.To)

	f, err = ParseFilter("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, Filter{}, f)

	_, err = ParseFilter("", "", "May 1", "")
	assert.ErrorContains(t, err, "from")
	_, err = ParseFilter("", "", "", "tomorrow")
	assert.ErrorContains(t, err, "to")
	_, err = ParseFilter("", "pending", "", "")
	assert.Error(t, err)
}
