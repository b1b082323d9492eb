package journal

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanturnic/internal/state"
	"quanturnic/internal/strategy"
	"quanturnic/internal/tradelog"
	"quanturnic/pkg/db"
)

func newTestJournal(t *testing.T) (*Journal, *db.Database) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	j := New(database, Options{BatchSize: 100, FlushInterval: time.Hour})
	t.Cleanup(func() { _ = j.Close() })
	return j, database
}

func TestJournalMirrorsTrades(t *testing.T) {
	j, database := newTestJournal(t)
	ctx := context.Background()

	base := uint64(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC).UnixNano())
	j.RecordTrade(tradelog.Entry{Timestamp: base, Action: strategy.ActionBuy, Reason: "Strategy: basic, Price: 3.00", Price: 3})
	j.RecordTrade(tradelog.Entry{Timestamp: base + 1, Action: strategy.ActionSell, Reason: "Strategy: macd, Price: 1.00", Price: 1})
	j.RecordTrade(tradelog.Entry{Timestamp: base + 2, Action: strategy.ActionHold, Reason: "Strategy: foo, Price: NaN", Price: math.NaN()})
	require.NoError(t, j.Flush())

	n, err := database.CountTrades(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := database.ListTrades(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "HOLD", rows[0].Action, "newest first")
	assert.True(t, math.IsNaN(rows[0].Price))
	assert.Equal(t, base+1, rows[1].Timestamp)
	assert.Equal(t, "BUY", rows[2].Action)
	assert.Equal(t, 3.0, rows[2].Price)

	got, err := database.GetTrade(ctx, rows[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Strategy: basic, Price: 3.00", got.Reason)

	_, err = database.GetTrade(ctx, "missing")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestJournalMirrorsConfigChanges(t *testing.T) {
	j, database := newTestJournal(t)
	ctx := context.Background()

	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	j.RecordConfig(state.BotConfig{Strategy: "macd", Threshold: 1.5}, at)
	j.RecordConfig(state.BotConfig{Strategy: "basic", Threshold: math.Inf(1)}, at.Add(time.Minute))
	require.NoError(t, j.Close())

	rows, err := database.ListConfigChanges(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "basic", rows[0].Strategy)
	assert.True(t, math.IsInf(rows[0].Threshold, 1))
	assert.Equal(t, "macd", rows[1].Strategy)
	assert.Equal(t, 1.5, rows[1].Threshold)
}
