package tradelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanturnic/internal/strategy"
)

func TestAppendKeepsOrder(t *testing.T) {
	l := New()
	l.Append(Entry{Timestamp: 10, Action: strategy.ActionBuy, Price: 1})
	l.Append(Entry{Timestamp: 20, Action: strategy.ActionSell, Price: 2})
	l.Append(Entry{Timestamp: 30, Action: strategy.ActionHold, Price: 3})

	got := l.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, []strategy.Action{strategy.ActionBuy, strategy.ActionSell, strategy.ActionHold},
		[]strategy.Action{got[0].Action, got[1].Action, got[2].Action})
	assert.Equal(t, 3, l.Len())
}

func TestAppendMonotonicTimestamps(t *testing.T) {
	l := New()
	l.Append(Entry{Timestamp: 100})
	second := l.Append(Entry{Timestamp: 100})
	third := l.Append(Entry{Timestamp: 50})

	assert.Equal(t, uint64(101), second.Timestamp)
	assert.Equal(t, uint64(102), third.Timestamp)
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New()
	l.Append(Entry{Timestamp: 1, Reason: "original"})

	snap := l.Snapshot()
	snap[0].Reason = "mutated"

	assert.Equal(t, "original", l.Snapshot()[0].Reason)
}
