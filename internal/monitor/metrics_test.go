package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanturnic/internal/events"
	"quanturnic/internal/persistence"
	"quanturnic/internal/strategy"
)

func TestLatencyHistogramStats(t *testing.T) {
	h := NewLatencyHistogram(10)
	assert.Equal(t, LatencyStats{}, h.Stats())

	for i := 1; i <= 10; i++ {
		h.Record(float64(i))
	}
	s := h.Stats()
	assert.Equal(t, 10, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
	assert.InDelta(t, 5.5, s.Avg, 1e-9)

	// window slides: 1 drops out
	h.Record(11)
	s = h.Stats()
	assert.Equal(t, 10, s.Count)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 11.0, s.Max)
}

func TestSystemMetricsCounters(t *testing.T) {
	m := NewSystemMetrics()
	m.RecordDecision(strategy.ActionBuy)
	m.RecordDecision(strategy.ActionSell)
	m.RecordDecision(strategy.ActionHold)
	m.RecordDecision(strategy.ActionHold)
	m.RecordInsufficient()
	m.RecordAPI(2*time.Millisecond, false)
	m.RecordAPI(3*time.Millisecond, true)
	m.RecordRPC(time.Millisecond, true)
	m.IncrementJournalErrors()

	snap := m.GetSnapshot()
	assert.Equal(t, uint64(5), snap.Analyses)
	assert.Equal(t, uint64(1), snap.NotEnoughData)
	assert.Equal(t, uint64(1), snap.Buys)
	assert.Equal(t, uint64(1), snap.Sells)
	assert.Equal(t, uint64(2), snap.Holds)
	assert.Equal(t, uint64(2), snap.APIRequests)
	assert.Equal(t, uint64(1), snap.APIErrors)
	assert.Equal(t, uint64(1), snap.RPCRequests)
	assert.Equal(t, uint64(1), snap.RPCErrors)
	assert.Equal(t, uint64(1), snap.JournalErrors)
	assert.Equal(t, 2, snap.APILatency.Count)
}

type fixedJournal persistence.BatchWriterMetrics

func (f fixedJournal) Stats() persistence.BatchWriterMetrics {
	return persistence.BatchWriterMetrics(f)
}

func TestSnapshotSamplesBusAndJournal(t *testing.T) {
	m := NewSystemMetrics()
	snap := m.GetSnapshot()
	assert.Zero(t, snap.EventsDropped)
	assert.Nil(t, snap.Journal)

	bus := events.NewBus()
	_, unsub := bus.Subscribe(0, events.EventBotStatus)
	defer unsub()
	bus.Publish(events.EventBotStatus, events.BotStatus{Active: true})

	m.WatchBus(bus)
	m.WatchJournal(fixedJournal{TotalWrites: 7, TotalBatches: 2, Pending: 1})

	snap = m.GetSnapshot()
	assert.Equal(t, uint64(1), snap.EventsDropped)
	require.NotNil(t, snap.Journal)
	assert.Equal(t, uint64(7), snap.Journal.TotalWrites)
	assert.Equal(t, 1, snap.Journal.Pending)
}
