package monitor

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"quanturnic/internal/events"
	"quanturnic/internal/persistence"
	"quanturnic/internal/strategy"
)

// JournalStatter reports the journal's batch writer counters.
type JournalStatter interface {
	Stats() persistence.BatchWriterMetrics
}

// SystemMetrics tracks request and analysis activity.
type SystemMetrics struct {
	// Latency histograms
	AnalysisLatency *LatencyHistogram
	APILatency      *LatencyHistogram
	RPCLatency      *LatencyHistogram

	// Counters
	analyses      atomic.Uint64
	insufficient  atomic.Uint64
	buys          atomic.Uint64
	sells         atomic.Uint64
	holds         atomic.Uint64
	apiRequests   atomic.Uint64
	apiErrors     atomic.Uint64
	rpcRequests   atomic.Uint64
	rpcErrors     atomic.Uint64
	journalErrors atomic.Uint64

	// Sources sampled on every snapshot
	sourcesMu sync.RWMutex
	bus       *events.Bus
	journal   JournalStatter

	startedAt time.Time
}

// WatchBus includes the bus drop counter in snapshots.
func (m *SystemMetrics) WatchBus(b *events.Bus) {
	m.sourcesMu.Lock()
	m.bus = b
	m.sourcesMu.Unlock()
}

// WatchJournal includes the journal writer counters in snapshots.
func (m *SystemMetrics) WatchJournal(j JournalStatter) {
	m.sourcesMu.Lock()
	m.journal = j
	m.sourcesMu.Unlock()
}

// LatencyHistogram tracks latency samples in a sliding window.
// Stats are computed lazily and cached until the next sample.
type LatencyHistogram struct {
	mu          sync.Mutex
	samples     []float64
	maxSize     int
	dirty       bool
	cachedStats LatencyStats
}

// NewSystemMetrics creates a new metrics instance.
func NewSystemMetrics() *SystemMetrics {
	return &SystemMetrics{
		AnalysisLatency: NewLatencyHistogram(1000),
		APILatency:      NewLatencyHistogram(1000),
		RPCLatency:      NewLatencyHistogram(1000),
		startedAt:       time.Now(),
	}
}

// NewLatencyHistogram creates a sliding window histogram.
func NewLatencyHistogram(size int) *LatencyHistogram {
	if size <= 0 {
		size = 1000
	}
	return &LatencyHistogram{
		samples: make([]float64, 0, size),
		maxSize: size,
		dirty:   true,
	}
}

// Record adds a latency sample in milliseconds.
func (h *LatencyHistogram) Record(latencyMs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) >= h.maxSize {
		h.samples = h.samples[1:]
	}
	h.samples = append(h.samples, latencyMs)
	h.dirty = true
}

// RecordDuration converts duration to ms and records.
func (h *LatencyHistogram) RecordDuration(d time.Duration) {
	h.Record(float64(d.Nanoseconds()) / 1e6)
}

// Stats returns min, max, avg, p50, p95, p99 over the window.
func (h *LatencyHistogram) Stats() LatencyStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.dirty {
		return h.cachedStats
	}

	n := len(h.samples)
	if n == 0 {
		h.cachedStats = LatencyStats{}
		h.dirty = false
		return h.cachedStats
	}

	sorted := make([]float64, n)
	copy(sorted, h.samples)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	h.cachedStats = LatencyStats{
		Min:   sorted[0],
		Max:   sorted[n-1],
		Avg:   sum / float64(n),
		P50:   sorted[n/2],
		P95:   sorted[int(float64(n)*0.95)],
		P99:   sorted[int(float64(n)*0.99)],
		Count: n,
	}
	h.dirty = false
	return h.cachedStats
}

// LatencyStats holds computed latency statistics.
type LatencyStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Count int     `json:"count"`
}

// RecordDecision counts one completed analysis by its action.
func (m *SystemMetrics) RecordDecision(a strategy.Action) {
	m.analyses.Add(1)
	switch a {
	case strategy.ActionBuy:
		m.buys.Add(1)
	case strategy.ActionSell:
		m.sells.Add(1)
	default:
		m.holds.Add(1)
	}
}

// RecordInsufficient counts an analysis rejected for short history.
func (m *SystemMetrics) RecordInsufficient() {
	m.analyses.Add(1)
	m.insufficient.Add(1)
}

// RecordAPI counts one HTTP request.
func (m *SystemMetrics) RecordAPI(latency time.Duration, failed bool) {
	m.apiRequests.Add(1)
	if failed {
		m.apiErrors.Add(1)
	}
	m.APILatency.RecordDuration(latency)
}

// RecordRPC counts one gRPC call.
func (m *SystemMetrics) RecordRPC(latency time.Duration, failed bool) {
	m.rpcRequests.Add(1)
	if failed {
		m.rpcErrors.Add(1)
	}
	m.RPCLatency.RecordDuration(latency)
}

// IncrementJournalErrors counts a failed journal flush.
func (m *SystemMetrics) IncrementJournalErrors() {
	m.journalErrors.Add(1)
}

// MetricsSnapshot is a point-in-time view of SystemMetrics.
type MetricsSnapshot struct {
	AnalysisLatency LatencyStats `json:"analysis_latency"`
	APILatency      LatencyStats `json:"api_latency"`
	RPCLatency      LatencyStats `json:"rpc_latency"`
	Analyses        uint64       `json:"analyses"`
	NotEnoughData   uint64       `json:"not_enough_data"`
	Buys            uint64       `json:"buys"`
	Sells           uint64       `json:"sells"`
	Holds           uint64       `json:"holds"`
	APIRequests     uint64       `json:"api_requests"`
	APIErrors       uint64       `json:"api_errors"`
	RPCRequests     uint64       `json:"rpc_requests"`
	RPCErrors       uint64       `json:"rpc_errors"`
	JournalErrors   uint64       `json:"journal_errors"`
	EventsDropped   uint64       `json:"events_dropped"`
	GoroutineCount  int          `json:"goroutine_count"`
	HeapAlloc       uint64       `json:"heap_alloc_bytes"`
	Uptime          string       `json:"uptime"`
	Timestamp       time.Time    `json:"timestamp"`

	Journal *persistence.BatchWriterMetrics `json:"journal,omitempty"` // nil when the journal is off
}

// GetSnapshot returns a point-in-time metrics snapshot.
func (m *SystemMetrics) GetSnapshot() MetricsSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.sourcesMu.RLock()
	bus, journal := m.bus, m.journal
	m.sourcesMu.RUnlock()

	snap := MetricsSnapshot{
		AnalysisLatency: m.AnalysisLatency.Stats(),
		APILatency:      m.APILatency.Stats(),
		RPCLatency:      m.RPCLatency.Stats(),
		Analyses:        m.analyses.Load(),
		NotEnoughData:   m.insufficient.Load(),
		Buys:            m.buys.Load(),
		Sells:           m.sells.Load(),
		Holds:           m.holds.Load(),
		APIRequests:     m.apiRequests.Load(),
		APIErrors:       m.apiErrors.Load(),
		RPCRequests:     m.rpcRequests.Load(),
		RPCErrors:       m.rpcErrors.Load(),
		JournalErrors:   m.journalErrors.Load(),
		GoroutineCount:  runtime.NumGoroutine(),
		HeapAlloc:       memStats.HeapAlloc,
		Uptime:          time.Since(m.startedAt).Truncate(time.Second).String(),
		Timestamp:       time.Now(),
	}
	if bus != nil {
		snap.EventsDropped = bus.Dropped()
	}
	if journal != nil {
		stats := journal.Stats()
		snap.Journal = &stats
	}
	return snap
}

// Timer helps measure operation duration.
type Timer struct {
	start     time.Time
	histogram *LatencyHistogram
}

// NewTimer creates a timer that records to the given histogram.
func NewTimer(h *LatencyHistogram) *Timer {
	return &Timer{
		start:     time.Now(),
		histogram: h,
	}
}

// Stop records elapsed time to histogram.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if t.histogram != nil {
		t.histogram.RecordDuration(elapsed)
	}
	return elapsed
}
