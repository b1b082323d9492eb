// Package tradelog keeps the append-only record of simulated trades.
package tradelog

import (
	"sync"

	"quanturnic/internal/strategy"
)

// Entry is one analysis outcome. It holds copies of scalar values only.
type Entry struct {
	Timestamp uint64          `json:"timestamp"` // nanoseconds since epoch
	Action    strategy.Action `json:"action"`
	Reason    string          `json:"reason"`
	Price     float64         `json:"price"`
}

// Sink receives entries after they have been appended. Callers invoke it
// outside any lock guarding the log.
type Sink interface {
	RecordTrade(Entry)
}

// Log is an ordered, append-only sequence of entries.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates an empty log.
func New() *Log {
	return &Log{}
}

// Append stores e and returns it as stored. Timestamps are kept strictly
// increasing so insertion order and timestamp order always agree, even
// when the wall clock stalls or steps backwards.
func (l *Log) Append(e Entry) Entry {
	l.mu.Lock()
	if n := len(l.entries); n > 0 {
		if prev := l.entries[n-1].Timestamp; e.Timestamp <= prev {
			e.Timestamp = prev + 1
		}
	}
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	return e
}

// Snapshot returns a copy of all entries in insertion order.
func (l *Log) Snapshot() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
