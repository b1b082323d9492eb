// Package journal mirrors trade log entries and configuration updates into
// SQLite for later inspection. It is write-only from the engine's point of
// view: nothing is ever loaded back into process state.
package journal

import (
	"time"

	"quanturnic/internal/persistence"
	"quanturnic/internal/state"
	"quanturnic/internal/tradelog"
	"quanturnic/pkg/db"
	"quanturnic/pkg/id"
)

// Options configures the write-behind batching.
type Options struct {
	BatchSize     int
	FlushInterval time.Duration
	OnError       func(error)
}

// Journal queues rows for the batch writer.
type Journal struct {
	writer *persistence.BatchWriter
}

// New starts a journal writing to database.
func New(database *db.Database, opts Options) *Journal {
	return &Journal{
		writer: persistence.NewBatchWriter(database.DB, persistence.Options{
			MaxSize:  opts.BatchSize,
			Interval: opts.FlushInterval,
			OnError:  opts.OnError,
		}),
	}
}

// RecordTrade implements tradelog.Sink.
func (j *Journal) RecordTrade(e tradelog.Entry) {
	at := time.Unix(0, int64(e.Timestamp))
	_ = j.writer.Write(persistence.WriteOp{
		Query: db.InsertTradeSQL,
		Args:  []any{id.New(at), int64(e.Timestamp), string(e.Action), e.Reason, db.NullableFloat(e.Price)},
	})
}

// RecordConfig stores one configuration update.
func (j *Journal) RecordConfig(cfg state.BotConfig, at time.Time) {
	_ = j.writer.Write(persistence.WriteOp{
		Query: db.InsertConfigSQL,
		Args:  []any{id.New(at), cfg.Strategy, db.NullableFloat(cfg.Threshold), at.UTC()},
	})
}

// Flush commits everything queued so far.
func (j *Journal) Flush() error {
	return j.writer.Flush()
}

// Stats exposes the batch writer counters.
func (j *Journal) Stats() persistence.BatchWriterMetrics {
	return j.writer.GetMetrics()
}

// Close flushes pending rows and stops the writer. The database is left open.
func (j *Journal) Close() error {
	return j.writer.Close()
}
