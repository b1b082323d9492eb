package persistence

import (
	"database/sql"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("batch writer closed")

// WriteOp is a single statement queued for the next batch.
type WriteOp struct {
	Query string
	Args  []any
}

// Options tunes a BatchWriter.
type Options struct {
	MaxSize  int           // flush when this many ops are pending
	Interval time.Duration // flush at least this often
	OnError  func(error)   // called for every failed batch
}

// BatchWriter queues writes and commits them in one transaction per batch.
// Writes are write-behind: a failed batch is logged and reported through
// OnError, never returned to the caller of Write.
type BatchWriter struct {
	db      *sql.DB
	opts    Options
	mu      sync.Mutex
	buffer  []WriteOp
	closed  bool
	flushMu sync.Mutex
	kick    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup

	totalWrites  atomic.Uint64
	totalBatches atomic.Uint64
	totalErrors  atomic.Uint64
	lastBatch    atomic.Int64
}

// BatchWriterMetrics provides statistics about batch operations.
type BatchWriterMetrics struct {
	TotalWrites   uint64 `json:"total_writes"`
	TotalBatches  uint64 `json:"total_batches"`
	TotalErrors   uint64 `json:"total_errors"`
	LastBatchSize int    `json:"last_batch_size"`
	Pending       int    `json:"pending"`
}

// NewBatchWriter starts a writer with a background flush loop.
func NewBatchWriter(db *sql.DB, opts Options) *BatchWriter {
	if opts.MaxSize <= 0 {
		opts.MaxSize = 50
	}
	if opts.Interval <= 0 {
		opts.Interval = 500 * time.Millisecond
	}

	bw := &BatchWriter{
		db:     db,
		opts:   opts,
		buffer: make([]WriteOp, 0, opts.MaxSize),
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	bw.wg.Add(1)
	go bw.backgroundFlush()
	return bw
}

// Write queues op and never touches the database. A full batch wakes the
// flush loop instead.
func (bw *BatchWriter) Write(op WriteOp) error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrClosed
	}
	bw.buffer = append(bw.buffer, op)
	full := len(bw.buffer) >= bw.opts.MaxSize
	bw.mu.Unlock()

	if full {
		select {
		case bw.kick <- struct{}{}:
		default: // a flush is already pending
		}
	}
	return nil
}

// Flush commits everything queued so far.
func (bw *BatchWriter) Flush() error {
	bw.flushMu.Lock()
	defer bw.flushMu.Unlock()

	bw.mu.Lock()
	if len(bw.buffer) == 0 {
		bw.mu.Unlock()
		return nil
	}
	ops := bw.buffer
	bw.buffer = make([]WriteOp, 0, bw.opts.MaxSize)
	bw.mu.Unlock()

	err := bw.executeBatch(ops)
	if err != nil {
		bw.totalErrors.Add(1)
		log.Printf("❌ [JOURNAL] batch of %d failed: %v", len(ops), err)
		if bw.opts.OnError != nil {
			bw.opts.OnError(err)
		}
	}
	return err
}

func (bw *BatchWriter) executeBatch(ops []WriteOp) error {
	bw.totalWrites.Add(uint64(len(ops)))
	bw.totalBatches.Add(1)
	bw.lastBatch.Store(int64(len(ops)))

	tx, err := bw.db.Begin()
	if err != nil {
		return err
	}
	for _, op := range ops {
		if _, err := tx.Exec(op.Query, op.Args...); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (bw *BatchWriter) backgroundFlush() {
	defer bw.wg.Done()
	ticker := time.NewTicker(bw.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = bw.Flush()
		case <-bw.kick:
			_ = bw.Flush()
		case <-bw.done:
			return
		}
	}
}

// Pending returns the number of queued operations.
func (bw *BatchWriter) Pending() int {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return len(bw.buffer)
}

// GetMetrics returns the current counters.
func (bw *BatchWriter) GetMetrics() BatchWriterMetrics {
	return BatchWriterMetrics{
		TotalWrites:   bw.totalWrites.Load(),
		TotalBatches:  bw.totalBatches.Load(),
		TotalErrors:   bw.totalErrors.Load(),
		LastBatchSize: int(bw.lastBatch.Load()),
		Pending:       bw.Pending(),
	}
}

// Close stops the flush loop and commits whatever is still queued.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return nil
	}
	bw.closed = true
	bw.mu.Unlock()

	close(bw.done)
	bw.wg.Wait()
	return bw.Flush()
}
