package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
)

var ErrNotFound = errors.New("record not found")

// Statements executed by the journal writer.
const (
	InsertTradeSQL  = `INSERT INTO trade_journal (id, ts_ns, action, reason, price) VALUES (?, ?, ?, ?, ?)`
	InsertConfigSQL = `INSERT INTO config_history (id, strategy, threshold, changed_at) VALUES (?, ?, ?, ?)`
)

// NullableFloat maps NaN to NULL; SQLite has no representation for it.
func NullableFloat(f float64) any {
	if math.IsNaN(f) {
		return nil
	}
	return f
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// ListTrades returns up to limit journal rows, newest first.
func (d *Database) ListTrades(ctx context.Context, limit int) ([]TradeRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.DB.QueryContext(ctx, `
		SELECT id, ts_ns, action, reason, price, recorded_at
		FROM trade_journal
		ORDER BY ts_ns DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var out []TradeRow
	for rows.Next() {
		var (
			r     TradeRow
			ts    int64
			price sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &ts, &r.Action, &r.Reason, &price, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		r.Timestamp = uint64(ts)
		r.Price = floatOrNaN(price)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTrade returns a single journal row by id.
func (d *Database) GetTrade(ctx context.Context, id string) (*TradeRow, error) {
	var (
		r     TradeRow
		ts    int64
		price sql.NullFloat64
	)
	err := d.DB.QueryRowContext(ctx, `
		SELECT id, ts_ns, action, reason, price, recorded_at
		FROM trade_journal WHERE id = ?
	`, id).Scan(&r.ID, &ts, &r.Action, &r.Reason, &price, &r.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trade: %w", err)
	}
	r.Timestamp = uint64(ts)
	r.Price = floatOrNaN(price)
	return &r, nil
}

// ListConfigChanges returns up to limit configuration updates, newest first.
func (d *Database) ListConfigChanges(ctx context.Context, limit int) ([]ConfigRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.DB.QueryContext(ctx, `
		SELECT id, strategy, threshold, changed_at
		FROM config_history
		ORDER BY changed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query config history: %w", err)
	}
	defer rows.Close()

	var out []ConfigRow
	for rows.Next() {
		var (
			r         ConfigRow
			threshold sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &r.Strategy, &threshold, &r.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan config change: %w", err)
		}
		r.Threshold = floatOrNaN(threshold)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountTrades returns the number of journalled trades.
func (d *Database) CountTrades(ctx context.Context) (int, error) {
	var n int
	if err := d.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM trade_journal`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}
