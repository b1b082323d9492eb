package db

import (
	"fmt"
)

const schema = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS trade_journal (
    id TEXT PRIMARY KEY,
    ts_ns INTEGER NOT NULL,
    action TEXT NOT NULL,
    reason TEXT NOT NULL,
    price REAL,
    recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_trade_journal_ts ON trade_journal(ts_ns);

CREATE TABLE IF NOT EXISTS config_history (
    id TEXT PRIMARY KEY,
    strategy TEXT NOT NULL,
    threshold REAL,
    changed_at DATETIME NOT NULL
);
`

// ApplyMigrations creates the journal tables if they do not exist.
func ApplyMigrations(d *Database) error {
	if d == nil || d.DB == nil {
		return fmt.Errorf("database is not initialized")
	}
	if _, err := d.DB.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
