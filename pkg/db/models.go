package db

import "time"

// TradeRow is one mirrored trade log entry.
type TradeRow struct {
	ID         string
	Timestamp  uint64
	Action     string
	Reason     string
	Price      float64
	RecordedAt time.Time
}

// ConfigRow is one mirrored configuration update.
type ConfigRow struct {
	ID        string
	Strategy  string
	Threshold float64
	ChangedAt time.Time
}
