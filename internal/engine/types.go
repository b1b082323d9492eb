package engine

import (
	"time"

	"quanturnic/internal/state"
	"quanturnic/internal/tradelog"
)

// NotEnoughData is returned by AnalyzeMarket when the history is too short.
const NotEnoughData = "Not enough data"

// BotConfig is the strategy configuration exposed to callers.
type BotConfig = state.BotConfig

// TradeLog is one entry of the trade log exposed to callers.
type TradeLog = tradelog.Entry

// UserContext is reserved for caller identity. No operation reads it yet.
type UserContext struct {
	PrincipalID string `json:"principal_id" yaml:"principal_id"`
}

// SystemStatus represents the process runtime status.
type SystemStatus struct {
	Version        string    `json:"version"`
	InstanceID     string    `json:"instance_id"`
	StartedAt      time.Time `json:"started_at"`
	ServerTime     time.Time `json:"server_time"`
	JournalEnabled bool      `json:"journal_enabled"`
	GRPCAddr       string    `json:"grpc_addr,omitempty"`
	Active         bool      `json:"active"`
	TradeCount     int       `json:"trade_count"`
}
