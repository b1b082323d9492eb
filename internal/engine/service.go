// Package engine owns the bot's state and implements every operation the
// transports expose. Transports only talk to the bot through Service.
package engine

import "context"

// Service defines the bot operations. Every operation is total: the only
// non-action outcome is NotEnoughData from AnalyzeMarket.
type Service interface {
	// Activity flag
	StartBot(ctx context.Context)
	StopBot(ctx context.Context)
	IsBotActive(ctx context.Context) bool

	// Trade log
	GetTradeLogs(ctx context.Context) []TradeLog

	// Configuration
	GetBotConfig(ctx context.Context) BotConfig
	UpdateConfig(ctx context.Context, strategy string, threshold float64)

	// Ledger
	GetBalance(ctx context.Context) float64

	// Analysis
	AnalyzeMarket(ctx context.Context, priceHistory []float64) string

	// System
	GetSystemStatus(ctx context.Context) *SystemStatus
}
