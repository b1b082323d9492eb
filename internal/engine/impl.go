package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"quanturnic/internal/balance"
	"quanturnic/internal/events"
	"quanturnic/internal/monitor"
	"quanturnic/internal/state"
	"quanturnic/internal/strategy"
	"quanturnic/internal/tradelog"
	"quanturnic/pkg/i18n"
)

// ConfigRecorder receives every accepted configuration update.
type ConfigRecorder interface {
	RecordConfig(cfg state.BotConfig, at time.Time)
}

// Config holds the configuration for creating an engine implementation.
type Config struct {
	InitialConfig  BotConfig
	InitialBalance float64

	Bus            *events.Bus
	Metrics        *monitor.SystemMetrics
	TradeSink      tradelog.Sink  // optional
	ConfigRecorder ConfigRecorder // optional
	Clock          func() time.Time

	Meta SystemStatus
}

// DefaultConfig returns the start-of-process state: strategy "basic" with
// threshold 0.5 and a balance of 1000.
func DefaultConfig() Config {
	return Config{
		InitialConfig:  state.DefaultConfig(),
		InitialBalance: 1000.0,
	}
}

// Impl implements Service over in-memory stores. A single engine-wide lock
// serialises mutations so readers never see an analysis half applied.
// Events are published under the lock so subscribers see them in commit
// order; the journal sinks run after it is released.
type Impl struct {
	mu sync.RWMutex

	config *state.ConfigStore
	active *state.ActivityFlag
	ledger *balance.Ledger
	logs   *tradelog.Log

	bus      *events.Bus
	metrics  *monitor.SystemMetrics
	sink     tradelog.Sink
	recorder ConfigRecorder
	clock    func() time.Time
	meta     SystemStatus
}

var _ Service = (*Impl)(nil)

// NewImpl creates the engine and all of its stores.
func NewImpl(cfg Config) *Impl {
	if cfg.Metrics == nil {
		cfg.Metrics = monitor.NewSystemMetrics()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Impl{
		config:   state.NewConfigStore(cfg.InitialConfig),
		active:   &state.ActivityFlag{},
		ledger:   balance.NewLedger(cfg.InitialBalance),
		logs:     tradelog.New(),
		bus:      cfg.Bus,
		metrics:  cfg.Metrics,
		sink:     cfg.TradeSink,
		recorder: cfg.ConfigRecorder,
		clock:    cfg.Clock,
		meta:     cfg.Meta,
	}
}

// --- Activity flag ---

func (e *Impl) StartBot(ctx context.Context) {
	e.setActive(true)
}

func (e *Impl) StopBot(ctx context.Context) {
	e.setActive(false)
}

func (e *Impl) setActive(v bool) {
	e.mu.Lock()
	changed := e.active.Set(v)
	if changed {
		e.bus.Publish(events.EventBotStatus, events.BotStatus{Active: v})
	}
	e.mu.Unlock()

	if !changed {
		return
	}
	if v {
		log.Println(i18n.Get("BotStarted"))
	} else {
		log.Println(i18n.Get("BotStopped"))
	}
}

func (e *Impl) IsBotActive(ctx context.Context) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active.Active()
}

// --- Trade log ---

func (e *Impl) GetTradeLogs(ctx context.Context) []TradeLog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.logs.Snapshot()
}

// --- Configuration ---

func (e *Impl) GetBotConfig(ctx context.Context) BotConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Get()
}

// UpdateConfig replaces the configuration. Neither argument is validated.
func (e *Impl) UpdateConfig(ctx context.Context, strategyTag string, threshold float64) {
	cfg := BotConfig{Strategy: strategyTag, Threshold: threshold}

	e.mu.Lock()
	e.config.Set(cfg)
	at := e.clock()
	e.bus.Publish(events.EventConfigUpdated, cfg)
	e.mu.Unlock()

	log.Printf(i18n.Get("ConfigUpdated"), cfg.Strategy, cfg.Threshold)
	if strategy.Parse(cfg.Strategy) == strategy.Unknown {
		log.Printf(i18n.Get("UnknownStrategyTag"), cfg.Strategy)
	}
	if e.recorder != nil {
		e.recorder.RecordConfig(cfg, at)
	}
}

// --- Ledger ---

func (e *Impl) GetBalance(ctx context.Context) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.Balance()
}

// --- Analysis ---

// AnalyzeMarket decides on the supplied history using the configuration
// current at the time of the call, settles the ledger, appends a trade log
// entry and returns the action. The activity flag is not consulted.
func (e *Impl) AnalyzeMarket(ctx context.Context, priceHistory []float64) string {
	timer := monitor.NewTimer(e.metrics.AnalysisLatency)
	defer timer.Stop()

	e.mu.Lock()
	cfg := e.config.Get()
	action, err := strategy.Decide(strategy.Parse(cfg.Strategy), cfg.Threshold, priceHistory)
	if errors.Is(err, strategy.ErrInsufficientHistory) {
		e.mu.Unlock()
		e.metrics.RecordInsufficient()
		return NotEnoughData
	}

	last := priceHistory[len(priceHistory)-1]
	bal, delta := e.ledger.Apply(action)
	entry := e.logs.Append(TradeLog{
		Timestamp: uint64(e.clock().UnixNano()),
		Action:    action,
		Reason:    fmt.Sprintf("Strategy: %s, Price: %s", cfg.Strategy, formatPrice(last)),
		Price:     last,
	})
	e.bus.Publish(events.EventTradeLogged, entry)
	if delta != 0 {
		e.bus.Publish(events.EventBalanceChanged, events.BalanceChange{Balance: bal, Delta: delta})
	}
	e.mu.Unlock()

	if e.sink != nil {
		e.sink.RecordTrade(entry)
	}
	e.metrics.RecordDecision(action)
	log.Printf(i18n.Get("AnalysisDecision"), cfg.Strategy, len(priceHistory), action, bal)
	return string(action)
}

// formatPrice renders p with two decimals; infinities print as "inf" and
// "-inf".
func formatPrice(p float64) string {
	switch {
	case math.IsInf(p, 1):
		return "inf"
	case math.IsInf(p, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.2f", p)
}

// --- System ---

func (e *Impl) GetSystemStatus(ctx context.Context) *SystemStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := e.meta
	st.ServerTime = e.clock()
	st.Active = e.active.Active()
	st.TradeCount = e.logs.Len()
	return &st
}
