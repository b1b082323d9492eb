package balance

import (
	"log"
	"sync"

	"quanturnic/internal/strategy"
)

// UnitSize is the fixed amount debited on BUY and credited on SELL.
const UnitSize = 5.0

// Ledger holds the simulated account balance. It performs no bounds
// checking: the balance may go negative or grow without limit.
type Ledger struct {
	mu      sync.RWMutex
	balance float64
}

// NewLedger creates a ledger seeded with the initial balance.
func NewLedger(initial float64) *Ledger {
	return &Ledger{balance: initial}
}

// Balance returns the current balance.
func (l *Ledger) Balance() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// Apply settles one decision and returns the resulting balance together
// with the signed change that was applied.
func (l *Ledger) Apply(action strategy.Action) (balance, delta float64) {
	switch action {
	case strategy.ActionBuy:
		delta = -UnitSize
	case strategy.ActionSell:
		delta = UnitSize
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if delta == 0 {
		return l.balance, 0
	}
	l.balance += delta

	log.Printf("💰 [LEDGER] %s settled: %+.2f (Balance: %.2f)", action, delta, l.balance)
	return l.balance, delta
}
