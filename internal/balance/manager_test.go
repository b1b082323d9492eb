package balance

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"quanturnic/internal/strategy"
)

func TestLedgerApply(t *testing.T) {
	l := NewLedger(1000)

	bal, delta := l.Apply(strategy.ActionBuy)
	assert.Equal(t, 995.0, bal)
	assert.Equal(t, -UnitSize, delta)

	bal, delta = l.Apply(strategy.ActionSell)
	assert.Equal(t, 1000.0, bal)
	assert.Equal(t, UnitSize, delta)

	bal, delta = l.Apply(strategy.ActionHold)
	assert.Equal(t, 1000.0, bal)
	assert.Zero(t, delta)

	bal, delta = l.Apply(strategy.Action("bogus"))
	assert.Equal(t, 1000.0, bal)
	assert.Zero(t, delta)
}

func TestLedgerMayGoNegative(t *testing.T) {
	l := NewLedger(7)
	l.Apply(strategy.ActionBuy)
	l.Apply(strategy.ActionBuy)
	assert.Equal(t, -3.0, l.Balance())
}

func TestLedgerConcurrentApply(t *testing.T) {
	l := NewLedger(1000)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); l.Apply(strategy.ActionBuy) }()
		go func() { defer wg.Done(); l.Apply(strategy.ActionSell) }()
	}
	wg.Wait()

	assert.Equal(t, 1000.0, l.Balance())
}
