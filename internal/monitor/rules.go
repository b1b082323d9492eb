package monitor

import (
	"fmt"

	"quanturnic/internal/events"
)

// BalanceFloor fires once when the balance drops below Floor and re-arms
// after the balance recovers to Floor or above. The ledger itself has no
// bounds; this only reports.
type BalanceFloor struct {
	Floor float64
	below bool
}

// Check evaluates one balance change.
func (r *BalanceFloor) Check(c events.BalanceChange) (bool, string) {
	if c.Balance < r.Floor {
		if r.below {
			return false, ""
		}
		r.below = true
		return true, fmt.Sprintf("balance %.2f fell below %.2f (last trade %+.2f)", c.Balance, r.Floor, c.Delta)
	}
	r.below = false
	return false, ""
}
