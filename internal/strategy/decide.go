package strategy

import "math"

// Decide runs the rule selected by k over prices. Only the last and the
// third-from-last prices are inspected; earlier history is ignored.
func Decide(k Kind, threshold float64, prices []float64) (Action, error) {
	if len(prices) < MinHistory {
		return "", ErrInsufficientHistory
	}
	last := prices[len(prices)-1]

	switch k {
	case Basic:
		return momentum(last, prices[len(prices)-3], threshold), nil
	case MACD:
		return parity(last), nil
	case Unknown:
		return ActionHold, nil
	}
	return ActionHold, nil
}

// momentum compares half the two-step price change against the threshold.
// Both bounds are strict, so a delta equal to ±threshold holds.
func momentum(last, base, threshold float64) Action {
	delta := (last - base) / 2
	switch {
	case delta > threshold:
		return ActionBuy
	case delta < -threshold:
		return ActionSell
	default:
		return ActionHold
	}
}

// parity stands in for a MACD crossover until moving averages are computed:
// an exactly even last price buys, anything else sells.
func parity(last float64) Action {
	if math.Mod(last, 2) == 0 {
		return ActionBuy
	}
	return ActionSell
}
