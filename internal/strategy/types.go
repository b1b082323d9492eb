package strategy

import "errors"

// Action is the decision emitted by a single analysis.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// MinHistory is the shortest price history a strategy accepts.
const MinHistory = 3

// ErrInsufficientHistory is returned when fewer than MinHistory prices are supplied.
var ErrInsufficientHistory = errors.New("not enough price history")

// Kind enumerates the decision rules the engine knows about.
// Unknown covers every tag that is not recognised.
type Kind int

const (
	Unknown Kind = iota
	Basic
	MACD
)

var tags = map[string]Kind{
	"basic": Basic,
	"macd":  MACD,
}

// Parse maps a free-text strategy tag onto a Kind. Matching is exact.
func Parse(tag string) Kind {
	if k, ok := tags[tag]; ok {
		return k
	}
	return Unknown
}

func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case MACD:
		return "macd"
	default:
		return "unknown"
	}
}
