package events

// Event enumerates topics published by the bot engine.
type Event string

const (
	EventTradeLogged    Event = "trade.logged"
	EventConfigUpdated  Event = "config.updated"
	EventBotStatus      Event = "bot.status"
	EventBalanceChanged Event = "balance.changed"
)

// All lists every topic, for subscribers that forward everything.
var All = []Event{EventTradeLogged, EventConfigUpdated, EventBotStatus, EventBalanceChanged}

// BotStatus is the payload of EventBotStatus.
type BotStatus struct {
	Active bool `json:"active"`
}

// BalanceChange is the payload of EventBalanceChanged.
type BalanceChange struct {
	Balance float64 `json:"balance"`
	Delta   float64 `json:"delta"`
}
