// Package rpc exposes the bot engine as a flat namespace of named procedures
// over gRPC and publishes a machine-readable description of that namespace.
package rpc

import (
	"gopkg.in/yaml.v3"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "quanturnic.v1.Bot"

// Procedure names. HTTP routes and gRPC methods use the same names.
const (
	MethodStartBot      = "start_bot"
	MethodStopBot       = "stop_bot"
	MethodIsBotActive   = "is_bot_active"
	MethodGetTradeLogs  = "get_trade_logs"
	MethodGetBotConfig  = "get_bot_config"
	MethodUpdateConfig  = "update_config"
	MethodGetBalance    = "get_balance"
	MethodAnalyzeMarket = "analyze_market"
)

// FullMethod returns the gRPC path for a procedure name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type Param struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

type Method struct {
	Name    string  `yaml:"name" json:"name"`
	Params  []Param `yaml:"params,omitempty" json:"params,omitempty"`
	Result  string  `yaml:"result" json:"result"`
	Mutates bool    `yaml:"mutates" json:"mutates"`
	Doc     string  `yaml:"doc" json:"doc"`
}

type Field struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

type Record struct {
	Name     string  `yaml:"name" json:"name"`
	Fields   []Field `yaml:"fields" json:"fields"`
	Reserved bool    `yaml:"reserved,omitempty" json:"reserved,omitempty"`
	Doc      string  `yaml:"doc" json:"doc"`
}

// Interface is the document consumed by front-end clients.
type Interface struct {
	Service string   `yaml:"service" json:"service"`
	Methods []Method `yaml:"methods" json:"methods"`
	Types   []Record `yaml:"types" json:"types"`
}

// Describe returns the interface of the bot service. api/bot.yaml is
// generated from it.
func Describe() Interface {
	return Interface{
		Service: ServiceName,
		Methods: []Method{
			{Name: MethodStartBot, Result: "void", Mutates: true,
				Doc: "Set the activity flag. Idempotent."},
			{Name: MethodStopBot, Result: "void", Mutates: true,
				Doc: "Clear the activity flag. Idempotent."},
			{Name: MethodIsBotActive, Result: "bool",
				Doc: "Report the activity flag."},
			{Name: MethodGetTradeLogs, Result: "list<TradeLog>",
				Doc: "Snapshot of every trade record in insertion order."},
			{Name: MethodGetBotConfig, Result: "BotConfig",
				Doc: "Current strategy tag and threshold."},
			{Name: MethodUpdateConfig, Mutates: true, Result: "void",
				Params: []Param{{Name: "strategy", Type: "text"}, {Name: "threshold", Type: "real"}},
				Doc:    "Replace the configuration. Any tag is accepted; unknown tags make analysis HOLD."},
			{Name: MethodGetBalance, Result: "real",
				Doc: "Current simulated balance."},
			{Name: MethodAnalyzeMarket, Mutates: true, Result: "text",
				Params: []Param{{Name: "price_history", Type: "list<real>"}},
				Doc:    "Decide BUY, SELL or HOLD on the history, settle the balance and log the trade. Fewer than 3 prices returns \"Not enough data\" and changes nothing."},
		},
		Types: []Record{
			{Name: "BotConfig", Doc: "Strategy selection.",
				Fields: []Field{{Name: "strategy", Type: "text"}, {Name: "threshold", Type: "real"}}},
			{Name: "TradeLog", Doc: "One analysis outcome.",
				Fields: []Field{
					{Name: "timestamp", Type: "u64"},
					{Name: "action", Type: "text"},
					{Name: "reason", Type: "text"},
					{Name: "price", Type: "real"},
				}},
			{Name: "UserContext", Reserved: true, Doc: "Caller identity. Declared for clients; no procedure takes it yet.",
				Fields: []Field{{Name: "principal_id", Type: "text"}}},
		},
	}
}

// YAML renders the interface document.
func (i Interface) YAML() ([]byte, error) {
	return yaml.Marshal(i)
}
