package rpc

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"quanturnic/internal/engine"
	"quanturnic/internal/strategy"
)

// Records travel as well-known Struct/ListValue messages so the service can
// be described without generated code. Reals are proto doubles, which carry
// NaN and infinities unchanged. Timestamps are decimal strings because a
// Struct number cannot hold every uint64.

func configToStruct(cfg engine.BotConfig) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"strategy":  structpb.NewStringValue(cfg.Strategy),
		"threshold": structpb.NewNumberValue(cfg.Threshold),
	}}
}

func structToConfig(s *structpb.Struct) (engine.BotConfig, error) {
	strategyTag, err := stringField(s, "strategy")
	if err != nil {
		return engine.BotConfig{}, err
	}
	threshold, err := numberField(s, "threshold")
	if err != nil {
		return engine.BotConfig{}, err
	}
	return engine.BotConfig{Strategy: strategyTag, Threshold: threshold}, nil
}

func pricesToList(prices []float64) *structpb.ListValue {
	values := make([]*structpb.Value, len(prices))
	for i, p := range prices {
		values[i] = structpb.NewNumberValue(p)
	}
	return &structpb.ListValue{Values: values}
}

func listToPrices(l *structpb.ListValue) ([]float64, error) {
	prices := make([]float64, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("price_history[%d] is not a number", i)
		}
		prices = append(prices, n.NumberValue)
	}
	return prices, nil
}

func logsToList(logs []engine.TradeLog) *structpb.ListValue {
	values := make([]*structpb.Value, len(logs))
	for i, e := range logs {
		values[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"timestamp": structpb.NewStringValue(strconv.FormatUint(e.Timestamp, 10)),
			"action":    structpb.NewStringValue(string(e.Action)),
			"reason":    structpb.NewStringValue(e.Reason),
			"price":     structpb.NewNumberValue(e.Price),
		}})
	}
	return &structpb.ListValue{Values: values}
}

func listToLogs(l *structpb.ListValue) ([]engine.TradeLog, error) {
	logs := make([]engine.TradeLog, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("trade log %d is not a struct", i)
		}
		ts, err := stringField(s, "timestamp")
		if err != nil {
			return nil, fmt.Errorf("trade log %d: %w", i, err)
		}
		timestamp, err := strconv.ParseUint(ts, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("trade log %d: timestamp: %w", i, err)
		}
		action, err := stringField(s, "action")
		if err != nil {
			return nil, fmt.Errorf("trade log %d: %w", i, err)
		}
		reason, err := stringField(s, "reason")
		if err != nil {
			return nil, fmt.Errorf("trade log %d: %w", i, err)
		}
		price, err := numberField(s, "price")
		if err != nil {
			return nil, fmt.Errorf("trade log %d: %w", i, err)
		}
		logs = append(logs, engine.TradeLog{
			Timestamp: timestamp,
			Action:    strategy.Action(action),
			Reason:    reason,
			Price:     price,
		})
	}
	return logs, nil
}

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", fmt.Errorf("missing field %q", name)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q must be a string", name)
	}
	return str.StringValue, nil
}

func numberField(s *structpb.Struct, name string) (float64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", name)
	}
	return n.NumberValue, nil
}
