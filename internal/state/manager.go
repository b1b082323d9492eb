package state

import "sync"

// BotConfig selects the decision rule and its sensitivity.
// Strategy is free text; unrecognised tags make analysis hold.
type BotConfig struct {
	Strategy  string  `json:"strategy" yaml:"strategy"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// DefaultConfig is the configuration a fresh process starts with.
func DefaultConfig() BotConfig {
	return BotConfig{Strategy: "basic", Threshold: 0.5}
}

// ConfigStore keeps the current BotConfig. Updates replace the value
// wholesale; last write wins.
type ConfigStore struct {
	mu  sync.RWMutex
	cfg BotConfig
}

func NewConfigStore(initial BotConfig) *ConfigStore {
	return &ConfigStore{cfg: initial}
}

// Get returns a copy of the current configuration.
func (s *ConfigStore) Get() BotConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set replaces the configuration without validation and returns the
// previous value.
func (s *ConfigStore) Set(cfg BotConfig) BotConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.cfg
	s.cfg = cfg
	return prev
}

// ActivityFlag records whether the operator has started the bot.
// Nothing else in the process reads it.
type ActivityFlag struct {
	mu     sync.RWMutex
	active bool
}

// Set stores v and reports whether the value changed.
func (f *ActivityFlag) Set(v bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := f.active != v
	f.active = v
	return changed
}

func (f *ActivityFlag) Active() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.active
}
