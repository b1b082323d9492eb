package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigStoreRoundTrip(t *testing.T) {
	s := NewConfigStore(DefaultConfig())
	assert.Equal(t, BotConfig{Strategy: "basic", Threshold: 0.5}, s.Get())

	prev := s.Set(BotConfig{Strategy: "macd", Threshold: 2.25})
	assert.Equal(t, DefaultConfig(), prev)
	assert.Equal(t, BotConfig{Strategy: "macd", Threshold: 2.25}, s.Get())
}

func TestConfigStoreAcceptsAnything(t *testing.T) {
	s := NewConfigStore(DefaultConfig())

	s.Set(BotConfig{Strategy: "", Threshold: math.Inf(-1)})
	got := s.Get()
	assert.Equal(t, "", got.Strategy)
	assert.True(t, math.IsInf(got.Threshold, -1))

	s.Set(BotConfig{Strategy: "svm", Threshold: math.NaN()})
	got = s.Get()
	assert.Equal(t, "svm", got.Strategy)
	assert.True(t, math.IsNaN(got.Threshold))
}

func TestActivityFlag(t *testing.T) {
	var f ActivityFlag
	assert.False(t, f.Active())

	assert.True(t, f.Set(true))
	assert.False(t, f.Set(true), "start is idempotent")
	assert.True(t, f.Active())

	assert.True(t, f.Set(false))
	assert.False(t, f.Set(false), "stop is idempotent")
	assert.False(t, f.Active())
}
