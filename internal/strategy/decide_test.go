package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Basic, Parse("basic"))
	assert.Equal(t, MACD, Parse("macd"))
	assert.Equal(t, Unknown, Parse("foo"))
	assert.Equal(t, Unknown, Parse("Basic"), "tags are case-sensitive")
	assert.Equal(t, Unknown, Parse(""))
}

func TestDecide_InsufficientHistory(t *testing.T) {
	for _, prices := range [][]float64{nil, {}, {1}, {1, 2}} {
		for _, k := range []Kind{Basic, MACD, Unknown} {
			_, err := Decide(k, 0.5, prices)
			assert.ErrorIs(t, err, ErrInsufficientHistory)
		}
	}
}

func TestDecide_Basic(t *testing.T) {
	tests := []struct {
		name      string
		prices    []float64
		threshold float64
		want      Action
	}{
		{"rising above threshold", []float64{1.0, 1.0, 3.0}, 0.5, ActionBuy},
		{"falling below threshold", []float64{5.0, 5.0, 1.0}, 0.5, ActionSell},
		{"inside band", []float64{1.0, 1.0, 1.5}, 1.0, ActionHold},
		{"delta equals threshold", []float64{1.0, 0, 2.0}, 0.5, ActionHold},
		{"delta equals negative threshold", []float64{2.0, 0, 1.0}, 0.5, ActionHold},
		{"uses third from last only", []float64{100, -100, 1.0, 50, 3.0}, 0.5, ActionBuy},
		{"nan threshold holds", []float64{1, 1, 100}, math.NaN(), ActionHold},
		{"negative threshold", []float64{1, 1, 1}, -1, ActionBuy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(Basic, tt.threshold, tt.prices)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecide_MACD(t *testing.T) {
	tests := []struct {
		last float64
		want Action
	}{
		{4, ActionBuy},
		{0, ActionBuy},
		{-6, ActionBuy},
		{3, ActionSell},
		{4.5, ActionSell},
		{2.0000001, ActionSell},
		{math.NaN(), ActionSell},
		{math.Inf(1), ActionSell},
	}
	for _, tt := range tests {
		got, err := Decide(MACD, 0.5, []float64{1, 1, tt.last})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "last=%v", tt.last)
	}
}

func TestDecide_UnknownAlwaysHolds(t *testing.T) {
	for _, prices := range [][]float64{{1, 1, 3}, {5, 5, 1}, {2, 2, 2, 2}} {
		got, err := Decide(Unknown, 0.5, prices)
		require.NoError(t, err)
		assert.Equal(t, ActionHold, got)
	}
}
