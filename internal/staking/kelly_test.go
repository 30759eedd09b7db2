package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/MatchPredictor/models"
)

func TestKelly(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		odds float64
		want float64
	}{
		{"even money with edge", 0.55, 2.0, 0.10},
		{"fair price", 0.5, 2.0, 0},
		{"no edge", 0.3, 3.0, -0.05},
		{"invalid odds", 0.6, 1.0, 0},
		{"certain outcome", 1.0, 1.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Kelly(tt.p, tt.odds), 1e-12)
		})
	}
}

func TestSuggest(t *testing.T) {
	final := models.ProbabilityVector{Home: 0.55, Draw: 0.25, Away: 0.20}
	odds := &models.OddsSignal{Home: models.Float(2.1), Draw: models.Float(3.4), Away: models.Float(4.5)}
	high := models.Reliability{Score: 0.85, Label: models.ConfidenceHigh}

	got := Suggest(DefaultConfig(), final, odds, high)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Outcome)
	assert.InDelta(t, 0.155, got[0].Edge, 1e-12)
	assert.InDelta(t, 0.155/1.1, got[0].Kelly, 1e-12)
	assert.InDelta(t, 0.155/4.4, got[0].Stake, 1e-12)

	medium := Suggest(DefaultConfig(), final, odds, models.Reliability{Label: models.ConfidenceMedium})
	require.Len(t, medium, 1)
	assert.InDelta(t, got[0].Stake/2, medium[0].Stake, 1e-12)

	low := Suggest(DefaultConfig(), final, odds, models.Reliability{Label: models.ConfidenceLow})
	require.Len(t, low, 1)
	assert.Zero(t, low[0].Stake)

	assert.Nil(t, Suggest(DefaultConfig(), final, nil, high))
}

func TestSuggestCapsStake(t *testing.T) {
	final := models.ProbabilityVector{Home: 0.80, Draw: 0.12, Away: 0.08}
	odds := &models.OddsSignal{Home: models.Float(2.0), Draw: models.Float(5.0), Away: models.Float(9.0)}

	got := Suggest(DefaultConfig(), final, odds, models.Reliability{Label: models.ConfidenceHigh})
	require.Len(t, got, 1)
	assert.InDelta(t, 0.6, got[0].Kelly, 1e-12)
	assert.InDelta(t, 0.05, got[0].Stake, 1e-12)
}
