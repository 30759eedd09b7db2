package reliability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alias1177/MatchPredictor/models"
)

func TestScore(t *testing.T) {
	s := NewScorer(DefaultConfig())

	tests := []struct {
		name       string
		coverage   float64
		odds       bool
		classifier bool
		agreement  bool
		wantScore  float64
		wantLabel  models.Confidence
	}{
		{"nothing", 0, false, false, false, 0.20, models.ConfidenceLow},
		{"coverage only", 1, false, false, false, 0.50, models.ConfidenceMedium},
		{"odds only", 0.25, true, false, false, 0.40, models.ConfidenceLow},
		{"coverage and odds", 0.75, true, false, false, 0.70, models.ConfidenceHigh},
		{"coverage just below threshold", 0.69, true, true, false, 0.55, models.ConfidenceMedium},
		{"everything", 1, true, true, true, 1.0, models.ConfidenceHigh},
		{"odds and classifier", 0.5, true, true, false, 0.55, models.ConfidenceMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.coverage, tt.odds, tt.classifier, tt.agreement)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestAgreement(t *testing.T) {
	a := models.ProbabilityVector{Home: 0.45, Draw: 0.30, Away: 0.25}

	assert.True(t, Agreement(a, models.ProbabilityVector{Home: 0.50, Draw: 0.28, Away: 0.22}, 0.10))
	assert.False(t, Agreement(a, models.ProbabilityVector{Home: 0.30, Draw: 0.30, Away: 0.40}, 0.10))
	assert.True(t, NewScorer(DefaultConfig()).Agreement(a, a))
}
