package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFactorWeights(t *testing.T) {
	w := DefaultFactorWeights()
	assert.NoError(t, w.Validate())
	assert.InDelta(t, 1.0, w.Sum(), 1e-12)
	assert.Equal(t, 0.30, w.Get(FactorForm))
	assert.Equal(t, 0.0, w.Get("UNKNOWN"))
}

func TestFactorWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights FactorWeights
		wantErr bool
	}{
		{"defaults", DefaultFactorWeights(), false},
		{"all on form", FactorWeights{Form: 1}, false},
		{"does not sum to one", FactorWeights{Form: 0.5, Momentum: 0.2}, true},
		{"negative weight", FactorWeights{Form: 1.2, Fatigue: -0.2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
