package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/Alias1177/MatchPredictor/models"
)

var (
	// ErrMalformedArtifact is returned when an artifact is structurally invalid
	ErrMalformedArtifact = errors.New("malformed classifier artifact")
	// ErrFeatureMismatch is returned when an artifact expects a feature the engine cannot build
	ErrFeatureMismatch = errors.New("classifier feature mismatch")
)

// Head is a linear layer: one weight row per output plus a bias per output
type Head struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// Artifact is a trained model persisted as JSON: median imputer, standard
// scaler, a softmax 1X2 head and an optional logistic over 2.5 head.
// Once parsed it is immutable and safe for concurrent use.
type Artifact struct {
	Version  string    `json:"version"`
	Features []string  `json:"features"`
	Imputer  []float64 `json:"imputer"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
	Outcome  *Head     `json:"outcome,omitempty"`
	Over25   *Head     `json:"over25,omitempty"`
}

// Parse decodes and validates an artifact
func Parse(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks dimensions and that every feature can be built
func (a *Artifact) Validate() error {
	n := len(a.Features)
	if n == 0 {
		return fmt.Errorf("%w: no features", ErrMalformedArtifact)
	}
	if len(a.Imputer) != n || len(a.Mean) != n || len(a.Scale) != n {
		return fmt.Errorf("%w: imputer/mean/scale must have %d entries", ErrMalformedArtifact, n)
	}
	if a.Outcome == nil && a.Over25 == nil {
		return fmt.Errorf("%w: no output head", ErrMalformedArtifact)
	}
	if a.Outcome != nil {
		if err := a.Outcome.validate(3, n); err != nil {
			return fmt.Errorf("%w: outcome head: %v", ErrMalformedArtifact, err)
		}
	}
	if a.Over25 != nil {
		if err := a.Over25.validate(1, n); err != nil {
			return fmt.Errorf("%w: over25 head: %v", ErrMalformedArtifact, err)
		}
	}

	seen := make(map[string]bool, n)
	for _, name := range a.Features {
		if !IsKnownFeature(name) {
			return fmt.Errorf("%w: unknown feature %q", ErrFeatureMismatch, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate feature %q", ErrMalformedArtifact, name)
		}
		seen[name] = true
	}
	return nil
}

func (h *Head) validate(outputs, inputs int) error {
	if len(h.Weights) != outputs || len(h.Bias) != outputs {
		return fmt.Errorf("expected %d outputs", outputs)
	}
	for _, row := range h.Weights {
		if len(row) != inputs {
			return fmt.Errorf("expected %d weights per output", inputs)
		}
	}
	return nil
}

// Predict implements models.Classifier. Missing or non-finite features are imputed.
func (a *Artifact) Predict(features map[string]float64) (*models.ClassifierSignal, error) {
	x := a.transform(features)

	var signal models.ClassifierSignal
	if a.Outcome != nil {
		p := softmax(a.Outcome.apply(x))
		vec := models.ProbabilityVector{Home: p[0], Draw: p[1], Away: p[2]}.Normalize()
		signal.Outcome = &vec
	}
	if a.Over25 != nil {
		over := sigmoid(a.Over25.apply(x)[0])
		signal.Over25 = &over
	}
	return &signal, nil
}

func (a *Artifact) transform(features map[string]float64) []float64 {
	x := make([]float64, len(a.Features))
	for i, name := range a.Features {
		v, ok := features[name]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			v = a.Imputer[i]
		}
		scale := a.Scale[i]
		if scale == 0 {
			scale = 1
		}
		x[i] = (v - a.Mean[i]) / scale
	}
	return x
}

func (h *Head) apply(x []float64) []float64 {
	out := make([]float64, len(h.Weights))
	for i, row := range h.Weights {
		out[i] = dot(row, x) + h.Bias[i]
	}
	return out
}

func softmax(z []float64) []float64 {
	maxZ := math.Inf(-1)
	for _, v := range z {
		maxZ = math.Max(maxZ, v)
	}
	out := make([]float64, len(z))
	var sum float64
	for i, v := range z {
		out[i] = math.Exp(v - maxZ)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func sigmoid(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
