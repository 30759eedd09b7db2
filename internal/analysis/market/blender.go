package market

import (
	"github.com/rs/zerolog"

	"github.com/Alias1177/MatchPredictor/models"
)

// Blend sources
const (
	SourcePoisson       = "poisson"
	SourcePoissonMarket = "poisson+market"
	SourceClassifier    = "classifier"
)

// Config holds the model weight per info level and the odds anomaly thresholds
type Config struct {
	ModelWeightHigh     float64 `yaml:"model_weight_high"`
	ModelWeightMedium   float64 `yaml:"model_weight_medium"`
	ModelWeightLow      float64 `yaml:"model_weight_low"`
	MaxOverround        float64 `yaml:"max_overround"`        // margin above this is flagged
	DivergenceThreshold float64 `yaml:"divergence_threshold"` // model vs market gap that is flagged
}

// DefaultConfig returns the standard weights
func DefaultConfig() Config {
	return Config{
		ModelWeightHigh:     0.75,
		ModelWeightMedium:   0.55,
		ModelWeightLow:      0.35,
		MaxOverround:        0.15,
		DivergenceThreshold: 0.20,
	}
}

// ModelWeight returns the weight given to the Poisson model for an info level
func (c Config) ModelWeight(info models.InfoLevel) float64 {
	switch info {
	case models.InfoHigh:
		return c.ModelWeightHigh
	case models.InfoMedium:
		return c.ModelWeightMedium
	default:
		return c.ModelWeightLow
	}
}

// BlendResult is the blended 1X2 vector and where it came from
type BlendResult struct {
	Vector      models.ProbabilityVector
	Raw         models.ProbabilityVector // before renormalization
	Source      string
	ModelWeight float64
}

// Blender fuses the Poisson model with market and classifier estimates.
// The classifier handle is optional, shared and read-only.
type Blender struct {
	cfg        Config
	classifier models.Classifier
	logger     zerolog.Logger
}

// NewBlender creates a blender. classifier may be nil.
func NewBlender(cfg Config, classifier models.Classifier, logger zerolog.Logger) *Blender {
	return &Blender{
		cfg:        cfg,
		classifier: classifier,
		logger:     logger.With().Str("component", "market_blender").Logger(),
	}
}

// HasClassifier reports whether a classifier artifact was injected
func (b *Blender) HasClassifier() bool {
	return b.classifier != nil
}

// Mix returns w*model + (1-w)*market component-wise, without renormalizing
func Mix(model, market models.ProbabilityVector, w float64) models.ProbabilityVector {
	return models.ProbabilityVector{
		Home: w*model.Home + (1-w)*market.Home,
		Draw: w*model.Draw + (1-w)*market.Draw,
		Away: w*model.Away + (1-w)*market.Away,
	}
}

// Blend combines the Poisson vector with the market and, when it is the only
// other signal, the classifier.
func (b *Blender) Blend(poisson models.ProbabilityVector, classifier *models.ClassifierSignal, market *models.ProbabilityVector, info models.InfoLevel) BlendResult {
	if !poisson.Valid(1e-9) {
		poisson = poisson.Normalize()
	}

	if market != nil && market.Valid(1e-6) {
		w := b.cfg.ModelWeight(info)
		raw := Mix(poisson, *market, w)
		return BlendResult{
			Vector:      raw.Normalize(),
			Raw:         raw,
			Source:      SourcePoissonMarket,
			ModelWeight: w,
		}
	}

	if classifier != nil && classifier.Outcome != nil {
		v := classifier.Outcome.Normalize()
		return BlendResult{Vector: v, Raw: *classifier.Outcome, Source: SourceClassifier}
	}

	return BlendResult{Vector: poisson, Raw: poisson, Source: SourcePoisson, ModelWeight: 1}
}

// OverUnder returns the over 2.5 probability, preferring the classifier when present
func (b *Blender) OverUnder(poissonOver float64, classifier *models.ClassifierSignal) (float64, string) {
	if classifier != nil && classifier.Over25 != nil {
		p := *classifier.Over25
		if p >= 0 && p <= 1 {
			return p, SourceClassifier
		}
	}
	return poissonOver, SourcePoisson
}

// Classify runs the injected classifier. Failures are logged and treated as absent.
func (b *Blender) Classify(features map[string]float64) *models.ClassifierSignal {
	if b.classifier == nil {
		return nil
	}

	signal, err := b.classifier.Predict(features)
	if err != nil {
		b.logger.Debug().Err(err).Msg("classifier unavailable for this match")
		return nil
	}
	return signal
}
