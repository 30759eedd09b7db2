package reasoning

import (
	"github.com/rs/zerolog"

	"github.com/Alias1177/MatchPredictor/internal/utils"
	"github.com/Alias1177/MatchPredictor/models"
)

// Config holds the tunables of the contextual layer
type Config struct {
	Weights       utils.FactorWeights `yaml:"weights"`
	MaxAdjustment float64             `yaml:"max_adjustment"` // ceiling on the contextual shift (default: 0.25)
}

// DefaultConfig returns the default contextual layer configuration
func DefaultConfig() Config {
	return Config{
		Weights:       utils.DefaultFactorWeights(),
		MaxAdjustment: 0.25,
	}
}

// Layer applies bounded contextual adjustments. It holds no mutable state.
type Layer struct {
	cfg    Config
	logger zerolog.Logger
}

// NewLayer creates a contextual reasoning layer
func NewLayer(cfg Config, logger zerolog.Logger) *Layer {
	return &Layer{
		cfg:    cfg,
		logger: logger.With().Str("component", "contextual_reasoning").Logger(),
	}
}

// Apply computes both side factors, adjusts p and attaches material notes
func (l *Layer) Apply(p models.ProbabilityVector, home, away models.ContextScores) (models.ProbabilityVector, models.Explanation) {
	homeFactor := Factor(home, l.cfg.Weights)
	awayFactor := Factor(away, l.cfg.Weights)

	adjusted, exp := Adjust(p, homeFactor, awayFactor, l.cfg.MaxAdjustment)
	exp.Notes = append(Explain("home", home), Explain("away", away)...)

	if exp.NetHomeShift != 0 {
		l.logger.Debug().
			Float64("home_factor", homeFactor).
			Float64("away_factor", awayFactor).
			Float64("net_home_shift", exp.NetHomeShift).
			Bool("clamped", exp.Clamped).
			Msg("Applied contextual adjustment")
	}

	return adjusted, exp
}
