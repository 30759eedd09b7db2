package reliability

import (
	"math"

	"github.com/Alias1177/MatchPredictor/models"
)

// Config holds the increments and cutoffs of the reliability score
type Config struct {
	Base               float64 `yaml:"base"`                // default: 0.20
	CoverageThreshold  float64 `yaml:"coverage_threshold"`  // default: 0.70
	CoverageBonus      float64 `yaml:"coverage_bonus"`      // default: 0.30
	OddsBonus          float64 `yaml:"odds_bonus"`          // default: 0.20
	ClassifierBonus    float64 `yaml:"classifier_bonus"`    // default: 0.15
	AgreementBonus     float64 `yaml:"agreement_bonus"`     // default: 0.15
	AgreementThreshold float64 `yaml:"agreement_threshold"` // max 1X2 distance (default: 0.10)
	HighCutoff         float64 `yaml:"high_cutoff"`         // default: 0.70
	MediumCutoff       float64 `yaml:"medium_cutoff"`       // default: 0.45
}

// DefaultConfig returns the default reliability configuration
func DefaultConfig() Config {
	return Config{
		Base:               0.20,
		CoverageThreshold:  0.70,
		CoverageBonus:      0.30,
		OddsBonus:          0.20,
		ClassifierBonus:    0.15,
		AgreementBonus:     0.15,
		AgreementThreshold: 0.10,
		HighCutoff:         0.70,
		MediumCutoff:       0.45,
	}
}

// Scorer annotates predictions with a confidence label. It never alters probabilities.
type Scorer struct {
	cfg Config
}

// NewScorer creates a reliability scorer
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score accumulates the reliability score and maps it to a label
func (s *Scorer) Score(coverage float64, hasOdds, hasClassifier, agreement bool) models.Reliability {
	score := s.cfg.Base
	if coverage >= s.cfg.CoverageThreshold {
		score += s.cfg.CoverageBonus
	}
	if hasOdds {
		score += s.cfg.OddsBonus
	}
	if hasClassifier {
		score += s.cfg.ClassifierBonus
	}
	if agreement {
		score += s.cfg.AgreementBonus
	}
	score = math.Max(0, math.Min(1, score))

	return models.Reliability{Score: score, Label: s.label(score)}
}

// Agreement reports whether two 1X2 vectors are within the configured distance
func (s *Scorer) Agreement(a, b models.ProbabilityVector) bool {
	return Agreement(a, b, s.cfg.AgreementThreshold)
}

func (s *Scorer) label(score float64) models.Confidence {
	// 1e-9 absorbs float drift from summing the increments
	switch {
	case score >= s.cfg.HighCutoff-1e-9:
		return models.ConfidenceHigh
	case score >= s.cfg.MediumCutoff-1e-9:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// Agreement reports whether the largest component-wise difference is below threshold
func Agreement(a, b models.ProbabilityVector, threshold float64) bool {
	return a.MaxAbsDiff(b) < threshold
}
