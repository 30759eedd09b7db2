package staking

import (
	"math"

	"github.com/Alias1177/MatchPredictor/models"
)

// Config holds the staking parameters
type Config struct {
	KellyFraction float64 `yaml:"kelly_fraction"` // share of full Kelly (default: 0.25)
	MaxStake      float64 `yaml:"max_stake"`      // cap as a share of bankroll (default: 0.05)
	MinEdge       float64 `yaml:"min_edge"`       // expected value required to stake (default: 0.02)
}

// DefaultConfig returns the default staking configuration
func DefaultConfig() Config {
	return Config{
		KellyFraction: 0.25,
		MaxStake:      0.05,
		MinEdge:       0.02,
	}
}

// Suggestion is a recommended stake on one 1X2 leg
type Suggestion struct {
	Outcome string  `json:"outcome"` // "1", "X" or "2"
	Odds    float64 `json:"odds"`
	Edge    float64 `json:"edge"`  // p*odds - 1
	Kelly   float64 `json:"kelly"` // full Kelly fraction
	Stake   float64 `json:"stake"` // share of bankroll after fraction, reliability and cap
}

// Kelly returns the full Kelly fraction (p*b - q) / b for decimal odds.
// Negative values mean the bet has no edge.
func Kelly(p, odds float64) float64 {
	if odds <= 1 || p <= 0 || p >= 1 || math.IsNaN(p) || math.IsInf(odds, 0) {
		return 0
	}
	b := odds - 1
	return (p*b - (1 - p)) / b
}

// Suggest sizes stakes for every 1X2 leg whose edge clears the minimum.
// Nothing is suggested without usable odds.
func Suggest(cfg Config, final models.ProbabilityVector, odds *models.OddsSignal, rel models.Reliability) []Suggestion {
	if !odds.Has1X2() {
		return nil
	}

	legs := []struct {
		outcome string
		p       float64
		odds    float64
	}{
		{"1", final.Home, *odds.Home},
		{"X", final.Draw, *odds.Draw},
		{"2", final.Away, *odds.Away},
	}

	var out []Suggestion
	for _, leg := range legs {
		edge := leg.p*leg.odds - 1
		if edge < cfg.MinEdge {
			continue
		}
		k := Kelly(leg.p, leg.odds)
		if k <= 0 {
			continue
		}
		stake := AdjustStakeForReliability(k*cfg.KellyFraction, rel.Label)
		out = append(out, Suggestion{
			Outcome: leg.outcome,
			Odds:    leg.odds,
			Edge:    edge,
			Kelly:   k,
			Stake:   math.Min(stake, cfg.MaxStake),
		})
	}
	return out
}

// AdjustStakeForReliability shrinks the stake when the prediction is less reliable
func AdjustStakeForReliability(stake float64, label models.Confidence) float64 {
	switch label {
	case models.ConfidenceHigh:
		return stake
	case models.ConfidenceMedium:
		return stake * 0.5
	default:
		return 0
	}
}
