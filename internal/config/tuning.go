package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Alias1177/MatchPredictor/internal/analysis/goals"
	"github.com/Alias1177/MatchPredictor/internal/analysis/market"
	"github.com/Alias1177/MatchPredictor/internal/analysis/reasoning"
	"github.com/Alias1177/MatchPredictor/internal/analysis/reliability"
	"github.com/Alias1177/MatchPredictor/internal/analysis/scoreline"
	"github.com/Alias1177/MatchPredictor/internal/staking"
)

// ErrInvalidTuning is returned when a tuning value is out of range
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning bundles every hand-tuned constant of the engine
type Tuning struct {
	Goals       goals.Config       `yaml:"goals"`
	Scoreline   scoreline.Config   `yaml:"scoreline"`
	Market      market.Config      `yaml:"market"`
	Reasoning   reasoning.Config   `yaml:"reasoning"`
	Reliability reliability.Config `yaml:"reliability"`
	Staking     staking.Config     `yaml:"staking"`
}

// DefaultTuning returns the built-in tuning
func DefaultTuning() Tuning {
	return Tuning{
		Goals:       goals.DefaultConfig(),
		Scoreline:   scoreline.DefaultConfig(),
		Market:      market.DefaultConfig(),
		Reasoning:   reasoning.DefaultConfig(),
		Reliability: reliability.DefaultConfig(),
		Staking:     staking.DefaultConfig(),
	}
}

// LoadTuning overlays a YAML file on the defaults. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading tuning file: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning overlays YAML data on the defaults and validates the result.
// Maps and lists in the file replace the defaults rather than merging.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()

	var overlay struct {
		Goals struct {
			StrongTeams []string           `yaml:"strong_teams"`
			Anchors     map[string]float64 `yaml:"anchors"`
		} `yaml:"goals"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return t, fmt.Errorf("parsing tuning file: %w", err)
	}
	// yaml.v3 merges decoded map keys into an existing map, so reset before decoding
	if overlay.Goals.Anchors != nil {
		t.Goals.Anchors = nil
	}
	if overlay.Goals.StrongTeams != nil {
		t.Goals.StrongTeams = nil
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parsing tuning file: %w", err)
	}
	if err := ValidateTuning(t); err != nil {
		return t, err
	}
	return t, nil
}

// ValidateTuning rejects values that would break the engine's invariants
func ValidateTuning(t Tuning) error {
	g := t.Goals
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(g.MinLambda > 0 && g.MinLambda < g.MaxLambda, "goals: need 0 < min_lambda < max_lambda")
	check(g.HomeAdvantage > 0 && g.DerbyHomeAdvantage > 0, "goals: home advantage must be positive")
	for name, f := range map[string]float64{
		"short_rest_factor": g.ShortRestFactor, "three_day_factor": g.ThreeDayFactor,
		"four_day_factor": g.FourDayFactor, "full_rest_factor": g.FullRestFactor,
		"european_factor": g.EuropeanFactor, "weather_factor": g.WeatherFactor,
		"medium_travel_factor": g.MediumTravelFactor, "long_travel_factor": g.LongTravelFactor,
	} {
		check(f > 0 && f <= 1.5, "goals: %s must be in (0, 1.5], got %v", name, f)
	}
	check(g.FullRestDays > 4, "goals: full_rest_days must exceed 4")
	check(inUnit(g.MaxMissingPenalty) && inUnit(g.MaxOpponentBonus), "goals: missing player caps must be in [0, 1]")
	check(g.MissingPlayerPenalty >= 0 && g.OpponentBonus >= 0, "goals: missing player increments must be non-negative")
	check(g.MediumTravelKm >= 0 && g.LongTravelKm >= g.MediumTravelKm, "goals: travel thresholds out of order")
	check(g.FuzzyThreshold > 0 && g.FuzzyThreshold <= 1, "goals: fuzzy_threshold must be in (0, 1]")
	check(g.StrongProfile.Attack >= 0 && g.StrongProfile.Defense >= 0, "goals: strong profile must be non-negative")
	check(g.AverageProfile.Attack >= 0 && g.AverageProfile.Defense >= 0, "goals: average profile must be non-negative")
	check(g.OddsSkewGain >= 0 && g.OddsSkewCap >= 0 && g.LowInfoSkewFactor >= 1, "goals: invalid odds skew")
	check(validAnchor(g.DefaultAnchor), "goals: default_anchor must be in [1.5, 4.5]")
	for name, v := range g.Anchors {
		check(validAnchor(v), "goals: anchor %q must be in [1.5, 4.5], got %v", name, v)
	}
	check(inUnit(g.MarketAnchorWeight), "goals: market_anchor_weight must be in [0, 1]")
	check(inUnit(g.AnchorBlendHigh) && inUnit(g.AnchorBlendMedium) && inUnit(g.AnchorBlendLow), "goals: anchor blends must be in [0, 1]")
	check(g.JitterHigh >= 0 && g.JitterMedium >= 0 && g.JitterLow >= 0 && g.JitterLow < 0.5, "goals: invalid jitter")

	s := t.Scoreline
	check(s.MaxGoals >= 0 && s.MaxGoals <= 20, "scoreline: max_goals must be in [0, 20]")
	check(s.TopN >= 1, "scoreline: top_n must be at least 1")
	check(s.DrawEpsilon >= 0 && s.DrawEpsilon <= 0.05, "scoreline: draw_epsilon must be in [0, 0.05]")
	for _, line := range s.Lines {
		check(line > 0 && line-math.Floor(line) == 0.5, "scoreline: line %v must be a positive half-goal line", line)
	}
	for _, r := range s.Ranges {
		check(r.Lo >= 0 && r.Hi >= r.Lo, "scoreline: range %d-%d out of order", r.Lo, r.Hi)
	}

	m := t.Market
	check(inUnit(m.ModelWeightHigh) && inUnit(m.ModelWeightMedium) && inUnit(m.ModelWeightLow), "market: model weights must be in [0, 1]")
	check(m.MaxOverround > 0 && m.DivergenceThreshold > 0, "market: anomaly thresholds must be positive")

	r := t.Reasoning
	if err := r.Weights.Validate(); err != nil {
		check(false, "reasoning: %v", err)
	}
	check(r.MaxAdjustment > 0 && r.MaxAdjustment <= 0.5, "reasoning: max_adjustment must be in (0, 0.5]")

	rel := t.Reliability
	check(rel.MediumCutoff <= rel.HighCutoff, "reliability: medium_cutoff above high_cutoff")
	check(rel.AgreementThreshold > 0, "reliability: agreement_threshold must be positive")
	check(inUnit(rel.CoverageThreshold), "reliability: coverage_threshold must be in [0, 1]")

	st := t.Staking
	check(st.KellyFraction > 0 && st.KellyFraction <= 1, "staking: kelly_fraction must be in (0, 1]")
	check(st.MaxStake > 0 && st.MaxStake <= 1, "staking: max_stake must be in (0, 1]")
	check(st.MinEdge >= 0, "staking: min_edge must be non-negative")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTuning, problems)
	}
	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

func validAnchor(v float64) bool {
	return v >= 1.5 && v <= 4.5
}
