package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// InfoLevel summarises how much real (non-fallback) team data sits behind a lambda estimate
type InfoLevel string

const (
	InfoLow    InfoLevel = "low"
	InfoMedium InfoLevel = "medium"
	InfoHigh   InfoLevel = "high"
)

// Confidence is the caller-facing reliability label
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// MatchContext identifies a fixture
type MatchContext struct {
	Competition    string    `json:"competition"`
	HomeTeam       string    `json:"home_team"`
	AwayTeam       string    `json:"away_team"`
	Kickoff        time.Time `json:"kickoff"`
	Derby          bool      `json:"derby,omitempty"`
	AdverseWeather bool      `json:"adverse_weather,omitempty"`
}

// Key returns a stable identifier for the fixture
func (m MatchContext) Key() string {
	return fmt.Sprintf("%s|%s|%s|%d",
		strings.ToLower(strings.TrimSpace(m.Competition)),
		strings.ToLower(strings.TrimSpace(m.HomeTeam)),
		strings.ToLower(strings.TrimSpace(m.AwayTeam)),
		m.Kickoff.UTC().Unix())
}

// TeamSignal holds the per-team inputs. Every field is optional.
type TeamSignal struct {
	AttackRate        *float64   `json:"attack_rate,omitempty"`  // goals scored per match
	DefenseRate       *float64   `json:"defense_rate,omitempty"` // goals conceded per match
	RestDays          *int       `json:"rest_days,omitempty"`
	MissingKeyPlayers *int       `json:"missing_key_players,omitempty"`
	TravelKm          *float64   `json:"travel_km,omitempty"` // away side only
	European          bool       `json:"european,omitempty"`
	LastMatch         *time.Time `json:"last_match,omitempty"`
}

// Attack returns the attack rate if it is usable
func (t TeamSignal) Attack() (float64, bool) {
	return nonNegative(t.AttackRate)
}

// Defense returns the defense rate if it is usable
func (t TeamSignal) Defense() (float64, bool) {
	return nonNegative(t.DefenseRate)
}

// Travel returns the travel distance if it is usable
func (t TeamSignal) Travel() (float64, bool) {
	return nonNegative(t.TravelKm)
}

// Missing returns the count of missing key players, zero when unknown
func (t TeamSignal) Missing() int {
	if t.MissingKeyPlayers == nil || *t.MissingKeyPlayers < 0 {
		return 0
	}
	return *t.MissingKeyPlayers
}

// RestDaysAt prefers the explicit rest days and falls back to the last match date
func (t TeamSignal) RestDaysAt(kickoff time.Time) (int, bool) {
	if t.RestDays != nil && *t.RestDays >= 0 {
		return *t.RestDays, true
	}
	if t.LastMatch != nil && !kickoff.IsZero() {
		return RestDaysBetween(*t.LastMatch, kickoff)
	}
	return 0, false
}

// OddsSignal holds decimal bookmaker odds. Legs may be missing.
type OddsSignal struct {
	Home      *float64 `json:"home,omitempty"`
	Draw      *float64 `json:"draw,omitempty"`
	Away      *float64 `json:"away,omitempty"`
	TotalLine *float64 `json:"total_line,omitempty"`
	Over      *float64 `json:"over,omitempty"`
	Under     *float64 `json:"under,omitempty"`
}

// Has1X2 reports whether all three match-result legs are usable
func (o *OddsSignal) Has1X2() bool {
	if o == nil {
		return false
	}
	return validOdd(o.Home) && validOdd(o.Draw) && validOdd(o.Away)
}

// HasTotals reports whether the over/under market is usable
func (o *OddsSignal) HasTotals() bool {
	if o == nil || o.TotalLine == nil {
		return false
	}
	line := *o.TotalLine
	if math.IsNaN(line) || math.IsInf(line, 0) || line <= 0 {
		return false
	}
	return validOdd(o.Over) && validOdd(o.Under)
}

// ClassifierSignal is the output of an external trained model
type ClassifierSignal struct {
	Outcome *ProbabilityVector `json:"outcome,omitempty"`
	Over25  *float64           `json:"over_2_5,omitempty"`
}

// NewClassifierSignal builds a signal from a raw probability vector.
// Length 3 is read as (home, draw, away); length 2 as (under 2.5, over 2.5).
func NewClassifierSignal(probs []float64) *ClassifierSignal {
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return nil
		}
	}

	switch len(probs) {
	case 3:
		v := ProbabilityVector{Home: probs[0], Draw: probs[1], Away: probs[2]}
		if v.Sum() <= 0 {
			return nil
		}
		v = v.Normalize()
		return &ClassifierSignal{Outcome: &v}
	case 2:
		total := probs[0] + probs[1]
		if total <= 0 {
			return nil
		}
		over := probs[1] / total
		return &ClassifierSignal{Over25: &over}
	default:
		return nil
	}
}

// Merge fills empty fields of c from other
func (c *ClassifierSignal) Merge(other *ClassifierSignal) *ClassifierSignal {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	merged := *c
	if merged.Outcome == nil {
		merged.Outcome = other.Outcome
	}
	if merged.Over25 == nil {
		merged.Over25 = other.Over25
	}
	return &merged
}

// ContextScores are the raw contextual sub-scores for one side.
// A nil field is treated as neutral.
type ContextScores struct {
	Motivation *float64 `json:"motivation,omitempty"` // 0..100
	Form       *float64 `json:"form,omitempty"`       // -50..50
	HeadToHead *float64 `json:"head_to_head,omitempty"`
	Fatigue    *float64 `json:"fatigue,omitempty"`  // -30..0
	Momentum   *float64 `json:"momentum,omitempty"` // -20..20
}

// ProbabilityVector is a 1X2 triple summing to one
type ProbabilityVector struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Sum returns the total mass
func (p ProbabilityVector) Sum() float64 {
	return p.Home + p.Draw + p.Away
}

// Normalize rescales the vector to sum to one. Degenerate input yields a uniform vector.
func (p ProbabilityVector) Normalize() ProbabilityVector {
	if !p.finite() || p.Home < 0 || p.Draw < 0 || p.Away < 0 {
		return Uniform()
	}
	total := p.Sum()
	if total <= 0 {
		return Uniform()
	}
	return ProbabilityVector{Home: p.Home / total, Draw: p.Draw / total, Away: p.Away / total}
}

// Valid reports whether every component is in [0,1] and the sum is one within tol
func (p ProbabilityVector) Valid(tol float64) bool {
	if !p.finite() {
		return false
	}
	for _, v := range []float64{p.Home, p.Draw, p.Away} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return math.Abs(p.Sum()-1) <= tol
}

// Pick returns the most likely outcome as "1", "X" or "2"
func (p ProbabilityVector) Pick() string {
	switch {
	case p.Home >= p.Draw && p.Home >= p.Away:
		return "1"
	case p.Away >= p.Draw:
		return "2"
	default:
		return "X"
	}
}

// MaxAbsDiff is the largest component-wise distance between two vectors
func (p ProbabilityVector) MaxAbsDiff(o ProbabilityVector) float64 {
	return math.Max(math.Abs(p.Home-o.Home), math.Max(math.Abs(p.Draw-o.Draw), math.Abs(p.Away-o.Away)))
}

func (p ProbabilityVector) finite() bool {
	for _, v := range []float64{p.Home, p.Draw, p.Away} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Uniform returns the (1/3, 1/3, 1/3) vector
func Uniform() ProbabilityVector {
	return ProbabilityVector{Home: 1.0 / 3, Draw: 1.0 / 3, Away: 1.0 / 3}
}

// MarketProbabilities maps a market key such as "over_2.5" to a probability
type MarketProbabilities map[string]float64

// Market keys
const (
	KeyBTTSYes      = "btts_yes"
	KeyBTTSNo       = "btts_no"
	KeyDoubleHome   = "dc_1x"
	KeyDoubleAway   = "dc_x2"
	KeyDoubleNoDraw = "dc_12"
)

// OverKey returns the key of the over market for a goal line
func OverKey(line float64) string {
	return fmt.Sprintf("over_%.1f", line)
}

// UnderKey returns the key of the under market for a goal line
func UnderKey(line float64) string {
	return fmt.Sprintf("under_%.1f", line)
}

// MultigoalKey returns the key of a multigoal bucket
func MultigoalKey(lo, hi int) string {
	return fmt.Sprintf("mg_%d_%d", lo, hi)
}

// Scoreline is a single correct-score cell
type Scoreline struct {
	Home        int     `json:"home"`
	Away        int     `json:"away"`
	Probability float64 `json:"probability"`
}

func (s Scoreline) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// IsDraw reports whether the scoreline is level
func (s Scoreline) IsDraw() bool {
	return s.Home == s.Away
}

// Lambdas is the expected-goals pair fed to the scoreline model
type Lambdas struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// LambdaStage records the lambda pair after one step of the expected-goals model
type LambdaStage struct {
	Name string  `json:"name"`
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Reliability is the confidence annotation of a prediction
type Reliability struct {
	Score float64    `json:"score"`
	Label Confidence `json:"label"`
}

// ExplanationNote is one material contextual factor
type ExplanationNote struct {
	Side    string  `json:"side"`
	Factor  string  `json:"factor"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

// Explanation describes the contextual adjustment of a prediction
type Explanation struct {
	HomeFactor    float64           `json:"home_factor"`
	AwayFactor    float64           `json:"away_factor"`
	NetHomeShift  float64           `json:"net_home_shift"`
	NetAwayShift  float64           `json:"net_away_shift"`
	MaxAdjustment float64           `json:"max_adjustment"`
	Clamped       bool              `json:"clamped,omitempty"`
	Notes         []ExplanationNote `json:"notes,omitempty"`
}

// PredictionResult stores the full output of one prediction run
type PredictionResult struct {
	PredictionID  string              `json:"prediction_id"`
	Match         MatchContext        `json:"match"`
	Lambdas       Lambdas             `json:"lambdas"`
	InfoLevel     InfoLevel           `json:"info_level"`
	Substituted   []string            `json:"substituted,omitempty"`
	Poisson       ProbabilityVector   `json:"poisson"`
	Blended       ProbabilityVector   `json:"blended"`
	Final         ProbabilityVector   `json:"final"`
	BlendSource   string              `json:"blend_source"`
	Markets       MarketProbabilities `json:"markets"`
	TopScorelines []Scoreline         `json:"top_scorelines"`
	MostLikely    Scoreline           `json:"most_likely"`
	Reliability   Reliability         `json:"reliability"`
	Explanation   Explanation         `json:"explanation"`
	ValueEdges    map[string]float64  `json:"value_edges,omitempty"`
	Stakes        map[string]float64  `json:"stakes,omitempty"`
	Anomalies     []OddsAnomaly       `json:"anomalies,omitempty"`
	Trace         []LambdaStage       `json:"trace,omitempty"`
	GeneratedAt   time.Time           `json:"generated_at,omitempty"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v
func Int(v int) *int {
	return &v
}

func nonNegative(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0, false
	}
	return *v, true
}

func validOdd(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v > 1.0
}

// TeamHistory is raw context from which contextual sub-scores are derived.
// Results are strings of W, D and L, most recent first.
type TeamHistory struct {
	Form       string `json:"form,omitempty"`
	HeadToHead string `json:"head_to_head,omitempty"`
	RestDays   *int   `json:"rest_days,omitempty"`
	Stakes     string `json:"stakes,omitempty"` // title, europe, relegation, derby, none
}

// OddsAnomaly flags bookmaker odds that look stale, mispriced or far from the model
type OddsAnomaly struct {
	Type    string   `json:"type"`
	Score   float64  `json:"score"` // 0..1 severity
	Details string   `json:"details"`
	Flags   []string `json:"flags,omitempty"`
}
