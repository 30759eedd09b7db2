package reasoning

import (
	"math"
	"strings"

	"github.com/Alias1177/MatchPredictor/internal/utils"
	"github.com/Alias1177/MatchPredictor/models"
)

// Sub-score ranges
const (
	motivationScale = 100.0
	formScale       = 50.0
	headToHeadScale = 30.0
	fatigueScale    = 30.0
	momentumScale   = 20.0
)

// Normalized sub-scores of one side
type Normalized struct {
	Motivation float64 // [0,1]
	Form       float64 // [-1,1]
	HeadToHead float64 // [-1,1]
	Fatigue    float64 // [-1,0]
	Momentum   float64 // [-1,1]
}

// Normalize maps raw sub-scores onto their unit ranges. Absent scores are neutral.
func Normalize(s models.ContextScores) Normalized {
	return Normalized{
		Motivation: clamp(value(s.Motivation)/motivationScale, 0, 1),
		Form:       clamp(value(s.Form)/formScale, -1, 1),
		HeadToHead: clamp(value(s.HeadToHead)/headToHeadScale, -1, 1),
		Fatigue:    clamp(value(s.Fatigue)/fatigueScale, -1, 0),
		Momentum:   clamp(value(s.Momentum)/momentumScale, -1, 1),
	}
}

// Factor is the weighted sum of normalized sub-scores, clamped to [-1, 1]
func Factor(s models.ContextScores, w utils.FactorWeights) float64 {
	n := Normalize(s)
	f := w.Motivation*n.Motivation +
		w.Form*n.Form +
		w.HeadToHead*n.HeadToHead +
		w.Fatigue*n.Fatigue +
		w.Momentum*n.Momentum
	return clamp(f, -1, 1)
}

// ScoresFromHistory derives raw sub-scores from recent results, head-to-head
// record, rest days and what is at stake. Missing inputs stay nil.
func ScoresFromHistory(h models.TeamHistory) models.ContextScores {
	var s models.ContextScores

	if v, ok := decayedResults(h.Form, 6); ok {
		s.Form = models.Float(v * formScale)
	}
	if v, ok := decayedResults(h.HeadToHead, 6); ok {
		s.HeadToHead = models.Float(v * headToHeadScale)
	}
	if h.RestDays != nil && *h.RestDays >= 0 {
		s.Fatigue = models.Float(fatigueFromRest(*h.RestDays))
	}
	if v, ok := streak(h.Form); ok {
		s.Momentum = models.Float(v)
	}
	if v, ok := motivationFromStakes(h.Stakes); ok {
		s.Motivation = models.Float(v)
	}
	return s
}

// decayedResults scores the last n results in [-1,1], W=+1 D=0 L=-1,
// each older match counting 10% less than the one after it.
func decayedResults(results string, n int) (float64, bool) {
	var sum, total float64
	weight := 1.0
	count := 0
	for _, r := range strings.ToUpper(results) {
		if count == n {
			break
		}
		var v float64
		switch r {
		case 'W':
			v = 1
		case 'D':
			v = 0
		case 'L':
			v = -1
		default:
			continue
		}
		sum += weight * v
		total += weight
		weight -= 0.1
		count++
	}
	if total == 0 {
		return 0, false
	}
	return sum / total, true
}

// streak turns the current run of wins or losses into a momentum score
func streak(results string) (float64, bool) {
	var first rune
	run := 0
	for _, r := range strings.ToUpper(results) {
		if r != 'W' && r != 'D' && r != 'L' {
			continue
		}
		if first == 0 {
			first = r
		}
		if r != first {
			break
		}
		run++
	}

	switch first {
	case 0:
		return 0, false
	case 'W':
		return math.Min(momentumScale, 5*float64(run)), true
	case 'L':
		return -math.Min(momentumScale, 5*float64(run)), true
	default:
		return 0, true
	}
}

func fatigueFromRest(days int) float64 {
	switch {
	case days <= 2:
		return -30
	case days == 3:
		return -20
	case days == 4:
		return -10
	case days == 5:
		return -5
	default:
		return 0
	}
}

func motivationFromStakes(stakes string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(stakes)) {
	case "title", "relegation":
		return 90, true
	case "derby":
		return 85, true
	case "europe":
		return 75, true
	case "none", "mid_table":
		return 40, true
	default:
		return 0, false
	}
}

func value(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
