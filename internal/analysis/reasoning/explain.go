package reasoning

import (
	"fmt"
	"math"

	"github.com/Alias1177/MatchPredictor/internal/utils"
	"github.com/Alias1177/MatchPredictor/models"
)

// Materiality thresholds on raw sub-scores
const (
	motivationThreshold = 80
	formThreshold       = 25
	headToHeadThreshold = 15
	fatigueThreshold    = -15
	momentumThreshold   = 10
)

// Explain lists the sub-scores of one side that crossed a materiality threshold
func Explain(side string, s models.ContextScores) []models.ExplanationNote {
	var notes []models.ExplanationNote

	add := func(factor string, v float64, format string) {
		notes = append(notes, models.ExplanationNote{
			Side:    side,
			Factor:  factor,
			Value:   v,
			Message: fmt.Sprintf(format, side, v),
		})
	}

	if v := value(s.Motivation); v > motivationThreshold {
		add(utils.FactorMotivation, v, "%s side highly motivated (%.0f)")
	}
	if v := value(s.Form); math.Abs(v) > formThreshold {
		if v > 0 {
			add(utils.FactorForm, v, "%s side in strong form (%+.0f)")
		} else {
			add(utils.FactorForm, v, "%s side in poor form (%+.0f)")
		}
	}
	if v := value(s.HeadToHead); math.Abs(v) > headToHeadThreshold {
		if v > 0 {
			add(utils.FactorHeadToHead, v, "%s side dominates head-to-head (%+.0f)")
		} else {
			add(utils.FactorHeadToHead, v, "%s side struggles head-to-head (%+.0f)")
		}
	}
	if v := value(s.Fatigue); v < fatigueThreshold {
		add(utils.FactorFatigue, v, "%s side fatigued (%.0f)")
	}
	if v := value(s.Momentum); math.Abs(v) > momentumThreshold {
		if v > 0 {
			add(utils.FactorMomentum, v, "%s side on a winning run (%+.0f)")
		} else {
			add(utils.FactorMomentum, v, "%s side on a losing run (%+.0f)")
		}
	}

	return notes
}
