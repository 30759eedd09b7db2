package market

import (
	"github.com/Alias1177/MatchPredictor/models"
)

// ImpliedProbabilities converts 1X2 decimal odds to fair probabilities by
// stripping the bookmaker's overround. Odds with any leg <= 1.0 are treated as absent.
func ImpliedProbabilities(odds *models.OddsSignal) (models.ProbabilityVector, bool) {
	if !odds.Has1X2() {
		return models.ProbabilityVector{}, false
	}

	rawHome := 1.0 / *odds.Home
	rawDraw := 1.0 / *odds.Draw
	rawAway := 1.0 / *odds.Away
	total := rawHome + rawDraw + rawAway

	return models.ProbabilityVector{
		Home: rawHome / total,
		Draw: rawDraw / total,
		Away: rawAway / total,
	}, true
}

// ImpliedOver returns the goal line and the de-margined probability of the over
func ImpliedOver(odds *models.OddsSignal) (line, pOver float64, ok bool) {
	if !odds.HasTotals() {
		return 0, 0, false
	}

	rawOver := 1.0 / *odds.Over
	rawUnder := 1.0 / *odds.Under
	return *odds.TotalLine, rawOver / (rawOver + rawUnder), true
}

// Overround returns the bookmaker margin of the 1X2 market (0.05 = 5%)
func Overround(odds *models.OddsSignal) (float64, bool) {
	if !odds.Has1X2() {
		return 0, false
	}
	return 1.0/(*odds.Home) + 1.0/(*odds.Draw) + 1.0/(*odds.Away) - 1, true
}

// ValueEdges returns p*odds-1 for each 1X2 leg. Positive values mean the
// model prices the outcome above the bookmaker.
func ValueEdges(final models.ProbabilityVector, odds *models.OddsSignal) map[string]float64 {
	if !odds.Has1X2() {
		return nil
	}
	return map[string]float64{
		"1": final.Home*(*odds.Home) - 1,
		"X": final.Draw*(*odds.Draw) - 1,
		"2": final.Away*(*odds.Away) - 1,
	}
}
