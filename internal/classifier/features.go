package classifier

import (
	"github.com/Alias1177/MatchPredictor/internal/analysis/market"
	"github.com/Alias1177/MatchPredictor/models"
)

// Feature names the engine can build
const (
	FeatureHomeAttack   = "home_attack"
	FeatureHomeDefense  = "home_defense"
	FeatureAwayAttack   = "away_attack"
	FeatureAwayDefense  = "away_defense"
	FeatureHomeRestDays = "home_rest_days"
	FeatureAwayRestDays = "away_rest_days"
	FeatureHomeMissing  = "home_missing"
	FeatureAwayMissing  = "away_missing"
	FeatureAwayTravelKm = "away_travel_km"
	FeatureImpliedHome  = "implied_home"
	FeatureImpliedDraw  = "implied_draw"
	FeatureImpliedAway  = "implied_away"
	FeatureImpliedOver  = "implied_over"
	FeatureLambdaHome   = "lambda_home"
	FeatureLambdaAway   = "lambda_away"
	FeatureLambdaTotal  = "lambda_total"
	FeatureHomeEuropean = "home_european"
	FeatureAwayEuropean = "away_european"
)

var knownFeatures = map[string]bool{
	FeatureHomeAttack: true, FeatureHomeDefense: true, FeatureAwayAttack: true, FeatureAwayDefense: true,
	FeatureHomeRestDays: true, FeatureAwayRestDays: true, FeatureHomeMissing: true, FeatureAwayMissing: true,
	FeatureAwayTravelKm: true, FeatureImpliedHome: true, FeatureImpliedDraw: true, FeatureImpliedAway: true,
	FeatureImpliedOver: true, FeatureLambdaHome: true, FeatureLambdaAway: true, FeatureLambdaTotal: true,
	FeatureHomeEuropean: true, FeatureAwayEuropean: true,
}

// IsKnownFeature reports whether BuildFeatures can produce the named feature
func IsKnownFeature(name string) bool {
	return knownFeatures[name]
}

// BuildFeatures assembles the feature map for one match. Absent signals are
// left out so the artifact imputes them.
func BuildFeatures(match models.MatchContext, home, away models.TeamSignal, odds *models.OddsSignal, lambdas models.Lambdas) map[string]float64 {
	f := make(map[string]float64, len(knownFeatures))

	setRate := func(name string, v float64, ok bool) {
		if ok {
			f[name] = v
		}
	}
	v, ok := home.Attack()
	setRate(FeatureHomeAttack, v, ok)
	v, ok = home.Defense()
	setRate(FeatureHomeDefense, v, ok)
	v, ok = away.Attack()
	setRate(FeatureAwayAttack, v, ok)
	v, ok = away.Defense()
	setRate(FeatureAwayDefense, v, ok)
	v, ok = away.Travel()
	setRate(FeatureAwayTravelKm, v, ok)

	if days, ok := home.RestDaysAt(match.Kickoff); ok {
		f[FeatureHomeRestDays] = float64(days)
	}
	if days, ok := away.RestDaysAt(match.Kickoff); ok {
		f[FeatureAwayRestDays] = float64(days)
	}

	f[FeatureHomeMissing] = float64(home.Missing())
	f[FeatureAwayMissing] = float64(away.Missing())
	f[FeatureHomeEuropean] = boolFeature(home.European)
	f[FeatureAwayEuropean] = boolFeature(away.European)

	if p, ok := market.ImpliedProbabilities(odds); ok {
		f[FeatureImpliedHome] = p.Home
		f[FeatureImpliedDraw] = p.Draw
		f[FeatureImpliedAway] = p.Away
	}
	if line, pOver, ok := market.ImpliedOver(odds); ok && line == 2.5 {
		f[FeatureImpliedOver] = pOver
	}

	f[FeatureLambdaHome] = lambdas.Home
	f[FeatureLambdaAway] = lambdas.Away
	f[FeatureLambdaTotal] = lambdas.Home + lambdas.Away

	return f
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
