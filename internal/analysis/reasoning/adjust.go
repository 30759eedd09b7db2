package reasoning

import (
	"math"

	"github.com/Alias1177/MatchPredictor/models"
)

// Probability bounds applied to every component after the shift
const (
	MinProbability = 0.05
	MaxProbability = 0.90
)

// Adjust shades a 1X2 vector by the difference between the two context factors.
// The shift on home and away is bounded by maxAdjustment and the draw absorbs
// the residual. A zero net shift returns p unchanged.
func Adjust(p models.ProbabilityVector, homeFactor, awayFactor, maxAdjustment float64) (models.ProbabilityVector, models.Explanation) {
	homeFactor = clamp(value(&homeFactor), -1, 1)
	awayFactor = clamp(value(&awayFactor), -1, 1)
	maxAdjustment = math.Max(0, value(&maxAdjustment))

	exp := models.Explanation{
		HomeFactor:    homeFactor,
		AwayFactor:    awayFactor,
		MaxAdjustment: maxAdjustment,
	}

	raw := (homeFactor - awayFactor) * maxAdjustment
	netHome := clamp(raw, -maxAdjustment, maxAdjustment)
	exp.Clamped = netHome != raw
	exp.NetHomeShift = netHome
	exp.NetAwayShift = -netHome

	if netHome == 0 {
		return p, exp
	}

	home := p.Home + netHome
	away := p.Away - netHome
	draw := 1 - home - away

	bounded := models.ProbabilityVector{
		Home: clamp(home, MinProbability, MaxProbability),
		Draw: clamp(draw, MinProbability, MaxProbability),
		Away: clamp(away, MinProbability, MaxProbability),
	}
	if bounded.Home != home || bounded.Draw != draw || bounded.Away != away {
		exp.Clamped = true
	}

	return bounded.Normalize(), exp
}
