package reasoning

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/MatchPredictor/internal/utils"
	"github.com/Alias1177/MatchPredictor/models"
)

func TestNormalize(t *testing.T) {
	n := Normalize(models.ContextScores{
		Motivation: models.Float(150),
		Form:       models.Float(25),
		HeadToHead: models.Float(-45),
		Fatigue:    models.Float(10),
		Momentum:   models.Float(math.NaN()),
	})

	assert.Equal(t, 1.0, n.Motivation)
	assert.Equal(t, 0.5, n.Form)
	assert.Equal(t, -1.0, n.HeadToHead)
	assert.Equal(t, 0.0, n.Fatigue)
	assert.Equal(t, 0.0, n.Momentum)
}

func TestFactor(t *testing.T) {
	w := utils.DefaultFactorWeights()

	tests := []struct {
		name   string
		scores models.ContextScores
		want   float64
	}{
		{"absent scores are neutral", models.ContextScores{}, 0},
		{"full motivation", models.ContextScores{Motivation: models.Float(100)}, 0.20},
		{"best form and momentum", models.ContextScores{Form: models.Float(50), Momentum: models.Float(20)}, 0.50},
		{"exhausted", models.ContextScores{Fatigue: models.Float(-30)}, -0.15},
		{
			"everything maxed",
			models.ContextScores{
				Motivation: models.Float(100), Form: models.Float(50), HeadToHead: models.Float(30),
				Fatigue: models.Float(0), Momentum: models.Float(20),
			},
			0.85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Factor(tt.scores, w), 1e-12)
		})
	}
}

func TestAdjustIdentityWithoutContext(t *testing.T) {
	p := models.ProbabilityVector{Home: 0.47, Draw: 0.27, Away: 0.26}

	got, exp := Adjust(p, 0, 0, 0.25)
	assert.Equal(t, p, got)
	assert.Zero(t, exp.NetHomeShift)

	got, _ = Adjust(p, 0.4, 0.4, 0.25)
	assert.Equal(t, p, got)

	layer := NewLayer(DefaultConfig(), zerolog.Nop())
	zero := models.ContextScores{
		Motivation: models.Float(0), Form: models.Float(0), HeadToHead: models.Float(0),
		Fatigue: models.Float(0), Momentum: models.Float(0),
	}
	got, exp = layer.Apply(p, zero, zero)
	assert.Equal(t, p, got)
	assert.Empty(t, exp.Notes)
}

func TestAdjustShiftsTowardStrongerContext(t *testing.T) {
	p := models.ProbabilityVector{Home: 0.40, Draw: 0.30, Away: 0.30}

	got, exp := Adjust(p, 0.5, -0.1, 0.25)

	assert.InDelta(t, 0.15, exp.NetHomeShift, 1e-12)
	assert.InDelta(t, -0.15, exp.NetAwayShift, 1e-12)
	assert.False(t, exp.Clamped)
	assert.InDelta(t, 0.55, got.Home, 1e-12)
	assert.InDelta(t, 0.30, got.Draw, 1e-12)
	assert.InDelta(t, 0.15, got.Away, 1e-12)
}

func TestAdjustNetShiftCapped(t *testing.T) {
	p := models.ProbabilityVector{Home: 0.35, Draw: 0.30, Away: 0.35}

	_, exp := Adjust(p, 1, -1, 0.2)
	assert.InDelta(t, 0.2, exp.NetHomeShift, 1e-12)
	assert.True(t, exp.Clamped)
}

func TestAdjustInvariants(t *testing.T) {
	factors := []float64{-1, -0.6, -0.2, 0, 0.3, 0.7, 1}
	inputs := []models.ProbabilityVector{
		{Home: 0.60, Draw: 0.25, Away: 0.15},
		{Home: 0.33, Draw: 0.34, Away: 0.33},
		{Home: 0.10, Draw: 0.20, Away: 0.70},
		{Home: 0.85, Draw: 0.10, Away: 0.05},
	}

	for _, maxAdj := range []float64{0.2, 0.25, 0.3} {
		for _, p := range inputs {
			for _, hf := range factors {
				for _, af := range factors {
					got, exp := Adjust(p, hf, af, maxAdj)

					require.InDelta(t, 1.0, got.Sum(), 1e-9)
					require.LessOrEqual(t, math.Abs(exp.NetHomeShift), maxAdj+1e-12)
					require.LessOrEqual(t, math.Abs(got.Home-p.Home), maxAdj+1e-9)
					require.LessOrEqual(t, math.Abs(got.Draw-p.Draw), maxAdj+1e-9)
					require.LessOrEqual(t, math.Abs(got.Away-p.Away), maxAdj+1e-9)
					require.True(t, got.Valid(1e-9))
				}
			}
		}
	}
}

func TestExplain(t *testing.T) {
	notes := Explain("home", models.ContextScores{
		Motivation: models.Float(85),
		Form:       models.Float(-30),
		HeadToHead: models.Float(10),
		Fatigue:    models.Float(-20),
		Momentum:   models.Float(15),
	})

	var factors []string
	for _, n := range notes {
		factors = append(factors, n.Factor)
		assert.Equal(t, "home", n.Side)
		assert.NotEmpty(t, n.Message)
	}
	assert.Equal(t, []string{utils.FactorMotivation, utils.FactorForm, utils.FactorFatigue, utils.FactorMomentum}, factors)
	assert.Empty(t, Explain("away", models.ContextScores{}))
}

func TestScoresFromHistory(t *testing.T) {
	s := ScoresFromHistory(models.TeamHistory{
		Form:       "WWWLD",
		HeadToHead: "LLD",
		RestDays:   models.Int(3),
		Stakes:     "Title",
	})

	require.NotNil(t, s.Form)
	assert.Greater(t, *s.Form, 0.0)
	assert.LessOrEqual(t, *s.Form, 50.0)
	require.NotNil(t, s.HeadToHead)
	assert.Less(t, *s.HeadToHead, 0.0)
	assert.Equal(t, -20.0, *s.Fatigue)
	assert.Equal(t, 15.0, *s.Momentum)
	assert.Equal(t, 90.0, *s.Motivation)

	empty := ScoresFromHistory(models.TeamHistory{})
	assert.Nil(t, empty.Form)
	assert.Nil(t, empty.Momentum)
	assert.Nil(t, empty.Motivation)
	assert.Zero(t, Factor(empty, utils.DefaultFactorWeights()))
}

func TestDecayedResults(t *testing.T) {
	v, ok := decayedResults("WWWWWWLLL", 6)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = decayedResults("LD", 6)
	require.True(t, ok)
	assert.InDelta(t, -1/1.9, v, 1e-12)

	_, ok = decayedResults("??", 6)
	assert.False(t, ok)
}

func TestStreak(t *testing.T) {
	tests := []struct {
		form string
		want float64
		ok   bool
	}{
		{"WWL", 10, true},
		{"LLLLLL", -20, true},
		{"DWW", 0, true},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			got, ok := streak(tt.form)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
