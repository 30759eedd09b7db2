package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/MatchPredictor/models"
)

func prediction(h, d, a, over, btts float64, score models.Scoreline, label models.Confidence, kickoff time.Time) *models.PredictionResult {
	return &models.PredictionResult{
		Match: models.MatchContext{Kickoff: kickoff},
		Final: models.ProbabilityVector{Home: h, Draw: d, Away: a},
		Markets: models.MarketProbabilities{
			models.OverKey(2.5): over,
			models.KeyBTTSYes:   btts,
		},
		MostLikely:  score,
		Reliability: models.Reliability{Label: label},
	}
}

func TestEvaluate(t *testing.T) {
	march := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 13, 15, 0, 0, 0, time.UTC)

	records := []Record{
		{Prediction: prediction(0.6, 0.25, 0.15, 0.6, 0.55, models.Scoreline{Home: 2, Away: 1}, models.ConfidenceHigh, march), HomeGoals: 2, AwayGoals: 1},
		{Prediction: prediction(0.5, 0.3, 0.2, 0.4, 0.55, models.Scoreline{Home: 1, Away: 0}, models.ConfidenceMedium, march), HomeGoals: 0, AwayGoals: 0},
		{Prediction: prediction(0.2, 0.3, 0.5, 0.55, 0.6, models.Scoreline{Home: 1, Away: 1}, models.ConfidenceHigh, april), HomeGoals: 1, AwayGoals: 3},
		{Prediction: nil, HomeGoals: 1, AwayGoals: 1},
	}

	m := Evaluate(records)

	assert.Equal(t, 3, m.Matches)
	assert.InDelta(t, 2.0/3, m.OutcomeHitRate, 1e-12)
	assert.InDelta(t, 1.0, m.Over25HitRate, 1e-12)
	assert.InDelta(t, 2.0/3, m.BTTSHitRate, 1e-12)
	assert.InDelta(t, 1.0/3, m.ExactScoreHitRate, 1e-12)

	wantBrier := (0.16 + 0.0625 + 0.0225 + 0.25 + 0.49 + 0.04 + 0.04 + 0.09 + 0.25) / 3
	assert.InDelta(t, wantBrier, m.BrierScore, 1e-12)
	wantLogLoss := -(math.Log(0.6) + math.Log(0.3) + math.Log(0.5)) / 3
	assert.InDelta(t, wantLogLoss, m.LogLoss, 1e-12)

	require.Contains(t, m.ByConfidence, models.ConfidenceHigh)
	assert.Equal(t, 2, m.ByConfidence[models.ConfidenceHigh].Hits)
	assert.Equal(t, 0, m.ByConfidence[models.ConfidenceMedium].Hits)
	assert.InDelta(t, 0.5, m.ByMonth["2024-03"].HitRate, 1e-12)
	assert.Equal(t, 1, m.ByMonth["2024-04"].Matches)
}

func TestEvaluateEmpty(t *testing.T) {
	m := Evaluate(nil)
	assert.Zero(t, m.Matches)
	assert.Zero(t, m.BrierScore)
	assert.Empty(t, m.ByConfidence)
}

func TestRecordOutcome(t *testing.T) {
	assert.Equal(t, "1", Record{HomeGoals: 3, AwayGoals: 1}.Outcome())
	assert.Equal(t, "X", Record{HomeGoals: 2, AwayGoals: 2}.Outcome())
	assert.Equal(t, "2", Record{HomeGoals: 0, AwayGoals: 1}.Outcome())
}
