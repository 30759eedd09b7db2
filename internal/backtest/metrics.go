package backtest

import (
	"math"

	"github.com/Alias1177/MatchPredictor/models"
)

// probability floor for log loss
const epsilon = 1e-15

// Record pairs a prediction with the final score of the match
type Record struct {
	Prediction *models.PredictionResult
	HomeGoals  int
	AwayGoals  int
}

// Outcome returns "1", "X" or "2" for the final score
func (r Record) Outcome() string {
	switch {
	case r.HomeGoals > r.AwayGoals:
		return "1"
	case r.HomeGoals < r.AwayGoals:
		return "2"
	default:
		return "X"
	}
}

// Bucket aggregates hit counts for a group of predictions
type Bucket struct {
	Matches           int                           `json:"matches"`
	Hits    int     `json:"hits"`
	HitRate float64 `json:"hit_rate"`
}

func (b *Bucket) add(hit bool) {
	b.Matches++
	if hit {
		b.Hits++
	}
	b.HitRate = float64(b.Hits) / float64(b.Matches)
}

// Metrics stores evaluation results
type Metrics struct {
	Matches           int                           `json:"matches"`
	OutcomeHitRate    float64                       `json:"outcome_hit_rate"`
	BrierScore        float64                       `json:"brier_score"` // 3-way, 0 is perfect, 2 is worst
	LogLoss           float64                       `json:"log_loss"`
	Over25HitRate     float64                       `json:"over25_hit_rate"`
	BTTSHitRate       float64                       `json:"btts_hit_rate"`
	ExactScoreHitRate float64                       `json:"exact_score_hit_rate"`
	ByConfidence      map[models.Confidence]*Bucket `json:"by_confidence"`
	ByMonth           map[string]*Bucket            `json:"by_month,omitempty"`
}

// Evaluate scores predictions against final results. Records without a prediction are skipped.
func Evaluate(records []Record) *Metrics {
	m := &Metrics{
		ByConfidence: make(map[models.Confidence]*Bucket),
		ByMonth:      make(map[string]*Bucket),
	}

	var outcomeHits, overHits, bttsHits, exactHits, overCount, bttsCount int
	var brier, logLoss float64

	for _, r := range records {
		p := r.Prediction
		if p == nil {
			continue
		}
		m.Matches++

		actual := r.Outcome()
		hit := p.Final.Pick() == actual
		if hit {
			outcomeHits++
		}

		brier += brierScore(p.Final, actual)
		logLoss -= math.Log(math.Max(epsilon, probabilityOf(p.Final, actual)))

		goals := r.HomeGoals + r.AwayGoals
		if over, ok := p.Markets[models.OverKey(2.5)]; ok {
			overCount++
			if (over >= 0.5) == (goals > 2) {
				overHits++
			}
		}
		if btts, ok := p.Markets[models.KeyBTTSYes]; ok {
			bttsCount++
			if (btts >= 0.5) == (r.HomeGoals > 0 && r.AwayGoals > 0) {
				bttsHits++
			}
		}
		if p.MostLikely.Home == r.HomeGoals && p.MostLikely.Away == r.AwayGoals {
			exactHits++
		}

		label := p.Reliability.Label
		if label == "" {
			label = models.ConfidenceLow
		}
		bucket(m.ByConfidence, label).add(hit)

		// Группируем по месяцам матча
		if !p.Match.Kickoff.IsZero() {
			bucket(m.ByMonth, p.Match.Kickoff.Format("2006-01")).add(hit)
		}
	}

	if m.Matches == 0 {
		return m
	}

	n := float64(m.Matches)
	m.OutcomeHitRate = float64(outcomeHits) / n
	m.BrierScore = brier / n
	m.LogLoss = logLoss / n
	m.ExactScoreHitRate = float64(exactHits) / n
	if overCount > 0 {
		m.Over25HitRate = float64(overHits) / float64(overCount)
	}
	if bttsCount > 0 {
		m.BTTSHitRate = float64(bttsHits) / float64(bttsCount)
	}
	return m
}

func bucket[K comparable](buckets map[K]*Bucket, key K) *Bucket {
	b, ok := buckets[key]
	if !ok {
		b = &Bucket{}
		buckets[key] = b
	}
	return b
}

func brierScore(p models.ProbabilityVector, actual string) float64 {
	var oh, od, oa float64
	switch actual {
	case "1":
		oh = 1
	case "X":
		od = 1
	default:
		oa = 1
	}
	return sq(p.Home-oh) + sq(p.Draw-od) + sq(p.Away-oa)
}

func probabilityOf(p models.ProbabilityVector, outcome string) float64 {
	switch outcome {
	case "1":
		return p.Home
	case "X":
		return p.Draw
	default:
		return p.Away
	}
}

func sq(x float64) float64 {
	return x * x
}
