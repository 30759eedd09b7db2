package market

import (
	"fmt"
	"math"

	"github.com/Alias1177/MatchPredictor/models"
)

// Anomaly types
const (
	AnomalyHighMargin     = "HIGH_MARGIN"
	AnomalyNegativeMargin = "NEGATIVE_MARGIN"
	AnomalyDivergence     = "MODEL_DIVERGENCE"
	AnomalyTotalsMismatch = "TOTALS_MISMATCH"
)

// Recommended flags
const (
	FlagSkipStake       = "SKIP_STAKE"
	FlagReduceStake     = "REDUCE_STAKE"
	FlagCheckLineup     = "CHECK_LINEUP"
	FlagWaitForMovement = "WAIT_FOR_MOVEMENT"
)

// DetectOddsAnomalies identifies unusual bookmaker pricing. poisson is the
// model's 1X2 vector and markets its derived markets (for the over lines).
func DetectOddsAnomalies(cfg Config, odds *models.OddsSignal, poisson models.ProbabilityVector, markets models.MarketProbabilities) []models.OddsAnomaly {
	var anomalies []models.OddsAnomaly

	// 1. Margin out of the normal range
	if margin, ok := Overround(odds); ok {
		switch {
		case margin < 0:
			anomalies = append(anomalies, models.OddsAnomaly{
				Type:    AnomalyNegativeMargin,
				Score:   math.Min(-margin/0.05, 1.0),
				Details: fmt.Sprintf("Overround %.1f%% is below zero, odds are likely stale", margin*100),
				Flags:   []string{FlagSkipStake},
			})
		case margin > cfg.MaxOverround:
			anomalies = append(anomalies, models.OddsAnomaly{
				Type:    AnomalyHighMargin,
				Score:   math.Min(margin/(2*cfg.MaxOverround), 1.0),
				Details: fmt.Sprintf("Overround %.1f%% exceeds %.1f%%", margin*100, cfg.MaxOverround*100),
				Flags:   []string{FlagReduceStake},
			})
		}
	}

	// 2. Market far from the model
	if implied, ok := ImpliedProbabilities(odds); ok && poisson.Valid(1e-6) {
		if gap := implied.MaxAbsDiff(poisson); gap > cfg.DivergenceThreshold {
			anomalies = append(anomalies, models.OddsAnomaly{
				Type:    AnomalyDivergence,
				Score:   math.Min(gap/(2*cfg.DivergenceThreshold), 1.0),
				Details: fmt.Sprintf("Market and model 1X2 differ by %.1f points", gap*100),
				Flags:   []string{FlagCheckLineup, FlagReduceStake},
			})
		}
	}

	// 3. Totals line priced far from the model
	if line, pOver, ok := ImpliedOver(odds); ok {
		if modelOver, found := markets[models.OverKey(line)]; found {
			if gap := math.Abs(pOver - modelOver); gap > cfg.DivergenceThreshold {
				anomalies = append(anomalies, models.OddsAnomaly{
					Type:    AnomalyTotalsMismatch,
					Score:   math.Min(gap/(2*cfg.DivergenceThreshold), 1.0),
					Details: fmt.Sprintf("Over %.1f priced at %.2f, model says %.2f", line, pOver, modelOver),
					Flags:   []string{FlagWaitForMovement},
				})
			}
		}
	}

	return anomalies
}

// HasFlag reports whether any anomaly recommends flag
func HasFlag(anomalies []models.OddsAnomaly, flag string) bool {
	for _, a := range anomalies {
		for _, f := range a.Flags {
			if f == flag {
				return true
			}
		}
	}
	return false
}
