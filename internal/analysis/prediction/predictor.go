package prediction

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alias1177/MatchPredictor/internal/analysis/goals"
	"github.com/Alias1177/MatchPredictor/internal/analysis/market"
	"github.com/Alias1177/MatchPredictor/internal/analysis/reasoning"
	"github.com/Alias1177/MatchPredictor/internal/analysis/reliability"
	"github.com/Alias1177/MatchPredictor/internal/analysis/scoreline"
	"github.com/Alias1177/MatchPredictor/internal/classifier"
	"github.com/Alias1177/MatchPredictor/internal/config"
	"github.com/Alias1177/MatchPredictor/internal/staking"
	"github.com/Alias1177/MatchPredictor/models"
)

// overUnderLine is the goal line the classifier head is trained on
const overUnderLine = 2.5

// Request carries every signal available for one match. Everything but Match is optional.
type Request struct {
	Match       models.MatchContext      `json:"match"`
	Home        models.TeamSignal        `json:"home"`
	Away        models.TeamSignal        `json:"away"`
	Odds        *models.OddsSignal       `json:"odds,omitempty"`
	Classifier  *models.ClassifierSignal `json:"classifier,omitempty"` // precomputed by an external model
	HomeContext *models.ContextScores    `json:"home_context,omitempty"`
	AwayContext *models.ContextScores    `json:"away_context,omitempty"`
	HomeHistory *models.TeamHistory      `json:"home_history,omitempty"`
	AwayHistory *models.TeamHistory      `json:"away_history,omitempty"`
}

// Predictor runs the full pipeline: expected goals, scoreline distribution,
// market blending, contextual adjustment and reliability scoring.
// It holds no per-match state and is safe for concurrent use.
type Predictor struct {
	tuning      config.Tuning
	goals       *goals.Model
	blender     *market.Blender
	layer       *reasoning.Layer
	reliability *reliability.Scorer
	logger      zerolog.Logger
}

// New creates a predictor. clf may be nil.
func New(tuning config.Tuning, clf models.Classifier, logger zerolog.Logger) *Predictor {
	return &Predictor{
		tuning:      tuning,
		goals:       goals.NewModel(tuning.Goals, logger),
		blender:     market.NewBlender(tuning.Market, clf, logger),
		layer:       reasoning.NewLayer(tuning.Reasoning, logger),
		reliability: reliability.NewScorer(tuning.Reliability),
		logger:      logger.With().Str("component", "predictor").Logger(),
	}
}

// Predict never fails: absent or invalid signals degrade to documented fallbacks
func (p *Predictor) Predict(req Request) *models.PredictionResult {
	// 1. Expected goals
	est := p.goals.ComputeLambdas(req.Home, req.Away, req.Match, req.Odds)
	lambdas := models.Lambdas{Home: est.Home, Away: est.Away}

	// 2. Scoreline distribution
	summary := scoreline.Summarize(est.Home, est.Away, p.tuning.Scoreline)

	// 3. Classifier: a precomputed signal wins, the injected artifact fills the gaps
	var signal *models.ClassifierSignal
	if p.blender.HasClassifier() {
		signal = p.blender.Classify(classifier.BuildFeatures(req.Match, req.Home, req.Away, req.Odds, lambdas))
	}
	signal = req.Classifier.Merge(signal)

	// 4. Market blend
	var marketVec *models.ProbabilityVector
	if implied, ok := market.ImpliedProbabilities(req.Odds); ok {
		marketVec = &implied
	} else if req.Odds != nil {
		p.logger.Debug().Str("match", req.Match.Key()).Msg("1X2 odds unusable, treating as absent")
	}
	blend := p.blender.Blend(summary.Outcome, signal, marketVec, est.InfoLevel)

	anomalies := market.DetectOddsAnomalies(p.tuning.Market, req.Odds, summary.Outcome, summary.Markets)
	for _, a := range anomalies {
		p.logger.Warn().
			Str("match", req.Match.Key()).
			Str("type", a.Type).
			Float64("score", a.Score).
			Msg(a.Details)
	}

	// 5. Contextual adjustment
	homeCtx := contextScores(req.HomeContext, req.HomeHistory)
	awayCtx := contextScores(req.AwayContext, req.AwayHistory)
	final, explanation := p.layer.Apply(blend.Vector, homeCtx, awayCtx)

	// 6. Markets
	markets := make(models.MarketProbabilities, len(summary.Markets)+3)
	for k, v := range summary.Markets {
		markets[k] = v
	}
	if poissonOver, ok := markets[models.OverKey(overUnderLine)]; ok {
		over, _ := p.blender.OverUnder(poissonOver, signal)
		markets[models.OverKey(overUnderLine)] = over
		markets[models.UnderKey(overUnderLine)] = 1 - over
	}
	markets[models.KeyDoubleHome] = final.Home + final.Draw
	markets[models.KeyDoubleAway] = final.Draw + final.Away
	markets[models.KeyDoubleNoDraw] = final.Home + final.Away

	// 7. Reliability
	hasClassifier := signal != nil && (signal.Outcome != nil || signal.Over25 != nil)
	agreement := signal != nil && signal.Outcome != nil && p.reliability.Agreement(*signal.Outcome, summary.Outcome)
	rel := p.reliability.Score(coverage(req), marketVec != nil, hasClassifier, agreement)

	result := &models.PredictionResult{
		PredictionID:  PredictionID(req.Match),
		Match:         req.Match,
		Lambdas:       lambdas,
		InfoLevel:     est.InfoLevel,
		Substituted:   est.Substituted,
		Poisson:       summary.Outcome,
		Blended:       blend.Vector,
		Final:         final,
		BlendSource:   blend.Source,
		Markets:       markets,
		TopScorelines: summary.Top,
		MostLikely:    summary.MostLikely,
		Reliability:   rel,
		Explanation:   explanation,
		ValueEdges:    market.ValueEdges(final, req.Odds),
		Stakes:        stakes(p.tuning.Staking, final, req.Odds, rel, anomalies),
		Anomalies:     anomalies,
		Trace:         est.Trace,
	}

	p.logger.Debug().
		Str("prediction_id", result.PredictionID).
		Str("match", req.Match.Key()).
		Str("pick", final.Pick()).
		Str("blend_source", blend.Source).
		Str("reliability", string(rel.Label)).
		Msg("Prediction generated")

	return result
}

// PredictionID is a name-based UUID of the fixture, stable across runs
func PredictionID(match models.MatchContext) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(match.Key())).String()
}

// contextScores prefers explicit sub-scores over ones derived from history
func contextScores(explicit *models.ContextScores, history *models.TeamHistory) models.ContextScores {
	if explicit != nil {
		return *explicit
	}
	if history != nil {
		return reasoning.ScoresFromHistory(*history)
	}
	return models.ContextScores{}
}

// stakes keeps only the legs worth a non-zero stake. Odds anomalies can veto or halve them.
func stakes(cfg staking.Config, final models.ProbabilityVector, odds *models.OddsSignal, rel models.Reliability, anomalies []models.OddsAnomaly) map[string]float64 {
	if market.HasFlag(anomalies, market.FlagSkipStake) {
		return nil
	}
	scale := 1.0
	if market.HasFlag(anomalies, market.FlagReduceStake) {
		scale = 0.5
	}

	var out map[string]float64
	for _, s := range staking.Suggest(cfg, final, odds, rel) {
		if s.Stake <= 0 {
			continue
		}
		if out == nil {
			out = make(map[string]float64)
		}
		out[s.Outcome] = s.Stake * scale
	}
	return out
}

// coverage is the share of core signals actually supplied
func coverage(req Request) float64 {
	present := 0
	count := func(ok bool) {
		if ok {
			present++
		}
	}

	_, ok := req.Home.Attack()
	count(ok)
	_, ok = req.Home.Defense()
	count(ok)
	_, ok = req.Away.Attack()
	count(ok)
	_, ok = req.Away.Defense()
	count(ok)
	_, ok = req.Home.RestDaysAt(req.Match.Kickoff)
	count(ok)
	_, ok = req.Away.RestDaysAt(req.Match.Kickoff)
	count(ok)
	count(req.Odds.Has1X2())
	count(req.Odds.HasTotals())

	return float64(present) / 8
}
