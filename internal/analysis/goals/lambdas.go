package goals

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/Alias1177/MatchPredictor/internal/analysis/market"
	"github.com/Alias1177/MatchPredictor/models"
)

// Estimate is the output of the expected-goals model
type Estimate struct {
	Home        float64
	Away        float64
	InfoLevel   models.InfoLevel
	Coverage    float64  // share of the four attack/defense rates actually supplied
	Substituted []string // fields filled from an archetype
	Anchor      float64
	Trace       []models.LambdaStage
}

func (e *Estimate) record(name string, home, away float64) {
	e.Trace = append(e.Trace, models.LambdaStage{Name: name, Home: home, Away: away})
}

// Model turns team signals and match context into a pair of expected-goal rates.
// It is stateless after construction and safe for concurrent use.
type Model struct {
	cfg        Config
	archetypes *archetypes
	anchors    map[string]float64
	logger     zerolog.Logger
}

// NewModel creates an expected-goals model
func NewModel(cfg Config, logger zerolog.Logger) *Model {
	return &Model{
		cfg:        cfg,
		archetypes: newArchetypes(cfg),
		anchors:    normalizeAnchors(cfg.Anchors),
		logger:     logger.With().Str("component", "expected_goals").Logger(),
	}
}

// ComputeLambdas never fails: missing inputs fall back to archetypes and anchors.
func (m *Model) ComputeLambdas(home, away models.TeamSignal, match models.MatchContext, odds *models.OddsSignal) Estimate {
	var est Estimate

	homeAtk, homeDef, homeReal := m.resolveRates(home, match.HomeTeam, "home", &est)
	awayAtk, awayDef, awayReal := m.resolveRates(away, match.AwayTeam, "away", &est)
	est.Coverage = float64(homeReal+awayReal) / 4
	est.InfoLevel = infoLevelFor(est.Coverage)

	// 1. attack/defense crossing
	lh := m.clamp((homeAtk + awayDef) / 2)
	la := m.clamp((awayAtk + homeDef) / 2)
	est.record("base", lh, la)

	// 2. home advantage
	if match.Derby {
		lh = m.clamp(lh * m.cfg.DerbyHomeAdvantage)
	} else {
		lh = m.clamp(lh * m.cfg.HomeAdvantage)
	}
	est.record("home_advantage", lh, la)

	// 3. fatigue from rest days
	if days, ok := home.RestDaysAt(match.Kickoff); ok {
		lh = m.clamp(lh * m.fatigueFactor(days))
	}
	if days, ok := away.RestDaysAt(match.Kickoff); ok {
		la = m.clamp(la * m.fatigueFactor(days))
	}
	est.record("fatigue", lh, la)

	// 4. European competition load
	if home.European {
		lh = m.clamp(lh * m.cfg.EuropeanFactor)
	}
	if away.European {
		la = m.clamp(la * m.cfg.EuropeanFactor)
	}
	est.record("european", lh, la)

	// 5. missing key players weaken own attack and the opponent faces a weaker defense
	if n := home.Missing(); n > 0 {
		lh = m.clamp(lh * (1 - math.Min(m.cfg.MaxMissingPenalty, float64(n)*m.cfg.MissingPlayerPenalty)))
		la = m.clamp(la * (1 + math.Min(m.cfg.MaxOpponentBonus, float64(n)*m.cfg.OpponentBonus)))
	}
	if n := away.Missing(); n > 0 {
		la = m.clamp(la * (1 - math.Min(m.cfg.MaxMissingPenalty, float64(n)*m.cfg.MissingPlayerPenalty)))
		lh = m.clamp(lh * (1 + math.Min(m.cfg.MaxOpponentBonus, float64(n)*m.cfg.OpponentBonus)))
	}
	est.record("missing_players", lh, la)

	// 6. travel, away side only
	if km, ok := away.Travel(); ok {
		la = m.clamp(la * m.travelFactor(km))
	}
	est.record("travel", lh, la)

	// 7. weather
	if match.AdverseWeather {
		lh = m.clamp(lh * m.cfg.WeatherFactor)
		la = m.clamp(la * m.cfg.WeatherFactor)
	}
	est.record("weather", lh, la)

	// 8. archetype substitution happened in resolveRates

	// 9. odds-informed skew
	if implied, ok := market.ImpliedProbabilities(odds); ok {
		limit := m.cfg.OddsSkewCap
		if est.InfoLevel == models.InfoLow {
			limit *= m.cfg.LowInfoSkewFactor
		}
		shift := clampRange(m.cfg.OddsSkewGain*(implied.Home-implied.Away), -limit, limit)
		lh = m.clamp(lh + shift/2)
		la = m.clamp(la - shift/2)
		est.record("odds_skew", lh, la)
	}

	// 10. target-total anchoring
	est.Anchor = m.anchorFor(match.Competition)
	if line, pOver, ok := market.ImpliedOver(odds); ok {
		target := MarketTotal(line, pOver, 2*m.cfg.MinLambda, 2*m.cfg.MaxLambda)
		est.Anchor += m.cfg.MarketAnchorWeight * (target - est.Anchor)
	}
	if total := lh + la; total > 0 {
		w := m.cfg.anchorBlend(est.InfoLevel)
		scale := ((1-w)*total + w*est.Anchor) / total
		lh = m.clamp(lh * scale)
		la = m.clamp(la * scale)
	}
	est.record("anchor", lh, la)

	// 11. deterministic symmetry breaking
	amp := m.cfg.jitter(est.InfoLevel)
	rng := rand.New(rand.NewSource(matchSeed(match)))
	lh = m.clamp(lh * (1 + amp*(2*rng.Float64()-1)))
	la = m.clamp(la * (1 + amp*(2*rng.Float64()-1)))
	est.record("perturbation", lh, la)

	est.Home, est.Away = lh, la

	m.logger.Debug().
		Str("match", match.Key()).
		Str("info_level", string(est.InfoLevel)).
		Float64("lambda_home", lh).
		Float64("lambda_away", la).
		Float64("anchor", est.Anchor).
		Msg("Computed expected goals")

	return est
}

// resolveRates returns attack and defense for a team, filling gaps from its archetype.
// The int is the number of real rates used (0..2).
func (m *Model) resolveRates(sig models.TeamSignal, team, side string, est *Estimate) (float64, float64, int) {
	atk, hasAtk := sig.Attack()
	def, hasDef := sig.Defense()
	supplied := 0
	if hasAtk {
		supplied++
	}
	if hasDef {
		supplied++
	}
	if supplied == 2 {
		return atk, def, supplied
	}

	profile, kind := m.archetypes.profile(team)
	if !hasAtk {
		atk = profile.Attack
		est.Substituted = append(est.Substituted, side+"_attack")
	}
	if !hasDef {
		def = profile.Defense
		est.Substituted = append(est.Substituted, side+"_defense")
	}

	m.logger.Debug().
		Str("team", team).
		Str("archetype", kind).
		Int("real_rates", supplied).
		Msg("Substituted archetype profile for missing team rates")

	return atk, def, supplied
}

// fatigueFactor is a step function of rest days
func (m *Model) fatigueFactor(days int) float64 {
	switch {
	case days <= 2:
		return m.cfg.ShortRestFactor
	case days == 3:
		return m.cfg.ThreeDayFactor
	case days == 4:
		return m.cfg.FourDayFactor
	case days >= m.cfg.FullRestDays:
		return m.cfg.FullRestFactor
	default:
		return 1.0
	}
}

// travelFactor is a step function of away travel distance
func (m *Model) travelFactor(km float64) float64 {
	switch {
	case km > m.cfg.LongTravelKm:
		return m.cfg.LongTravelFactor
	case km >= m.cfg.MediumTravelKm:
		return m.cfg.MediumTravelFactor
	default:
		return 1.0
	}
}

func (m *Model) clamp(l float64) float64 {
	if math.IsNaN(l) || math.IsInf(l, -1) {
		return m.cfg.MinLambda
	}
	return clampRange(l, m.cfg.MinLambda, m.cfg.MaxLambda)
}

func infoLevelFor(coverage float64) models.InfoLevel {
	switch {
	case coverage >= 1:
		return models.InfoHigh
	case coverage >= 0.5:
		return models.InfoMedium
	default:
		return models.InfoLow
	}
}

// matchSeed derives a stable seed from the fixture, never from the clock
func matchSeed(match models.MatchContext) int64 {
	h := fnv.New64a()
	h.Write([]byte(match.Key()))
	return int64(h.Sum64())
}

func clampRange(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
