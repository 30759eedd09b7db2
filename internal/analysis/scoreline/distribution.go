package scoreline

import (
	"math"
	"sort"

	"github.com/Alias1177/MatchPredictor/models"
)

// DefaultMaxGoals bounds the goal grid when the caller passes no bound
const DefaultMaxGoals = 8

// Range is an inclusive total-goals bucket
type Range struct {
	Lo int `yaml:"lo" json:"lo"`
	Hi int `yaml:"hi" json:"hi"`
}

// Config controls which markets are derived from the distribution
type Config struct {
	MaxGoals    int       `yaml:"max_goals"`
	Lines       []float64 `yaml:"lines"`
	Ranges      []Range   `yaml:"ranges"`
	TopN        int       `yaml:"top_n"`
	DrawEpsilon float64   `yaml:"draw_epsilon"` // headline score tie-break window
}

// DefaultConfig returns the standard market set
func DefaultConfig() Config {
	return Config{
		MaxGoals:    DefaultMaxGoals,
		Lines:       []float64{0.5, 1.5, 2.5, 3.5},
		Ranges:      []Range{{1, 3}, {2, 4}, {2, 5}},
		TopN:        5,
		DrawEpsilon: 0.02,
	}
}

// Distribution is the independent-Poisson joint mass over a bounded goal grid
type Distribution struct {
	LambdaHome float64
	LambdaAway float64
	MaxGoals   int
	Grid       [][]float64 // [home][away]
	total      float64
}

// Build creates the joint distribution for the given rates
func Build(lambdaHome, lambdaAway float64, maxGoals int) *Distribution {
	if maxGoals <= 0 {
		maxGoals = DefaultMaxGoals
	}
	lambdaHome = sanitizeLambda(lambdaHome)
	lambdaAway = sanitizeLambda(lambdaAway)

	home := make([]float64, maxGoals+1)
	away := make([]float64, maxGoals+1)
	for g := 0; g <= maxGoals; g++ {
		home[g] = PMF(lambdaHome, g)
		away[g] = PMF(lambdaAway, g)
	}

	grid := make([][]float64, maxGoals+1)
	total := 0.0
	for h := 0; h <= maxGoals; h++ {
		grid[h] = make([]float64, maxGoals+1)
		for a := 0; a <= maxGoals; a++ {
			grid[h][a] = home[h] * away[a]
			total += grid[h][a]
		}
	}

	return &Distribution{
		LambdaHome: lambdaHome,
		LambdaAway: lambdaAway,
		MaxGoals:   maxGoals,
		Grid:       grid,
		total:      total,
	}
}

// Mass returns the probability mass captured by the grid
func (d *Distribution) Mass() float64 {
	return d.total
}

// Outcome returns the normalized 1X2 vector
func (d *Distribution) Outcome() models.ProbabilityVector {
	var v models.ProbabilityVector
	for h := 0; h <= d.MaxGoals; h++ {
		for a := 0; a <= d.MaxGoals; a++ {
			switch {
			case h > a:
				v.Home += d.Grid[h][a]
			case h == a:
				v.Draw += d.Grid[h][a]
			default:
				v.Away += d.Grid[h][a]
			}
		}
	}
	return v.Normalize()
}

// Under returns P(total goals < line) on the grid
func (d *Distribution) Under(line float64) float64 {
	under := 0.0
	for h := 0; h <= d.MaxGoals; h++ {
		for a := 0; a <= d.MaxGoals; a++ {
			if float64(h+a) < line {
				under += d.Grid[h][a]
			}
		}
	}
	return clamp01(under)
}

// Over returns P(total goals > line). It is the complement of Under.
func (d *Distribution) Over(line float64) float64 {
	return 1 - d.Under(line)
}

// BothTeamsToScore uses the closed form (1-P(0;λh))(1-P(0;λa)) instead of the grid
func (d *Distribution) BothTeamsToScore() float64 {
	return (1 - math.Exp(-d.LambdaHome)) * (1 - math.Exp(-d.LambdaAway))
}

// Multigoal returns P(lo <= total goals <= hi)
func (d *Distribution) Multigoal(lo, hi int) float64 {
	if hi < lo {
		return 0
	}
	p := 0.0
	for h := 0; h <= d.MaxGoals; h++ {
		for a := 0; a <= d.MaxGoals; a++ {
			if t := h + a; t >= lo && t <= hi {
				p += d.Grid[h][a]
			}
		}
	}
	return clamp01(p)
}

// CorrectScore returns the probability of a single cell
func (d *Distribution) CorrectScore(home, away int) float64 {
	if home < 0 || away < 0 || home > d.MaxGoals || away > d.MaxGoals {
		return 0
	}
	return d.Grid[home][away]
}

// TopScorelines returns the n most likely cells, ties broken by fewer goals first
func (d *Distribution) TopScorelines(n int) []models.Scoreline {
	cells := make([]models.Scoreline, 0, (d.MaxGoals+1)*(d.MaxGoals+1))
	for h := 0; h <= d.MaxGoals; h++ {
		for a := 0; a <= d.MaxGoals; a++ {
			cells = append(cells, models.Scoreline{Home: h, Away: a, Probability: d.Grid[h][a]})
		}
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].Probability != cells[j].Probability {
			return cells[i].Probability > cells[j].Probability
		}
		if cells[i].Home+cells[i].Away != cells[j].Home+cells[j].Away {
			return cells[i].Home+cells[i].Away < cells[j].Home+cells[j].Away
		}
		return cells[i].Home > cells[j].Home
	})

	if n <= 0 || n > len(cells) {
		n = len(cells)
	}
	return cells[:n]
}

// MostLikely returns the headline score. When the top cell is a draw and a
// non-draw cell lies within eps of it, the non-draw is reported instead.
// This is a display heuristic only; the distribution is unchanged.
func (d *Distribution) MostLikely(eps float64) models.Scoreline {
	top := d.TopScorelines(0)
	best := top[0]
	if !best.IsDraw() || eps <= 0 {
		return best
	}
	for _, s := range top[1:] {
		if best.Probability-s.Probability > eps {
			break
		}
		if !s.IsDraw() {
			return s
		}
	}
	return best
}

// Markets derives the configured over/under, BTTS and multigoal markets
func (d *Distribution) Markets(cfg Config) models.MarketProbabilities {
	markets := models.MarketProbabilities{}
	for _, line := range cfg.Lines {
		under := d.Under(line)
		markets[models.UnderKey(line)] = under
		markets[models.OverKey(line)] = 1 - under
	}

	gg := d.BothTeamsToScore()
	markets[models.KeyBTTSYes] = gg
	markets[models.KeyBTTSNo] = 1 - gg

	for _, r := range cfg.Ranges {
		markets[models.MultigoalKey(r.Lo, r.Hi)] = d.Multigoal(r.Lo, r.Hi)
	}
	return markets
}

// Summary bundles everything derived from one lambda pair
type Summary struct {
	Outcome    models.ProbabilityVector
	Markets    models.MarketProbabilities
	Top        []models.Scoreline
	MostLikely models.Scoreline
}

// Summarize builds the distribution and derives all downstream markets
func Summarize(lambdaHome, lambdaAway float64, cfg Config) Summary {
	d := Build(lambdaHome, lambdaAway, cfg.MaxGoals)
	return Summary{
		Outcome:    d.Outcome(),
		Markets:    d.Markets(cfg),
		Top:        d.TopScorelines(cfg.TopN),
		MostLikely: d.MostLikely(cfg.DrawEpsilon),
	}
}

func sanitizeLambda(l float64) float64 {
	if math.IsNaN(l) || math.IsInf(l, 0) || l < 0 {
		return 0
	}
	return l
}

func clamp01(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
