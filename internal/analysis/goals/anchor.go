package goals

import (
	"strings"

	"github.com/Alias1177/MatchPredictor/internal/analysis/scoreline"
)

// anchorFor returns the expected total goals for a competition. An exact
// match wins; otherwise the longest configured name contained in it.
func (m *Model) anchorFor(competition string) float64 {
	name := normalizeName(competition)
	if name == "" {
		return m.cfg.DefaultAnchor
	}
	if v, ok := m.anchors[name]; ok {
		return v
	}

	best, bestLen := m.cfg.DefaultAnchor, 0
	for key, v := range m.anchors {
		if len(key) > bestLen && containsWord(name, key) {
			best, bestLen = v, len(key)
		}
	}
	return best
}

// MarketTotal solves for the Poisson mean T such that P(total > line) equals pOver
func MarketTotal(line, pOver, lo, hi float64) float64 {
	if pOver <= scoreline.OverProbability(lo, line) {
		return lo
	}
	if pOver >= scoreline.OverProbability(hi, line) {
		return hi
	}

	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		if scoreline.OverProbability(mid, line) < pOver {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func normalizeAnchors(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if n := normalizeName(strings.TrimSpace(k)); n != "" {
			out[n] = v
		}
	}
	return out
}
