package goals

import (
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
)

var noiseTokens = map[string]bool{
	"fc": true, "cf": true, "afc": true, "ac": true, "sc": true,
	"ssc": true, "club": true, "calcio": true, "the": true,
}

// normalizeName lowercases, strips punctuation and club suffixes
func normalizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, name)

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if !noiseTokens[tok] {
			tokens = append(tokens, tok)
		}
	}
	return strings.Join(tokens, " ")
}

// archetypes resolves a team name to a fallback profile
type archetypes struct {
	strong    []string
	threshold float64
	strongP   Profile
	averageP  Profile
}

func newArchetypes(cfg Config) *archetypes {
	a := &archetypes{
		threshold: cfg.FuzzyThreshold,
		strongP:   cfg.StrongProfile,
		averageP:  cfg.AverageProfile,
	}
	for _, name := range cfg.StrongTeams {
		if n := normalizeName(name); n != "" {
			a.strong = append(a.strong, n)
		}
	}
	return a
}

// isStrong fuzzy-matches the name against the strong-team list
func (a *archetypes) isStrong(team string) bool {
	name := normalizeName(team)
	if name == "" {
		return false
	}
	for _, known := range a.strong {
		if name == known {
			return true
		}
		// "inter" must not match "internacional" by containment alone
		if containsWord(name, known) || containsWord(known, name) {
			return true
		}
		if smetrics.JaroWinkler(name, known, 0.7, 4) >= a.threshold {
			return true
		}
	}
	return false
}

// profile returns the archetype for a team
func (a *archetypes) profile(team string) (Profile, string) {
	if a.isStrong(team) {
		return a.strongP, "strong"
	}
	return a.averageP, "average"
}

func containsWord(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
