package goals

import "github.com/Alias1177/MatchPredictor/models"

// Profile is an attack/defense archetype used when team rates are missing
type Profile struct {
	Attack  float64 `yaml:"attack"`
	Defense float64 `yaml:"defense"`
}

// Config contains every hand-tuned constant of the expected-goals model
type Config struct {
	// === LAMBDA BOUNDS ===
	MinLambda float64 `yaml:"min_lambda"` // floor applied after every stage (default: 0.2)
	MaxLambda float64 `yaml:"max_lambda"` // ceiling applied after every stage (default: 5.0)

	// === HOME ADVANTAGE ===
	HomeAdvantage      float64 `yaml:"home_advantage"`       // default: 1.10
	DerbyHomeAdvantage float64 `yaml:"derby_home_advantage"` // declared local derbies (default: 1.12)

	// === FATIGUE (REST DAYS) ===
	ShortRestFactor float64 `yaml:"short_rest_factor"` // <= 2 days (default: 0.88)
	ThreeDayFactor  float64 `yaml:"three_day_factor"`  // 3 days (default: 0.93)
	FourDayFactor   float64 `yaml:"four_day_factor"`   // 4 days (default: 0.97)
	FullRestDays    int     `yaml:"full_rest_days"`    // default: 7
	FullRestFactor  float64 `yaml:"full_rest_factor"`  // >= FullRestDays (default: 1.05)
	EuropeanFactor  float64 `yaml:"european_factor"`   // midweek European fixture (default: 0.95)
	WeatherFactor   float64 `yaml:"weather_factor"`    // adverse weather, both sides (default: 0.96)

	// === MISSING KEY PLAYERS ===
	MissingPlayerPenalty float64 `yaml:"missing_player_penalty"` // per player on own attack (default: 0.06)
	MaxMissingPenalty    float64 `yaml:"max_missing_penalty"`    // default: 0.30
	OpponentBonus        float64 `yaml:"opponent_bonus"`         // per player on opponent attack (default: 0.03)
	MaxOpponentBonus     float64 `yaml:"max_opponent_bonus"`     // default: 0.15

	// === TRAVEL (AWAY SIDE ONLY) ===
	MediumTravelKm     float64 `yaml:"medium_travel_km"`     // default: 200
	LongTravelKm       float64 `yaml:"long_travel_km"`       // default: 800
	MediumTravelFactor float64 `yaml:"medium_travel_factor"` // default: 0.97
	LongTravelFactor   float64 `yaml:"long_travel_factor"`   // default: 0.94

	// === ARCHETYPES ===
	StrongTeams    []string `yaml:"strong_teams"`
	StrongProfile  Profile  `yaml:"strong_profile"`
	AverageProfile Profile  `yaml:"average_profile"`
	FuzzyThreshold float64  `yaml:"fuzzy_threshold"` // Jaro-Winkler similarity (default: 0.92)

	// === ODDS SKEW ===
	OddsSkewGain      float64 `yaml:"odds_skew_gain"`       // goals per unit of implied gap (default: 1.0)
	OddsSkewCap       float64 `yaml:"odds_skew_cap"`        // default: 0.55
	LowInfoSkewFactor float64 `yaml:"low_info_skew_factor"` // cap multiplier at low info (default: 2)

	// === TOTAL-GOALS ANCHOR ===
	Anchors            map[string]float64 `yaml:"anchors"`              // competition -> expected total goals
	DefaultAnchor      float64            `yaml:"default_anchor"`       // default: 2.65
	MarketAnchorWeight float64            `yaml:"market_anchor_weight"` // pull toward the totals market (default: 0.6)
	AnchorBlendHigh    float64            `yaml:"anchor_blend_high"`    // default: 0.35
	AnchorBlendMedium  float64            `yaml:"anchor_blend_medium"`  // default: 0.55
	AnchorBlendLow     float64            `yaml:"anchor_blend_low"`     // default: 0.70

	// === SYMMETRY BREAKING ===
	JitterHigh   float64 `yaml:"jitter_high"`   // default: 0.01
	JitterMedium float64 `yaml:"jitter_medium"` // default: 0.03
	JitterLow    float64 `yaml:"jitter_low"`    // default: 0.06
}

// DefaultConfig returns the default expected-goals configuration
func DefaultConfig() Config {
	return Config{
		MinLambda: 0.2,
		MaxLambda: 5.0,

		HomeAdvantage:      1.10,
		DerbyHomeAdvantage: 1.12,

		ShortRestFactor: 0.88,
		ThreeDayFactor:  0.93,
		FourDayFactor:   0.97,
		FullRestDays:    7,
		FullRestFactor:  1.05,
		EuropeanFactor:  0.95,
		WeatherFactor:   0.96,

		MissingPlayerPenalty: 0.06,
		MaxMissingPenalty:    0.30,
		OpponentBonus:        0.03,
		MaxOpponentBonus:     0.15,

		MediumTravelKm:     200,
		LongTravelKm:       800,
		MediumTravelFactor: 0.97,
		LongTravelFactor:   0.94,

		StrongTeams: []string{
			"Manchester City", "Arsenal", "Liverpool", "Chelsea", "Manchester United", "Tottenham",
			"Real Madrid", "Barcelona", "Atletico Madrid",
			"Bayern Munich", "Borussia Dortmund", "Bayer Leverkusen",
			"Inter", "Milan", "Juventus", "Napoli", "Atalanta",
			"Paris Saint-Germain", "Benfica", "Porto", "Sporting", "Ajax", "PSV",
		},
		StrongProfile:  Profile{Attack: 2.0, Defense: 0.9},
		AverageProfile: Profile{Attack: 1.35, Defense: 1.35},
		FuzzyThreshold: 0.92,

		OddsSkewGain:      1.0,
		OddsSkewCap:       0.55,
		LowInfoSkewFactor: 2,

		Anchors: map[string]float64{
			"premier league":   2.85,
			"championship":     2.55,
			"la liga":          2.55,
			"serie a":          2.65,
			"serie b":          2.40,
			"bundesliga":       3.10,
			"ligue 1":          2.70,
			"eredivisie":       3.10,
			"primeira liga":    2.50,
			"champions league": 2.95,
			"europa league":    2.75,
		},
		DefaultAnchor:      2.65,
		MarketAnchorWeight: 0.6,
		AnchorBlendHigh:    0.35,
		AnchorBlendMedium:  0.55,
		AnchorBlendLow:     0.70,

		JitterHigh:   0.01,
		JitterMedium: 0.03,
		JitterLow:    0.06,
	}
}

func (c Config) anchorBlend(info models.InfoLevel) float64 {
	switch info {
	case models.InfoHigh:
		return c.AnchorBlendHigh
	case models.InfoMedium:
		return c.AnchorBlendMedium
	default:
		return c.AnchorBlendLow
	}
}

func (c Config) jitter(info models.InfoLevel) float64 {
	switch info {
	case models.InfoHigh:
		return c.JitterHigh
	case models.InfoMedium:
		return c.JitterMedium
	default:
		return c.JitterLow
	}
}
