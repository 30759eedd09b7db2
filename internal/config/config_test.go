package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LOG_LEVEL", "PREDICTOR_INPUT", "PREDICTOR_WORKERS", "REQUEST_TIMEOUT", "CLASSIFIER_ARTIFACT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "-", cfg.InputPath)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Empty(t, cfg.ClassifierArtifact)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PREDICTOR_WORKERS", "12")
	t.Setenv("REQUEST_TIMEOUT", "not-a-number")
	t.Setenv("CLASSIFIER_ARTIFACT", "https://models.example.com/1x2.json")
	t.Setenv("ARTIFACT_RPS", "-3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Workers)
	assert.Equal(t, 30, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.ArtifactRPS)
	assert.Equal(t, "https://models.example.com/1x2.json", cfg.ClassifierArtifact)
}

func TestNewLoggerJSON(t *testing.T) {
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	var buf bytes.Buffer

	logger := cfg.NewLogger(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestDefaultTuningIsValid(t *testing.T) {
	assert.NoError(t, ValidateTuning(DefaultTuning()))
}

func TestParseTuningOverlay(t *testing.T) {
	data := []byte(`
goals:
  home_advantage: 1.08
  anchors:
    premier league: 2.9
scoreline:
  draw_epsilon: 0.015
reasoning:
  max_adjustment: 0.2
`)
	tuning, err := ParseTuning(data)
	require.NoError(t, err)

	assert.Equal(t, 1.08, tuning.Goals.HomeAdvantage)
	assert.Equal(t, map[string]float64{"premier league": 2.9}, tuning.Goals.Anchors)
	assert.Equal(t, 0.015, tuning.Scoreline.DrawEpsilon)
	assert.Equal(t, 0.2, tuning.Reasoning.MaxAdjustment)

	// untouched values keep their defaults
	assert.Equal(t, DefaultTuning().Goals.DerbyHomeAdvantage, tuning.Goals.DerbyHomeAdvantage)
	assert.Equal(t, DefaultTuning().Reasoning.Weights, tuning.Reasoning.Weights)
	assert.Equal(t, DefaultTuning().Goals.StrongTeams, tuning.Goals.StrongTeams)
}

func TestParseTuningRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"weights not summing to one", "reasoning:\n  weights:\n    form: 0.9\n"},
		{"max adjustment too large", "reasoning:\n  max_adjustment: 0.8\n"},
		{"anchor out of range", "goals:\n  anchors:\n    serie a: 6.0\n"},
		{"lambda bounds inverted", "goals:\n  min_lambda: 6\n"},
		{"integer line", "scoreline:\n  lines: [2]\n"},
		{"epsilon too wide", "scoreline:\n  draw_epsilon: 0.2\n"},
		{"kelly fraction above one", "staking:\n  kelly_fraction: 1.5\n"},
		{"negative min edge", "staking:\n  min_edge: -0.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTuning([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidTuning)
		})
	}

	_, err := ParseTuning([]byte("goals: [not, a, map]"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidTuning)
}

func TestLoadTuningFile(t *testing.T) {
	tuning, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning().Market, tuning.Market)

	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("market:\n  model_weight_low: 0.3\n"), 0o600))

	tuning, err = LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, tuning.Market.ModelWeightLow)

	_, err = LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
