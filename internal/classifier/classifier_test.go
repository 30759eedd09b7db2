package classifier

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	phttp "github.com/Alias1177/MatchPredictor/internal/platform/http"
	"github.com/Alias1177/MatchPredictor/models"
)

const artifactJSON = `{
  "version": "2024.03",
  "features": ["lambda_home", "lambda_away", "implied_home"],
  "imputer": [1.4, 1.1, 0.45],
  "mean": [1.4, 1.1, 0.45],
  "scale": [0.5, 0.5, 0.15],
  "outcome": {
    "weights": [[0.8, -0.6, 1.2], [0.0, 0.0, 0.0], [-0.8, 0.6, -1.2]],
    "bias": [0.3, 0.0, -0.2]
  },
  "over25": {
    "weights": [[0.5, 0.5, 0.0]],
    "bias": [0.1]
  }
}`

func TestParseAndPredict(t *testing.T) {
	a, err := Parse([]byte(artifactJSON))
	require.NoError(t, err)
	assert.Equal(t, "2024.03", a.Version)

	// every feature at its mean leaves only the biases
	sig, err := a.Predict(map[string]float64{})
	require.NoError(t, err)
	require.NotNil(t, sig.Outcome)
	require.NotNil(t, sig.Over25)

	z := []float64{0.3, 0, -0.2}
	den := math.Exp(z[0]) + math.Exp(z[1]) + math.Exp(z[2])
	assert.InDelta(t, math.Exp(0.3)/den, sig.Outcome.Home, 1e-12)
	assert.InDelta(t, 1.0, sig.Outcome.Sum(), 1e-12)
	assert.InDelta(t, 1/(1+math.Exp(-0.1)), *sig.Over25, 1e-12)

	strong, err := a.Predict(map[string]float64{"lambda_home": 2.4, "lambda_away": 0.7, "implied_home": 0.7})
	require.NoError(t, err)
	assert.Greater(t, strong.Outcome.Home, sig.Outcome.Home)

	nan, err := a.Predict(map[string]float64{"lambda_home": math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, sig.Outcome, nan.Outcome)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"not json", `{`, ErrMalformedArtifact},
		{"no features", `{"features": [], "outcome": {"weights": [], "bias": []}}`, ErrMalformedArtifact},
		{"short scaler", `{"features": ["lambda_home"], "imputer": [1], "mean": [1], "scale": [], "over25": {"weights": [[1]], "bias": [0]}}`, ErrMalformedArtifact},
		{"no heads", `{"features": ["lambda_home"], "imputer": [1], "mean": [1], "scale": [1]}`, ErrMalformedArtifact},
		{"bad head shape", `{"features": ["lambda_home"], "imputer": [1], "mean": [1], "scale": [1], "outcome": {"weights": [[1]], "bias": [0]}}`, ErrMalformedArtifact},
		{"unknown feature", `{"features": ["xg_last_10"], "imputer": [1], "mean": [1], "scale": [1], "over25": {"weights": [[1]], "bias": [0]}}`, ErrFeatureMismatch},
		{"duplicate feature", `{"features": ["lambda_home", "lambda_home"], "imputer": [1, 1], "mean": [1, 1], "scale": [1, 1], "over25": {"weights": [[1, 1]], "bias": [0]}}`, ErrMalformedArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestImplementsClassifier(t *testing.T) {
	var _ models.Classifier = (*Artifact)(nil)
}

func TestBuildFeatures(t *testing.T) {
	kickoff := time.Date(2024, 4, 6, 17, 30, 0, 0, time.UTC)
	last := kickoff.AddDate(0, 0, -4)
	home := models.TeamSignal{AttackRate: models.Float(1.9), MissingKeyPlayers: models.Int(2), LastMatch: &last}
	away := models.TeamSignal{DefenseRate: models.Float(1.4), TravelKm: models.Float(320), European: true}
	odds := &models.OddsSignal{
		Home: models.Float(2.0), Draw: models.Float(4.0), Away: models.Float(4.0),
		TotalLine: models.Float(2.5), Over: models.Float(2.0), Under: models.Float(2.0),
	}

	f := BuildFeatures(models.MatchContext{Kickoff: kickoff}, home, away, odds, models.Lambdas{Home: 1.7, Away: 1.1})

	assert.Equal(t, 1.9, f[FeatureHomeAttack])
	assert.NotContains(t, f, FeatureHomeDefense)
	assert.NotContains(t, f, FeatureAwayAttack)
	assert.Equal(t, 4.0, f[FeatureHomeRestDays])
	assert.NotContains(t, f, FeatureAwayRestDays)
	assert.Equal(t, 2.0, f[FeatureHomeMissing])
	assert.Equal(t, 320.0, f[FeatureAwayTravelKm])
	assert.Equal(t, 1.0, f[FeatureAwayEuropean])
	assert.InDelta(t, 0.5, f[FeatureImpliedHome], 1e-12)
	assert.InDelta(t, 0.5, f[FeatureImpliedOver], 1e-12)
	assert.InDelta(t, 2.8, f[FeatureLambdaTotal], 1e-12)

	for name := range f {
		assert.True(t, IsKnownFeature(name), name)
	}

	bare := BuildFeatures(models.MatchContext{}, models.TeamSignal{}, models.TeamSignal{}, nil, models.Lambdas{Home: 1, Away: 1})
	assert.NotContains(t, bare, FeatureImpliedHome)
	assert.NotContains(t, bare, FeatureImpliedOver)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(artifactJSON), 0o600))

	a, err := Load(context.Background(), path, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, a.Features, 3)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(artifactJSON))
	}))
	defer srv.Close()

	client := phttp.NewClient(phttp.ClientOptions{Timeout: time.Second, MaxRetries: 1}, zerolog.Nop())
	a, err := Load(context.Background(), srv.URL+"/model.json", client, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "2024.03", a.Version)

	_, err = Load(context.Background(), srv.URL, nil, zerolog.Nop())
	assert.Error(t, err)
}
