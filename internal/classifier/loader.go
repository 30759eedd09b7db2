package classifier

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	phttp "github.com/Alias1177/MatchPredictor/internal/platform/http"
)

// Load reads an artifact from a local path or an http(s) URL. It is called
// once per process; the returned artifact is shared read-only.
func Load(ctx context.Context, source string, client *phttp.Client, logger zerolog.Logger) (*Artifact, error) {
	logger = logger.With().Str("component", "classifier_loader").Logger()

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if client == nil {
			return nil, fmt.Errorf("loading classifier from %s: no http client", source)
		}
		data, err = client.Fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("loading classifier from %s: %w", source, err)
	}

	artifact, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading classifier from %s: %w", source, err)
	}

	logger.Info().
		Str("source", source).
		Str("version", artifact.Version).
		Int("features", len(artifact.Features)).
		Bool("outcome_head", artifact.Outcome != nil).
		Bool("over25_head", artifact.Over25 != nil).
		Msg("Classifier artifact loaded")

	return artifact, nil
}
