package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Alias1177/MatchPredictor/internal/analysis/prediction"
	"github.com/Alias1177/MatchPredictor/internal/backtest"
	"github.com/Alias1177/MatchPredictor/internal/classifier"
	"github.com/Alias1177/MatchPredictor/internal/config"
	phttp "github.com/Alias1177/MatchPredictor/internal/platform/http"
	"github.com/Alias1177/MatchPredictor/models"
)

func main() {
	// Setup context with cancellation for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) Загружаем конфигурацию и настраиваем логгер
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger := cfg.NewLogger(os.Stderr)
	log.Logger = logger

	// 2) Параметры модели
	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.TuningFile).Msg("Failed to load tuning")
	}

	// 3) Классификатор загружается один раз и дальше только читается
	var clf models.Classifier
	if cfg.ClassifierArtifact != "" {
		client := phttp.NewClient(phttp.ClientOptions{
			Timeout:        cfg.Timeout(),
			RequestsPerSec: cfg.ArtifactRPS,
			MaxRetries:     3,
		}, logger)
		artifact, err := classifier.Load(ctx, cfg.ClassifierArtifact, client, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to load classifier artifact")
		}
		clf = artifact
	}

	predictor := prediction.New(tuning, clf, logger)

	if err := run(ctx, cfg, predictor, logger); err != nil {
		logger.Fatal().Err(err).Msg("Prediction run failed")
	}
}

// run reads fixtures, predicts them in parallel and writes the results
func run(ctx context.Context, cfg *config.Config, predictor *prediction.Predictor, logger zerolog.Logger) error {
	in, closeIn, err := openInput(cfg.InputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	fixtures, err := readFixtures(in)
	if err != nil {
		return err
	}
	logger.Info().Int("fixtures", len(fixtures)).Int("workers", cfg.Workers).Msg("Starting predictions")

	results, err := predictAll(ctx, predictor, fixtures, cfg.Workers)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if err := writeResults(out, results); err != nil {
		return err
	}

	if records := backtestRecords(fixtures, results); len(records) > 0 {
		printBacktest(backtest.Evaluate(records))
	}

	logger.Info().Int("predictions", len(results)).Msg("Predictions written")
	return nil
}

// predictAll runs one goroutine per match, at most workers at a time
func predictAll(ctx context.Context, predictor *prediction.Predictor, fixtures []Fixture, workers int) ([]*models.PredictionResult, error) {
	results := make([]*models.PredictionResult, len(fixtures))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	for i := range fixtures {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := predictor.Predict(fixtures[i].Request)
			res.GeneratedAt = time.Now().UTC()
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("predicting fixtures: %w", err)
	}
	return results, nil
}

func backtestRecords(fixtures []Fixture, results []*models.PredictionResult) []backtest.Record {
	var records []backtest.Record
	for i, f := range fixtures {
		if f.Result == nil {
			continue
		}
		records = append(records, backtest.Record{
			Prediction: results[i],
			HomeGoals:  f.Result.Home,
			AwayGoals:  f.Result.Away,
		})
	}
	return records
}

// printBacktest outputs evaluation metrics to stderr
func printBacktest(m *backtest.Metrics) {
	fmt.Fprintf(os.Stderr, "\n===== BACKTEST RESULTS =====\n")
	fmt.Fprintf(os.Stderr, "Matches: %d\n", m.Matches)
	fmt.Fprintf(os.Stderr, "1X2 hit rate: %.2f%%\n", m.OutcomeHitRate*100)
	fmt.Fprintf(os.Stderr, "Brier score: %.4f | Log loss: %.4f\n", m.BrierScore, m.LogLoss)
	fmt.Fprintf(os.Stderr, "Over 2.5 hit rate: %.2f%% | BTTS hit rate: %.2f%%\n", m.Over25HitRate*100, m.BTTSHitRate*100)
	fmt.Fprintf(os.Stderr, "Exact score hit rate: %.2f%%\n", m.ExactScoreHitRate*100)

	fmt.Fprintln(os.Stderr, "\nBy confidence:")
	for _, label := range []models.Confidence{models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow} {
		if b, ok := m.ByConfidence[label]; ok {
			fmt.Fprintf(os.Stderr, "- %s: %d/%d (%.2f%%)\n", label, b.Hits, b.Matches, b.HitRate*100)
		}
	}

	if len(m.ByMonth) > 0 {
		fmt.Fprintln(os.Stderr, "\nBy month:")

		// Сортируем ключи для хронологического вывода
		months := make([]string, 0, len(m.ByMonth))
		for month := range m.ByMonth {
			months = append(months, month)
		}
		sort.Strings(months)

		for _, month := range months {
			b := m.ByMonth[month]
			fmt.Fprintf(os.Stderr, "- %s: %d/%d (%.2f%%)\n", month, b.Hits, b.Matches, b.HitRate*100)
		}
	}
}
